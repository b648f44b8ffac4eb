package sim

import (
	"time"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// Controller is a running instance of one POU: a virtual clock (integer
// nanoseconds, monotonic, advanced only by Tick) plus the instance's own
// record of variable cells (spec §4.6). Controller.Scan executes one scan
// with whatever inputs were most recently staged via SetInput.
type Controller struct {
	rt    *Runtime
	pou   *ir.POU
	self  *Cell

	clock     time.Duration
	scanCount int64
	firstScan bool

	chart *chartState // non-nil only when pou.Chart != nil
}

// Simulate constructs a top-level instance of pou, with every variable
// initialized to its declared (or IEC-standard zero) initial value (spec
// §4.6: "construct a top-level instance, initialize all variables to
// declared initial values"). rt resolves any other POU the instance's body
// calls into (self methods, nested function-block instances, plain
// function calls).
func Simulate(pou *ir.POU, rt *Runtime) (*Controller, error) {
	c := &Controller{rt: rt, pou: pou, self: NewCell(fbInstanceTypeFor(pou))}
	if pou.Chart != nil {
		cs, err := newChartState(pou.Chart)
		if err != nil {
			return nil, err
		}
		c.chart = cs
	}
	return c, nil
}

// SetInput stages an input value onto the instance's own variable cell,
// type-checked against the variable's declared type (spec §4.6:
// "Controller.<input> = v: stage an input value (type-checked)").
func (c *Controller) SetInput(name string, v types.Value) error {
	cell, ok := c.self.Fields[name]
	if !ok {
		return report.New(report.NameUnresolved, nil, "no such variable %q on %q", name, c.pou.Name)
	}
	if !types.AssignableFrom(cell.Type, v.Type) {
		return report.New(report.TypeMismatch, nil, "cannot assign %s to %s.%s (%s)", v.Type.Repr(), c.pou.Name, name, cell.Type.Repr())
	}
	cell.Value = v
	return nil
}

// Value reads the current value of a top-level scalar variable (e.g.
// "lamp"). It resolves bare names only: a composite variable such as an FB
// instance ("myTimer") is rejected with TypeMismatch, and its outputs are
// read with Field (e.g. Field("myTimer", "Q")).
func (c *Controller) Value(name string) (types.Value, error) {
	cell, ok := c.self.Fields[name]
	if !ok {
		return types.Value{}, report.New(report.NameUnresolved, nil, "no such variable %q on %q", name, c.pou.Name)
	}
	if cell.Fields != nil || cell.Elems != nil {
		return types.Value{}, report.New(report.TypeMismatch, nil, "%q is a composite value, not a scalar", name)
	}
	return cell.Value, nil
}

// Field reads a field of a struct-typed or function-block-instance
// variable (e.g. "myTimer", "Q" for a timer's output).
func (c *Controller) Field(instance, field string) (types.Value, error) {
	inst, ok := c.self.Fields[instance]
	if !ok {
		return types.Value{}, report.New(report.NameUnresolved, nil, "no such variable %q on %q", instance, c.pou.Name)
	}
	cell, ok := inst.Fields[field]
	if !ok {
		return types.Value{}, report.New(report.NameUnresolved, nil, "no such field %q on %q", field, instance)
	}
	return cell.Value, nil
}

// Tick advances the virtual clock by d without executing a scan, letting a
// caller separate "time passes" from "the program runs" the way a real PLC
// would never allow but a test harness often wants to.
func (c *Controller) Tick(d time.Duration) { c.clock += d }

// Clock returns the controller's current virtual-clock value.
func (c *Controller) Clock() time.Duration { return c.clock }

// ScanCount returns the number of completed scans.
func (c *Controller) ScanCount() int64 { return c.scanCount }

// Scan executes one scan cycle against the currently staged inputs.
// first_scan() reads TRUE only during the very first call (spec §4.6,
// SPEC_FULL.md §D/§F). A RuntimeFault aborts the scan in place — whatever
// mutations happened before the fault are left standing, and outputs set by
// a prior successful scan remain observable (spec §7).
func (c *Controller) Scan() error {
	c.scanCount++
	c.firstScan = c.scanCount == 1

	f := &frame{ctrl: c, self: c.self}
	_, _, err := runBody(f, c.pou)
	return err
}
