package sim

import (
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
)

// chartState is the simulator's run-time cursor over a Chart: the single
// active step (spec §3.4/§9 defer parallel branches, so exactly one step is
// ever active) and whether this scan is its first since becoming active,
// which governs P-qualified ("pulse on activation") actions.
type chartState struct {
	active      string
	justEntered bool
}

func newChartState(chart *ir.Chart) (*chartState, error) {
	init := chart.InitialStep()
	if init.Name == "" {
		return nil, report.New(report.InternalInvariant, nil, "chart has no initial step")
	}
	return &chartState{active: init.Name, justEntered: true}, nil
}

// stepChart runs one scan of pou's chart: executes the active step's
// actions (N every active scan, P only on the scan it becomes active), then
// evaluates its outgoing transitions in declaration order and moves to the
// first one whose condition is true (spec §4.6: "simultaneous firings
// resolved by transition declaration order").
func stepChart(f *frame, pou *ir.POU) error {
	cs := f.ctrl.chart
	chart := pou.Chart

	step, ok := chart.StepByName(cs.active)
	if !ok {
		return report.NewRuntimeFault("InternalInvariant", "active step \""+cs.active+"\" no longer exists", cs.active)
	}

	if cs.justEntered {
		for _, a := range step.EntryActions {
			if err := runAction(f, pou, a); err != nil {
				return err
			}
		}
	}
	for _, a := range step.Actions {
		if a.Qualifier == ir.QualP && !cs.justEntered {
			continue
		}
		if err := runAction(f, pou, a); err != nil {
			return err
		}
	}

	for _, t := range chart.OutgoingTransitions(cs.active) {
		cond, err := eval(f, t.Condition)
		if err != nil {
			return err
		}
		if !cond.B {
			continue
		}
		for _, a := range step.ExitActions {
			if err := runAction(f, pou, a); err != nil {
				return err
			}
		}
		cs.active = t.Target
		cs.justEntered = true
		return nil
	}

	cs.justEntered = false
	return nil
}

func runAction(f *frame, pou *ir.POU, a ir.StepAction) error {
	body := a.Body
	if a.ActionName != "" {
		body = pou.Actions[a.ActionName]
	}
	_, _, err := execBlock(f, body)
	return err
}
