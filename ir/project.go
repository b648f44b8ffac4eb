package ir

import "github.com/plx-lang/plx/types"

// GlobalBlock is a named group of global variables (spec §3.5), mapping to
// Beckhoff GVLs, Siemens tag tables, or AB controller-scoped tags on the
// vendor side (spec §6.2).
type GlobalBlock struct {
	Name        string
	Description string
	Variables   []Variable
}

// LibraryReference records an external library dependency (SPEC_FULL.md
// §3 supplement). Resolving the library itself is out of scope (spec §1);
// it is carried losslessly for vendor emission and persistence only.
type LibraryReference struct {
	Name    string
	Version string
	Vendor  string
}

// -----------------------------------------------------------------------------
// Hardware / I/O descriptor (SPEC_FULL.md component H)

// IODirection is the direction of an I/O point.
type IODirection int

const (
	IOInput IODirection = iota
	IOOutput
)

// IOPoint is a single I/O point mapping to a PLC variable (SPEC_FULL.md
// §H, grounded on original_source/model/hardware.py).
type IOPoint struct {
	Address        string
	DataType       types.Type
	Direction      IODirection
	Description    string
	MappedVariable string // optional; validated by project/ against globals/task POUs
}

// Module is an I/O module, deliberately without rack/slot topology — that
// detail belongs to vendor IRs, not the universal IR (SPEC_FULL.md §H).
type Module struct {
	Name        string
	ModuleType  string
	ModelNumber string
	IOPoints    []IOPoint
}

// Controller is the top-level hardware descriptor optionally attached to a
// Project.
type Controller struct {
	Name    string
	Model   string
	Vendor  string
	Modules []Module
}

// -----------------------------------------------------------------------------

// Project composes POUs, data types, global variables, and tasks (spec
// §3.5). A Project value returned by project.Compile (component E) has
// already passed every cross-reference and structural check; ir.Project
// itself only guards the representational shape (names present,
// containers non-nil), leaving semantic validation to the project
// package.
type Project struct {
	Name        string
	Description string
	Controller  *Controller
	Tasks       []*Task
	POUs        []*POU
	DataTypes   []types.Type
	Globals     []GlobalBlock
	Libraries   []LibraryReference
	Metadata    map[string]string
}

// POUByName looks up a POU by name.
func (p *Project) POUByName(name string) (*POU, bool) {
	for _, pou := range p.POUs {
		if pou.Name == name {
			return pou, true
		}
	}
	return nil, false
}

// GlobalVariable looks up a global variable by name across every global
// block, returning the owning block's name too.
func (p *Project) GlobalVariable(name string) (Variable, string, bool) {
	for _, gb := range p.Globals {
		for _, v := range gb.Variables {
			if v.Name == name {
				return v, gb.Name, true
			}
		}
	}
	return Variable{}, "", false
}
