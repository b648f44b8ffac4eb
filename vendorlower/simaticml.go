package vendorlower

import "github.com/plx-lang/plx/ir"

// SimaticML emits Siemens TIA Portal project files: an XML document in the
// SimaticML interchange schema (spec §6.2). Siemens function blocks have
// no EXTENDS, so inheritance is flattened in advance, same as L5X.
type SimaticML struct{}

func (SimaticML) Name() string { return "SimaticML" }

func (SimaticML) RequiresFlattening() bool { return true }

func (SimaticML) Emit(p *ir.Project) ([]byte, error) {
	if err := checkProject(p); err != nil {
		return nil, err
	}
	return nil, ErrNotImplemented
}
