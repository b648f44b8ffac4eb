package vendorlower

import "github.com/plx-lang/plx/ir"

// L5X emits Allen-Bradley RSLogix project files: an XML document per the
// published RSLogix schema (spec §6.2). Inheritance must be flattened in
// advance since RSLogix function blocks have no EXTENDS.
//
// The schema itself (controller tags, program/routine XML, AOI
// definitions) is out of this repo's scope (spec §1: "vendor XML/binary
// serializers beyond their schema contracts"); this type exists so the
// Project → vendor-IR boundary has a concrete implementer to compile
// against.
type L5X struct{}

func (L5X) Name() string { return "L5X" }

func (L5X) RequiresFlattening() bool { return true }

func (L5X) Emit(p *ir.Project) ([]byte, error) {
	if err := checkProject(p); err != nil {
		return nil, err
	}
	return nil, ErrNotImplemented
}
