package st

import "github.com/plx-lang/plx/ir"

// EmitProject renders a whole validated Project IR as IEC 61131-3
// Structured Text source text.
func EmitProject(p *ir.Project) (string, error) {
	w := newWriter()
	w.project(p)
	return w.String(), nil
}

// EmitPOU renders a single POU, used by the simulator/CLI to preview one
// routine's source without regenerating the whole project.
func EmitPOU(p *ir.POU) string {
	w := newWriter()
	w.pou(p)
	return w.String()
}

// StructuredText implements vendorlower.Emitter by producing plain IEC
// 61131-3 ST source text. Unlike L5X and SimaticML it needs no flattening
// pass — ST syntax (and TwinCAT's TcPOU dialect) natively expresses
// FUNCTION_BLOCK ... EXTENDS.
type StructuredText struct{}

func (StructuredText) Name() string { return "StructuredText" }

func (StructuredText) RequiresFlattening() bool { return false }

func (StructuredText) Emit(p *ir.Project) ([]byte, error) {
	text, err := EmitProject(p)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}
