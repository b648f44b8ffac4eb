package st

import "github.com/plx-lang/plx/ir"

// project writes a whole Project as a sequence of type definitions,
// global variable lists, and POUs, each section separated by a blank
// line, following original_source/export/st.py's write_project ordering.
func (w *writer) project(p *ir.Project) {
	for _, t := range p.DataTypes {
		w.typeDefinition(t)
		w.blank()
	}

	for _, gb := range p.Globals {
		w.globalBlock(gb)
		w.blank()
	}

	for i, pou := range p.POUs {
		w.pou(pou)
		if i < len(p.POUs)-1 {
			w.blank()
		}
	}
}

func (w *writer) globalBlock(gb ir.GlobalBlock) {
	if gb.Description != "" {
		w.line("// " + gb.Description)
	}
	w.line("VAR_GLOBAL")
	w.indentInc()
	for _, v := range gb.Variables {
		w.varDecl(v)
	}
	w.indentDec()
	w.line("END_VAR")
}
