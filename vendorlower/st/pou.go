package st

import (
	"fmt"
	"sort"

	"github.com/plx-lang/plx/ir"
)

// pou writes one top-level Program Organization Unit. Any inline step
// actions its chart synthesizes (see sfc.go) are appended to pending so
// the caller can emit their ACTION blocks once the POU body is closed,
// mirroring original_source/export/st.py's "actions after body, before
// methods" ordering.
func (w *writer) pou(p *ir.POU) {
	keyword := p.Kind.String()
	header := fmt.Sprintf("%s %s", keyword, p.Name)
	if p.Parent != nil {
		header += " EXTENDS " + p.Parent.Name
	}
	if p.ReturnType != nil {
		header += " : " + typeRef(p.ReturnType)
	}
	w.line(header)

	w.varBlocks(p.Blocks)

	var pending []inlineAction
	if p.Chart != nil {
		pending = w.chart(p.Chart)
	} else {
		w.stmts(p.Body)
	}

	w.line("END_" + keyword)

	for _, synth := range pending {
		w.blank()
		w.pouAction(p.Name, synth.name, synth.body)
	}

	names := sortedActionNames(p.Actions)
	for _, name := range names {
		w.blank()
		w.pouAction(p.Name, name, p.Actions[name])
	}

	for _, m := range p.Methods {
		w.blank()
		w.method(m)
	}
}

// method writes an inner function POU as an IEC METHOD block, the form
// original_source uses for FUNCTION_BLOCK-scoped helper routines.
func (w *writer) method(m *ir.POU) {
	header := "METHOD " + m.Name
	if m.ReturnType != nil {
		header += " : " + typeRef(m.ReturnType)
	}
	w.line(header)
	w.varBlocks(m.Blocks)
	if m.Chart != nil {
		w.chart(m.Chart)
	} else {
		w.stmts(m.Body)
	}
	w.line("END_METHOD")
}

func sortedActionNames(actions map[string][]ir.Stmt) []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
