package st

import (
	"fmt"
	"strings"

	"github.com/plx-lang/plx/ir"
)

var roleKeyword = map[ir.VarRole]string{
	ir.RoleInput:    "VAR_INPUT",
	ir.RoleOutput:   "VAR_OUTPUT",
	ir.RoleInout:    "VAR_IN_OUT",
	ir.RoleStatic:   "VAR",
	ir.RoleTemp:     "VAR_TEMP",
	ir.RoleConstant: "VAR CONSTANT",
}

// roleOrder fixes the declaration-block emission order to the one
// original_source/export/st.py's _write_var_blocks uses.
var roleOrder = []ir.VarRole{
	ir.RoleInput, ir.RoleOutput, ir.RoleInout, ir.RoleStatic, ir.RoleTemp, ir.RoleConstant,
}

func (w *writer) varBlocks(blocks ir.Blocks) {
	for _, role := range roleOrder {
		w.varBlock(roleKeyword[role], blocks.Block(role).Variables)
	}
}

func (w *writer) varBlock(keyword string, vars []ir.Variable) {
	if len(vars) == 0 {
		return
	}
	w.line(keyword)
	w.indentInc()
	for _, v := range vars {
		w.varDecl(v)
	}
	w.indentDec()
	w.line("END_VAR")
}

func (w *writer) varDecl(v ir.Variable) {
	var modifiers []string
	if v.Retain {
		modifiers = append(modifiers, "RETAIN")
	}
	if v.Persistent {
		modifiers = append(modifiers, "PERSISTENT")
	}

	decl := v.Name
	if v.Address != "" {
		decl += fmt.Sprintf(" AT %s", v.Address)
	}
	decl += fmt.Sprintf(" : %s", typeRef(v.Type))
	if v.Initial != nil {
		decl += fmt.Sprintf(" := %s", literalText(*v.Initial))
	}
	decl += ";"
	if v.Description != "" {
		decl += " // " + v.Description
	}

	if len(modifiers) > 0 {
		w.line(strings.Join(modifiers, " ") + " " + decl)
	} else {
		w.line(decl)
	}
}
