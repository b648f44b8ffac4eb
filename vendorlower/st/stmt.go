package st

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plx-lang/plx/ir"
)

func (w *writer) stmts(body []ir.Stmt) {
	for _, s := range body {
		w.stmt(s)
	}
}

func (w *writer) stmt(s ir.Stmt) {
	switch n := s.(type) {
	case *ir.Assign:
		w.line(fmt.Sprintf("%s := %s;", w.varRefText(n.Target), w.expr(n.Value, 0)))

	case *ir.If:
		w.line(fmt.Sprintf("IF %s THEN", w.expr(n.Cond, 0)))
		w.indentInc()
		w.stmts(n.Then)
		w.indentDec()
		for _, elif := range n.Elifs {
			w.line(fmt.Sprintf("ELSIF %s THEN", w.expr(elif.Cond, 0)))
			w.indentInc()
			w.stmts(elif.Body)
			w.indentDec()
		}
		if len(n.Else) > 0 {
			w.line("ELSE")
			w.indentInc()
			w.stmts(n.Else)
			w.indentDec()
		}
		w.line("END_IF;")

	case *ir.Case:
		w.line(fmt.Sprintf("CASE %s OF", w.expr(n.Selector, 0)))
		w.indentInc()
		for _, arm := range n.Arms {
			w.line(caseLabels(arm) + ":")
			w.indentInc()
			w.stmts(arm.Body)
			w.indentDec()
		}
		w.indentDec()
		if len(n.Default) > 0 {
			w.line("ELSE")
			w.indentInc()
			w.stmts(n.Default)
			w.indentDec()
		}
		w.line("END_CASE;")

	case *ir.While:
		w.line(fmt.Sprintf("WHILE %s DO", w.expr(n.Cond, 0)))
		w.indentInc()
		w.stmts(n.Body)
		w.indentDec()
		w.line("END_WHILE;")

	case *ir.RepeatUntil:
		w.line("REPEAT")
		w.indentInc()
		w.stmts(n.Body)
		w.indentDec()
		w.line(fmt.Sprintf("UNTIL %s", w.expr(n.Until, 0)))
		w.line("END_REPEAT;")

	case *ir.For:
		header := fmt.Sprintf("FOR %s := %s TO %s", n.Var, w.expr(n.From, 0), w.expr(n.To, 0))
		if n.Step != nil {
			header += fmt.Sprintf(" BY %s", w.expr(n.Step, 0))
		}
		header += " DO"
		w.line(header)
		w.indentInc()
		w.stmts(n.Body)
		w.indentDec()
		w.line("END_FOR;")

	case *ir.FBInvocation:
		w.line(fmt.Sprintf("%s(%s);", n.Instance, w.fbArgs(n)))

	case *ir.ExprStmt:
		w.line(fmt.Sprintf("%s(%s);", n.Call.Callee, w.argList(n.Call.Args)))

	case *ir.Return:
		if n.Value != nil {
			w.line(fmt.Sprintf("RETURN %s;", w.expr(n.Value, 0)))
		} else {
			w.line("RETURN;")
		}

	case *ir.NoOp:
		w.line(";")

	case *ir.Exit:
		w.line("EXIT;")

	case *ir.Continue:
		w.line("CONTINUE;")

	default:
		w.line(fmt.Sprintf("// unsupported statement: %T", s))
	}
}

func caseLabels(arm ir.CaseArm) string {
	parts := make([]string, len(arm.Values))
	for i, v := range arm.Values {
		if v.Single() {
			parts[i] = fmt.Sprintf("%d", v.Lo)
		} else {
			parts[i] = fmt.Sprintf("%d..%d", v.Lo, v.Hi)
		}
	}
	return strings.Join(parts, ", ")
}

// fbArgs renders an FB invocation's bound inputs and outputs in sorted
// name order, since ir.FBInvocation.Inputs/Outputs are Go maps with no
// declaration order of their own to preserve.
func (w *writer) fbArgs(n *ir.FBInvocation) string {
	var parts []string
	inputNames := make([]string, 0, len(n.Inputs))
	for name := range n.Inputs {
		inputNames = append(inputNames, name)
	}
	sort.Strings(inputNames)
	for _, name := range inputNames {
		parts = append(parts, fmt.Sprintf("%s := %s", name, w.expr(n.Inputs[name], 0)))
	}

	outputNames := make([]string, 0, len(n.Outputs))
	for name := range n.Outputs {
		outputNames = append(outputNames, name)
	}
	sort.Strings(outputNames)
	for _, name := range outputNames {
		parts = append(parts, fmt.Sprintf("%s => %s", name, w.varRefText(n.Outputs[name])))
	}

	return strings.Join(parts, ", ")
}
