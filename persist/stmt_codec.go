package persist

import (
	"fmt"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

// StmtDoc is the tagged document form of ir.Stmt.
type StmtDoc struct {
	Kind string `json:"kind"`

	Target *ExprDoc `json:"target,omitempty"` // assign (a varRef-kinded ExprDoc)
	Value  *ExprDoc `json:"value,omitempty"`  // assign / return

	Cond  *ExprDoc      `json:"cond,omitempty"`  // if / while
	Then  []*StmtDoc    `json:"then,omitempty"`  // if
	Elifs []ElifDoc     `json:"elifs,omitempty"` // if
	Else  []*StmtDoc    `json:"else,omitempty"`  // if

	Selector *ExprDoc    `json:"selector,omitempty"` // case
	Arms     []CaseArmDoc `json:"arms,omitempty"`     // case
	Default  []*StmtDoc  `json:"default,omitempty"`  // case

	Body  []*StmtDoc `json:"body,omitempty"`  // while / repeatUntil / for
	Until *ExprDoc   `json:"until,omitempty"` // repeatUntil

	Var     string   `json:"var,omitempty"`     // for
	VarType *TypeDoc `json:"varType,omitempty"` // for
	From    *ExprDoc `json:"from,omitempty"`    // for
	To      *ExprDoc `json:"to,omitempty"`      // for
	Step    *ExprDoc `json:"step,omitempty"`    // for

	Instance string              `json:"instance,omitempty"` // fbInvocation
	FBType   string              `json:"fbType,omitempty"`   // fbInvocation
	Inputs   map[string]*ExprDoc `json:"inputs,omitempty"`   // fbInvocation
	Outputs  map[string]*ExprDoc `json:"outputs,omitempty"`  // fbInvocation

	Call *ExprDoc `json:"call,omitempty"` // exprStmt
}

// ElifDoc mirrors ir.ElifBranch.
type ElifDoc struct {
	Cond *ExprDoc   `json:"cond"`
	Body []*StmtDoc `json:"body"`
}

// CaseValueDoc mirrors ir.CaseValue.
type CaseValueDoc struct {
	Lo int64 `json:"lo"`
	Hi int64 `json:"hi"`
}

// CaseArmDoc mirrors ir.CaseArm.
type CaseArmDoc struct {
	Values []CaseValueDoc `json:"values"`
	Body   []*StmtDoc     `json:"body"`
}

// EncodeStmt converts an ir.Stmt into its tagged document form.
func EncodeStmt(s ir.Stmt) (*StmtDoc, error) {
	if s == nil {
		return nil, nil
	}
	switch n := s.(type) {
	case *ir.Assign:
		target, err := EncodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := EncodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return &StmtDoc{Kind: "assign", Target: target, Value: value}, nil

	case *ir.If:
		then, err := EncodeStmts(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := EncodeStmts(n.Else)
		if err != nil {
			return nil, err
		}
		cond, err := EncodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		elifs := make([]ElifDoc, len(n.Elifs))
		for i, ei := range n.Elifs {
			ec, err := EncodeExpr(ei.Cond)
			if err != nil {
				return nil, err
			}
			eb, err := EncodeStmts(ei.Body)
			if err != nil {
				return nil, err
			}
			elifs[i] = ElifDoc{Cond: ec, Body: eb}
		}
		return &StmtDoc{Kind: "if", Cond: cond, Then: then, Elifs: elifs, Else: els}, nil

	case *ir.Case:
		sel, err := EncodeExpr(n.Selector)
		if err != nil {
			return nil, err
		}
		deflt, err := EncodeStmts(n.Default)
		if err != nil {
			return nil, err
		}
		arms := make([]CaseArmDoc, len(n.Arms))
		for i, a := range n.Arms {
			vals := make([]CaseValueDoc, len(a.Values))
			for j, v := range a.Values {
				vals[j] = CaseValueDoc{Lo: v.Lo, Hi: v.Hi}
			}
			body, err := EncodeStmts(a.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = CaseArmDoc{Values: vals, Body: body}
		}
		return &StmtDoc{Kind: "case", Selector: sel, Arms: arms, Default: deflt}, nil

	case *ir.While:
		cond, err := EncodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := EncodeStmts(n.Body)
		if err != nil {
			return nil, err
		}
		return &StmtDoc{Kind: "while", Cond: cond, Body: body}, nil

	case *ir.RepeatUntil:
		body, err := EncodeStmts(n.Body)
		if err != nil {
			return nil, err
		}
		until, err := EncodeExpr(n.Until)
		if err != nil {
			return nil, err
		}
		return &StmtDoc{Kind: "repeatUntil", Body: body, Until: until}, nil

	case *ir.For:
		vt, err := EncodeType(n.VarType)
		if err != nil {
			return nil, err
		}
		from, err := EncodeExpr(n.From)
		if err != nil {
			return nil, err
		}
		to, err := EncodeExpr(n.To)
		if err != nil {
			return nil, err
		}
		step, err := EncodeExpr(n.Step)
		if err != nil {
			return nil, err
		}
		body, err := EncodeStmts(n.Body)
		if err != nil {
			return nil, err
		}
		return &StmtDoc{Kind: "for", Var: n.Var, VarType: vt, From: from, To: to, Step: step, Body: body}, nil

	case *ir.FBInvocation:
		inputs := map[string]*ExprDoc{}
		for name, e := range n.Inputs {
			ed, err := EncodeExpr(e)
			if err != nil {
				return nil, err
			}
			inputs[name] = ed
		}
		var outputs map[string]*ExprDoc
		if n.Outputs != nil {
			outputs = map[string]*ExprDoc{}
			for name, ref := range n.Outputs {
				ed, err := EncodeExpr(ref)
				if err != nil {
					return nil, err
				}
				outputs[name] = ed
			}
		}
		return &StmtDoc{Kind: "fbInvocation", Instance: n.Instance, FBType: n.FBType, Inputs: inputs, Outputs: outputs}, nil

	case *ir.ExprStmt:
		call, err := EncodeExpr(n.Call)
		if err != nil {
			return nil, err
		}
		return &StmtDoc{Kind: "exprStmt", Call: call}, nil

	case *ir.Return:
		value, err := EncodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return &StmtDoc{Kind: "return", Value: value}, nil

	case *ir.NoOp:
		return &StmtDoc{Kind: "noOp"}, nil
	case *ir.Exit:
		return &StmtDoc{Kind: "exit"}, nil
	case *ir.Continue:
		return &StmtDoc{Kind: "continue"}, nil

	default:
		return nil, fmt.Errorf("persist: unsupported statement kind %T", s)
	}
}

// EncodeStmts encodes a statement list, preserving order.
func EncodeStmts(stmts []ir.Stmt) ([]*StmtDoc, error) {
	out := make([]*StmtDoc, len(stmts))
	for i, s := range stmts {
		d, err := EncodeStmt(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// DecodeStmt converts a document back into an ir.Stmt.
func DecodeStmt(d *StmtDoc) (ir.Stmt, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Kind {
	case "assign":
		target, err := DecodeExpr(d.Target)
		if err != nil {
			return nil, err
		}
		vr, ok := target.(*ir.VarRef)
		if !ok {
			return nil, fmt.Errorf("persist: assign target must decode to a varRef")
		}
		value, err := DecodeExpr(d.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewAssign(vr, value), nil

	case "if":
		cond, err := DecodeExpr(d.Cond)
		if err != nil {
			return nil, err
		}
		then, err := DecodeStmts(d.Then)
		if err != nil {
			return nil, err
		}
		els, err := DecodeStmts(d.Else)
		if err != nil {
			return nil, err
		}
		elifs := make([]ir.ElifBranch, len(d.Elifs))
		for i, ei := range d.Elifs {
			ec, err := DecodeExpr(ei.Cond)
			if err != nil {
				return nil, err
			}
			eb, err := DecodeStmts(ei.Body)
			if err != nil {
				return nil, err
			}
			elifs[i] = ir.ElifBranch{Cond: ec, Body: eb}
		}
		stmt := ir.NewIf(cond, then)
		stmt.Elifs = elifs
		stmt.Else = els
		return stmt, nil

	case "case":
		sel, err := DecodeExpr(d.Selector)
		if err != nil {
			return nil, err
		}
		deflt, err := DecodeStmts(d.Default)
		if err != nil {
			return nil, err
		}
		arms := make([]ir.CaseArm, len(d.Arms))
		for i, a := range d.Arms {
			vals := make([]ir.CaseValue, len(a.Values))
			for j, v := range a.Values {
				vals[j] = ir.CaseValue{Lo: v.Lo, Hi: v.Hi}
			}
			body, err := DecodeStmts(a.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = ir.CaseArm{Values: vals, Body: body}
		}
		return ir.NewCase(sel, arms, deflt)

	case "while":
		cond, err := DecodeExpr(d.Cond)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStmts(d.Body)
		if err != nil {
			return nil, err
		}
		return ir.NewWhile(cond, body), nil

	case "repeatUntil":
		body, err := DecodeStmts(d.Body)
		if err != nil {
			return nil, err
		}
		until, err := DecodeExpr(d.Until)
		if err != nil {
			return nil, err
		}
		return ir.NewRepeatUntil(body, until), nil

	case "for":
		vt, err := DecodeType(d.VarType)
		if err != nil {
			return nil, err
		}
		varType, ok := vt.(types.PrimitiveType)
		if !ok {
			return nil, fmt.Errorf("persist: for-loop variable type must be a primitive type")
		}
		from, err := DecodeExpr(d.From)
		if err != nil {
			return nil, err
		}
		to, err := DecodeExpr(d.To)
		if err != nil {
			return nil, err
		}
		step, err := DecodeExpr(d.Step)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStmts(d.Body)
		if err != nil {
			return nil, err
		}
		return ir.NewFor(d.Var, varType, from, to, step, body), nil

	case "fbInvocation":
		inputs := map[string]ir.Expr{}
		for name, ed := range d.Inputs {
			e, err := DecodeExpr(ed)
			if err != nil {
				return nil, err
			}
			inputs[name] = e
		}
		var outputs map[string]*ir.VarRef
		if d.Outputs != nil {
			outputs = map[string]*ir.VarRef{}
			for name, ed := range d.Outputs {
				e, err := DecodeExpr(ed)
				if err != nil {
					return nil, err
				}
				vr, ok := e.(*ir.VarRef)
				if !ok {
					return nil, fmt.Errorf("persist: fbInvocation output %q must decode to a varRef", name)
				}
				outputs[name] = vr
			}
		}
		return ir.NewFBInvocation(d.Instance, d.FBType, inputs, outputs), nil

	case "exprStmt":
		call, err := DecodeExpr(d.Call)
		if err != nil {
			return nil, err
		}
		c, ok := call.(*ir.Call)
		if !ok {
			return nil, fmt.Errorf("persist: exprStmt call must decode to a call expression")
		}
		return ir.NewExprCallStmt(c), nil

	case "return":
		value, err := DecodeExpr(d.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewReturn(value), nil

	case "noOp":
		return ir.NewNoOp(), nil
	case "exit":
		return ir.NewExit(), nil
	case "continue":
		return ir.NewContinue(), nil

	default:
		return nil, fmt.Errorf("persist: unknown statement kind %q", d.Kind)
	}
}

// DecodeStmts decodes a statement list, preserving order.
func DecodeStmts(docs []*StmtDoc) ([]ir.Stmt, error) {
	out := make([]ir.Stmt, len(docs))
	for i, d := range docs {
		s, err := DecodeStmt(d)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
