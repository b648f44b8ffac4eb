package ir

// Visitor is the structural pre/post visitor protocol spec §4.3 requires
// ("A structural visitor protocol (pre/post) supports passes"). Each
// Visit* method returns false from its pre-hook to skip that node's
// children; post-hooks always run for nodes whose children were visited.
// Passes that only care about a handful of node kinds embed BaseVisitor
// and override just those methods, matching the teacher walker's
// type-switch dispatch style but exposed as an interface so lower/,
// project/, and vendorlower/ can share traversal code instead of each
// re-implementing tree descent.
type Visitor interface {
	PreExpr(Expr) bool
	PostExpr(Expr)
	PreStmt(Stmt) bool
	PostStmt(Stmt)
}

// BaseVisitor implements Visitor with no-op hooks that always descend.
// Embed it and override only the methods a pass needs.
type BaseVisitor struct{}

func (BaseVisitor) PreExpr(Expr) bool  { return true }
func (BaseVisitor) PostExpr(Expr)      {}
func (BaseVisitor) PreStmt(Stmt) bool  { return true }
func (BaseVisitor) PostStmt(Stmt)      {}

// WalkExpr visits an expression and its children in pre/post order.
func WalkExpr(v Visitor, e Expr) {
	if e == nil || !v.PreExpr(e) {
		return
	}
	switch n := e.(type) {
	case *Literal, *VarRef, *EnumVariantRef, *SystemFlagExpr:
		// leaves (VarRef's index expressions are visited explicitly below)
		if vr, ok := e.(*VarRef); ok {
			for _, pe := range vr.Path {
				if pe.Kind == PathIndex {
					for _, idx := range pe.Indices {
						WalkExpr(v, idx)
					}
				}
			}
		}
	case *Unary:
		WalkExpr(v, n.Operand)
	case *Binary:
		WalkExpr(v, n.Left)
		WalkExpr(v, n.Right)
	case *Call:
		for _, a := range n.Args {
			WalkExpr(v, a.Value)
		}
	case *Conditional:
		WalkExpr(v, n.Cond)
		WalkExpr(v, n.Then)
		WalkExpr(v, n.Else)
	case *BitAccess:
		WalkExpr(v, n.Target)
	case *TypeConversion:
		WalkExpr(v, n.Source)
	}
	v.PostExpr(e)
}

// WalkStmt visits a statement, its expressions, and its nested statements
// in pre/post order.
func WalkStmt(v Visitor, s Stmt) {
	if s == nil || !v.PreStmt(s) {
		return
	}
	switch n := s.(type) {
	case *Assign:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Value)
	case *If:
		WalkExpr(v, n.Cond)
		WalkStmts(v, n.Then)
		for _, ei := range n.Elifs {
			WalkExpr(v, ei.Cond)
			WalkStmts(v, ei.Body)
		}
		WalkStmts(v, n.Else)
	case *Case:
		WalkExpr(v, n.Selector)
		for _, arm := range n.Arms {
			WalkStmts(v, arm.Body)
		}
		WalkStmts(v, n.Default)
	case *While:
		WalkExpr(v, n.Cond)
		WalkStmts(v, n.Body)
	case *RepeatUntil:
		WalkStmts(v, n.Body)
		WalkExpr(v, n.Until)
	case *For:
		WalkExpr(v, n.From)
		WalkExpr(v, n.To)
		if n.Step != nil {
			WalkExpr(v, n.Step)
		}
		WalkStmts(v, n.Body)
	case *FBInvocation:
		for _, arg := range n.Inputs {
			WalkExpr(v, arg)
		}
		for _, out := range n.Outputs {
			WalkExpr(v, out)
		}
	case *NoOp, *Exit, *Continue:
		// leaves
	case *ExprStmt:
		WalkExpr(v, n.Call)
	case *Return:
		if n.Value != nil {
			WalkExpr(v, n.Value)
		}
	}
	v.PostStmt(s)
}

// WalkStmts visits a statement list in order.
func WalkStmts(v Visitor, stmts []Stmt) {
	for _, s := range stmts {
		WalkStmt(v, s)
	}
}
