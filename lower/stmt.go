package lower

import (
	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// lowerStmt dispatches one authored statement to its IR form, prefixed with
// any FBInvocations its own expressions queued via sentinel expansion (spec
// §4.2 steps 4-5). It never short-circuits the surrounding block on error
// (spec §4.5): each error is recorded in the batch and lowering continues
// with the next statement; an unsupported statement kind is lowered to a
// NoOp placeholder.
func (l *Lowerer) lowerStmt(s ast.Stmt) []ir.Stmt {
	switch n := s.(type) {
	case *ast.Assign:
		return l.lowerAssign(n)
	case *ast.If:
		return l.lowerIf(n)
	case *ast.Match:
		return l.lowerMatch(n)
	case *ast.While:
		return l.lowerWhileStmt(n)
	case *ast.For:
		return l.lowerForStmt(n)
	case *ast.ExprStmt:
		return l.lowerExprStmt(n)
	case *ast.Return:
		return l.lowerReturnStmt(n)
	case *ast.Pass:
		return []ir.Stmt{ir.NewNoOp()}
	case *ast.Break:
		if l.loopDepth == 0 {
			l.errorf(n.Span(), report.SyntaxUnsupported, "break outside a loop")
			return nil
		}
		return []ir.Stmt{ir.NewExit()}
	case *ast.Continue:
		if l.loopDepth == 0 {
			l.errorf(n.Span(), report.SyntaxUnsupported, "continue outside a loop")
			return nil
		}
		return []ir.Stmt{ir.NewContinue()}
	default:
		l.errorf(s.Span(), report.SyntaxUnsupported, "unsupported statement syntax")
		return []ir.Stmt{ir.NewNoOp()}
	}
}

// lowerAssign lowers `target = value` (spec §3.2, §4.2 step 4: "Attribute
// assignment self.x = expr -> IR assignment"). The value is lowered, and any
// sentinel it expanded is flushed, before the target is resolved, matching
// left-to-right evaluation order.
func (l *Lowerer) lowerAssign(n *ast.Assign) []ir.Stmt {
	value := l.lowerExpr(n.Value)
	out := l.flushPending()

	targetExpr := l.lowerExpr(n.Target)
	out = append(out, l.flushPending()...)

	vr, ok := targetExpr.(*ir.VarRef)
	if !ok {
		l.errorf(n.Span(), report.TypeMismatch, "assignment target must be a variable, field, or array element")
		return out
	}
	if !types.AssignableFrom(vr.Type(), value.Type()) {
		l.errorf(n.Span(), report.TypeMismatch, "cannot assign %s to %s", value.Type().Repr(), vr.Type().Repr())
	}
	return append(out, ir.NewAssign(vr, value))
}

// lowerCond lowers an expression required to be in boolean context (if/while
// conditions, case guards), reporting TypeMismatch per spec §3.1 rather than
// implicitly coercing.
func (l *Lowerer) lowerCond(e ast.Expr) ir.Expr {
	cond := l.lowerExpr(e)
	if !types.IsBooleanContext(cond.Type()) {
		l.errorf(e.Span(), report.TypeMismatch, "condition must be BOOL, got %s", cond.Type().Repr())
	}
	return cond
}

func (l *Lowerer) lowerIf(n *ast.If) []ir.Stmt {
	cond := l.lowerCond(n.Cond)
	out := l.flushPending()

	iff := ir.NewIf(cond, l.lowerBlock(n.Body))
	for _, elif := range n.Elifs {
		elifCond := l.lowerCond(elif.Cond)
		// Elif conditions are lowered after the primary condition's pending
		// prefix has already been flushed ahead of the If itself; a
		// sentinel inside an elif guard would need to re-evaluate on every
		// scan the elif is reached, which the flat IR If cannot express, so
		// it is rejected rather than silently hoisted.
		if len(l.pending) > 0 {
			l.errorf(elif.Cond.Span(), report.SyntaxUnsupported, "sentinel calls are not supported inside an elif condition")
			l.flushPending()
		}
		iff.Elifs = append(iff.Elifs, ir.ElifBranch{Cond: elifCond, Body: l.lowerBlock(elif.Body)})
	}
	if n.Else != nil {
		iff.Else = l.lowerBlock(n.Else)
	}
	return append(out, iff)
}

// lowerMatch lowers a pattern-match statement to an IR Case (spec §4.2 step
// 4: "Pattern-match on a single selector with integer/enum cases -> IR
// case"). Enum variant patterns are resolved against the selector's own
// enum type so a case written against the wrong enum is caught here rather
// than silently matching nothing.
func (l *Lowerer) lowerMatch(n *ast.Match) []ir.Stmt {
	subject := l.lowerExpr(n.Subject)
	out := l.flushPending()

	subjPrim, isPrim := types.Underlying(subject.Type()).(types.PrimitiveType)
	subjEnum, isEnum := types.Underlying(subject.Type()).(types.EnumType)
	if !isPrim && !isEnum || (isPrim && !subjPrim.IsIntegral()) {
		l.errorf(n.Span(), report.TypeMismatch, "match selector must be an integer or enum type")
		return append(out, ir.NewNoOp())
	}

	var arms []ir.CaseArm
	var deflt []ir.Stmt
	for _, c := range n.Cases {
		if c.Wildcard {
			deflt = l.lowerBlock(c.Body)
			continue
		}
		var values []ir.CaseValue
		for _, iv := range c.Pattern.IntValues {
			values = append(values, ir.CaseValue{Lo: iv, Hi: iv})
		}
		for _, vn := range c.Pattern.VariantNames {
			if !isEnum {
				l.errorf(n.Span(), report.TypeMismatch, "enum-variant pattern %q used against a non-enum selector", vn)
				continue
			}
			variant, ok := subjEnum.VariantByName(vn)
			if !ok {
				l.errorf(n.Span(), report.NameUnresolved, "%q is not a member of enum %q", vn, subjEnum.Name)
				continue
			}
			values = append(values, ir.CaseValue{Lo: variant.Value, Hi: variant.Value})
		}
		arms = append(arms, ir.CaseArm{Values: values, Body: l.lowerBlock(c.Body)})
	}

	caseStmt, err := ir.NewCase(subject, arms, deflt)
	if err != nil {
		l.errorf(n.Span(), report.CaseOverlap, "%s", err)
		return append(out, ir.NewNoOp())
	}
	return append(out, caseStmt)
}

func (l *Lowerer) lowerWhileStmt(n *ast.While) []ir.Stmt {
	cond := l.lowerCond(n.Cond)
	if len(l.pending) > 0 {
		l.errorf(n.Cond.Span(), report.SyntaxUnsupported, "sentinel calls are not supported inside a while condition")
		l.flushPending()
	}
	l.loopDepth++
	body := l.lowerBlock(n.Body)
	l.loopDepth--
	return []ir.Stmt{ir.NewWhile(cond, body)}
}

// lowerForStmt lowers the restricted `for i in range(lo, hi[, step])` form
// spec §4.2 step 4 accepts, introducing a local binding for the induction
// variable that shadows any same-named self-variable for the loop body.
func (l *Lowerer) lowerForStmt(n *ast.For) []ir.Stmt {
	from := l.lowerExpr(n.From)
	out := l.flushPending()
	to := l.lowerExpr(n.To)
	out = append(out, l.flushPending()...)

	var step ir.Expr
	if n.Step != nil {
		step = l.lowerExpr(n.Step)
		out = append(out, l.flushPending()...)
	}

	varType := types.TInt32
	if p, ok := types.Underlying(from.Type()).(types.PrimitiveType); ok && p.IsIntegral() {
		varType = p
	} else {
		l.errorf(n.Span(), report.TypeMismatch, "for-loop bounds must be integer-typed")
	}

	l.scope.PushLocal(n.LoopVar, varType)
	l.loopDepth++
	body := l.lowerBlock(n.Body)
	l.loopDepth--
	l.scope.PopLocal()

	return append(out, ir.NewFor(n.LoopVar, varType, from, to, step, body))
}

// lowerExprStmt lowers a bare expression statement: a self.fb_instance(...)
// invocation used for its side effect, a self.method_name() call made for
// effect, or a super().logic() call. A sentinel call used bare (not feeding
// an expression) is rejected per spec §4.2 step 5 ("name() must be used in
// an expression").
func (l *Lowerer) lowerExprStmt(n *ast.ExprStmt) []ir.Stmt {
	if call, ok := n.Value.(*ast.Call); ok {
		if name, ok := calleeName(call.Func); ok && IsSentinel(name) {
			l.errorf(n.Span(), report.SyntaxUnsupported, "%s() must be used in an expression, not as a standalone statement", name)
			return nil
		}
		if isSuperLogicCall(call) {
			return l.inlineSuperLogic(n)
		}
	}
	value := l.lowerExpr(n.Value)
	out := l.flushPending()
	if call, ok := value.(*ir.Call); ok {
		return append(out, ir.NewExprCallStmt(call))
	}
	// A bare self.fb_instance(...) call was already queued as a pending
	// FBInvocation by lowerSelfFBCall; the VarRef it returned has no side
	// effect of its own when the statement discards its value.
	return out
}

// isSuperLogicCall reports whether call is `super().logic()`: a Call whose
// Func is an Attribute rooted at a Call to the bare name "super".
func isSuperLogicCall(call *ast.Call) bool {
	attr, ok := call.Func.(*ast.Attribute)
	if !ok {
		return false
	}
	inner, ok := attr.Value.(*ast.Call)
	if !ok {
		return false
	}
	name, ok := calleeName(inner.Func)
	return ok && name == "super"
}

// inlineSuperLogic expands `super().logic()` in place to a lowered copy of
// the parent POU's logic body (spec §4.2 step 3: "super().logic() expands
// in place to a copy of the parent POU's lowered body"). Declaration-block
// merging is handled separately by the inheritance-flattening pass; here
// only the body is inlined, using the same scope as the child method since
// after flattening the parent's variables are reachable through self.
func (l *Lowerer) inlineSuperLogic(n *ast.ExprStmt) []ir.Stmt {
	if l.scope.ParentBody == nil {
		l.errorf(n.Span(), report.DanglingReference, "super().logic() used but this POU has no parent")
		return nil
	}
	return l.lowerBlock(l.scope.ParentBody)
}

func (l *Lowerer) lowerReturnStmt(n *ast.Return) []ir.Stmt {
	if n.Value == nil {
		return []ir.Stmt{ir.NewReturn(nil)}
	}
	value := l.lowerExpr(n.Value)
	out := l.flushPending()
	return append(out, ir.NewReturn(value))
}
