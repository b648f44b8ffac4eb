package lower

import (
	"testing"

	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

func TestLowerCallExprSelfMethod(t *testing.T) {
	scope := NewScope("Motor", nil, map[string]*ast.Block{"reset": block()}, nil, nil,
		map[string]types.Type{"Motor.reset": types.TBool})
	l := NewLowerer(scope)

	c := call(ast.NewAttribute(nil, name("self"), "reset"), nil)
	got := l.lowerCallExpr(c).(*ir.Call)
	if got.Callee != "Motor.reset" {
		t.Errorf("Callee = %q, want Motor.reset", got.Callee)
	}
	if !got.Type().Equals(types.TBool) {
		t.Errorf("return type = %s, want BOOL", got.Type().Repr())
	}
}

func TestLowerCallExprSelfFBInstanceQueuesInvocation(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "ton1", Type: types.StructType{Name: "TON"}}}},
	}
	l := NewLowerer(newScope("P", blocks))
	c := call(ast.NewAttribute(nil, name("self"), "ton1"),
		nil, ast.Keyword{Name: "IN", Value: lit(ast.LitBool, "TRUE")})

	got := l.lowerCallExpr(c).(*ir.VarRef)
	if got.Root != "ton1" {
		t.Errorf("Root = %q, want ton1", got.Root)
	}
	if len(l.pending) != 1 {
		t.Fatalf("pending = %d, want 1 FBInvocation", len(l.pending))
	}
	inv := l.pending[0].(*ir.FBInvocation)
	if inv.Instance != "ton1" || inv.FBType != "TON" {
		t.Errorf("queued invocation = %+v", inv)
	}
}

func TestLowerCallExprUndeclaredFBInstanceReportsError(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	c := call(ast.NewAttribute(nil, name("self"), "ghost"), nil)
	l.lowerCallExpr(c)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a NameUnresolved error for an undeclared FB instance")
	}
}

func TestLowerCallExprPlainFunctionCall(t *testing.T) {
	scope := NewScope("P", nil, nil, nil, nil, map[string]types.Type{"helper": types.TInt32})
	l := NewLowerer(scope)
	c := call(name("helper"), []ast.Expr{lit(ast.LitInt, "1")})
	got := l.lowerCallExpr(c).(*ir.Call)
	if got.Callee != "helper" || len(got.Args) != 1 {
		t.Errorf("plain call = %+v", got)
	}
	if !got.Type().Equals(types.TInt32) {
		t.Errorf("return type = %s, want INT32", got.Type().Repr())
	}
}

func TestLowerArgsPreservesPositionalAndNamed(t *testing.T) {
	scope := NewScope("P", nil, nil, nil, nil, map[string]types.Type{"f": types.TBool})
	l := NewLowerer(scope)
	c := call(name("f"), []ast.Expr{lit(ast.LitInt, "1")}, ast.Keyword{Name: "flag", Value: lit(ast.LitBool, "TRUE")})
	got := l.lowerCallExpr(c).(*ir.Call)
	if len(got.Args) != 2 {
		t.Fatalf("Args = %d, want 2", len(got.Args))
	}
	if got.Args[0].Name != "" {
		t.Errorf("positional arg should carry no name, got %q", got.Args[0].Name)
	}
	if got.Args[1].Name != "flag" {
		t.Errorf("keyword arg name = %q, want flag", got.Args[1].Name)
	}
}

func TestIsSuperLogicCallAndInline(t *testing.T) {
	parentBody := block(ast.NewPass(nil))
	scope := NewScope("Child", nil, nil, parentBody, nil, nil)
	l := NewLowerer(scope)

	superCall := ast.NewExprStmt(nil, call(
		ast.NewAttribute(nil, call(name("super"), nil), "logic"), nil))

	stmts := l.lowerStmt(superCall)
	if err := l.batch.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("inlined super().logic() = %d stmts, want 1", len(stmts))
	}
	if _, ok := stmts[0].(*ir.NoOp); !ok {
		t.Errorf("inlined parent body should lower its Pass statement to a NoOp, got %T", stmts[0])
	}
}

func TestSuperLogicWithNoParentReportsError(t *testing.T) {
	l := NewLowerer(newScope("Root", nil))
	superCall := ast.NewExprStmt(nil, call(
		ast.NewAttribute(nil, call(name("super"), nil), "logic"), nil))
	l.lowerStmt(superCall)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a DanglingReference error for super().logic() with no parent")
	}
}

func TestLowerExprStmtRejectsBareSentinelCall(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	l.scope.PushLocal("x", boolType)
	stmt := ast.NewExprStmt(nil, call(name("rising"), []ast.Expr{name("x")}))
	l.lowerStmt(stmt)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a SyntaxUnsupported error for a sentinel used as a bare statement")
	}
}

func TestLowerExprStmtCallWrapsInExprCallStmt(t *testing.T) {
	scope := NewScope("P", nil, nil, nil, nil, map[string]types.Type{"helper": types.TBool})
	l := NewLowerer(scope)
	stmt := ast.NewExprStmt(nil, call(name("helper"), nil))
	stmts := l.lowerStmt(stmt)
	if _, ok := stmts[0].(*ir.ExprStmt); !ok {
		t.Errorf("lowered call statement = %T, want *ir.ExprStmt", stmts[0])
	}
}
