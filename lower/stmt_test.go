package lower

import (
	"testing"

	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

func block(stmts ...ast.Stmt) *ast.Block { return ast.NewBlock(nil, stmts) }

func TestLowerAssignToSelfField(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "count", Type: types.TInt32}}},
	}
	l := NewLowerer(newScope("P", blocks))
	assign := ast.NewAssign(nil, ast.NewAttribute(nil, name("self"), "count"), lit(ast.LitInt, "5"))

	stmts := l.lowerStmt(assign)
	if len(stmts) != 1 {
		t.Fatalf("lowerStmt(assign) = %d stmts, want 1", len(stmts))
	}
	a, ok := stmts[0].(*ir.Assign)
	if !ok || a.Target.Root != "count" {
		t.Errorf("lowered assign = %+v", stmts[0])
	}
	if err := l.batch.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLowerAssignRejectsTypeMismatch(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "flag", Type: types.TBool}}},
	}
	l := NewLowerer(newScope("P", blocks))
	assign := ast.NewAssign(nil, ast.NewAttribute(nil, name("self"), "flag"), lit(ast.LitInt, "5"))
	l.lowerStmt(assign)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a TypeMismatch error assigning an INT to a BOOL")
	}
}

func TestLowerAssignRejectsNonVariableTarget(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	assign := ast.NewAssign(nil, lit(ast.LitInt, "1"), lit(ast.LitInt, "2"))
	l.lowerStmt(assign)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a TypeMismatch error for a non-variable assignment target")
	}
}

func TestLowerIfElifElse(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "mode", Type: types.TInt32}}},
	}
	l := NewLowerer(newScope("P", blocks))
	ifStmt := ast.NewIf(nil, lit(ast.LitBool, "TRUE"), block(ast.NewPass(nil)))
	ifStmt.Elifs = []ast.ElifBranch{{Cond: lit(ast.LitBool, "FALSE"), Body: block(ast.NewPass(nil))}}
	ifStmt.Else = block(ast.NewPass(nil))

	stmts := l.lowerStmt(ifStmt)
	if len(stmts) != 1 {
		t.Fatalf("lowerStmt(if) = %d stmts, want 1", len(stmts))
	}
	got, ok := stmts[0].(*ir.If)
	if !ok {
		t.Fatalf("got %T, want *ir.If", stmts[0])
	}
	if len(got.Elifs) != 1 || got.Else == nil {
		t.Errorf("If = %+v, want one elif and an else branch", got)
	}
}

func TestLowerIfRejectsNonBoolCondition(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	ifStmt := ast.NewIf(nil, lit(ast.LitInt, "1"), block())
	l.lowerStmt(ifStmt)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a TypeMismatch error for a non-boolean if condition")
	}
}

func TestLowerWhileIncrementsAndRestoresLoopDepth(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	while := ast.NewWhile(nil, lit(ast.LitBool, "TRUE"), block(ast.NewBreak(nil)))
	stmts := l.lowerStmt(while)
	if l.loopDepth != 0 {
		t.Errorf("loopDepth after lowering while = %d, want 0", l.loopDepth)
	}
	w, ok := stmts[0].(*ir.While)
	if !ok || len(w.Body) != 1 {
		t.Fatalf("lowered while = %+v", stmts[0])
	}
	if _, ok := w.Body[0].(*ir.Exit); !ok {
		t.Errorf("break inside while should lower to ir.Exit, got %T", w.Body[0])
	}
}

func TestLowerBreakOutsideLoopReportsError(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	l.lowerStmt(ast.NewBreak(nil))
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a SyntaxUnsupported error for break outside a loop")
	}
}

func TestLowerContinueOutsideLoopReportsError(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	l.lowerStmt(ast.NewContinue(nil))
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a SyntaxUnsupported error for continue outside a loop")
	}
}

func TestLowerForStmtBindsInductionVariable(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	body := block(ast.NewExprStmt(nil, name("i")))
	forStmt := ast.NewFor(nil, "i", lit(ast.LitInt, "0"), lit(ast.LitInt, "9"), nil, body)

	stmts := l.lowerStmt(forStmt)
	if err := l.batch.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := stmts[0].(*ir.For)
	if !ok || f.Var != "i" || !f.VarType.Equals(types.TInt32) {
		t.Errorf("lowered for = %+v", stmts[0])
	}
	if _, found := l.scope.LookupLocal("i"); found {
		t.Error("induction variable should be popped after the loop body is lowered")
	}
}

func TestLowerForStmtRejectsNonIntegerBounds(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	forStmt := ast.NewFor(nil, "i", lit(ast.LitBool, "TRUE"), lit(ast.LitInt, "9"), nil, block())
	l.lowerStmt(forStmt)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a TypeMismatch error for non-integer for-loop bounds")
	}
}

func TestLowerMatchOnIntegerSelector(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	matchStmt := ast.NewMatch(nil, lit(ast.LitInt, "1"), []ast.MatchCase{
		{Pattern: ast.MatchPattern{IntValues: []int64{1}}, Body: block(ast.NewPass(nil))},
		{Wildcard: true, Body: block(ast.NewPass(nil))},
	})

	stmts := l.lowerStmt(matchStmt)
	if err := l.batch.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := stmts[0].(*ir.Case)
	if !ok || len(c.Arms) != 1 || c.Default == nil {
		t.Errorf("lowered match = %+v", stmts[0])
	}
}

func TestLowerMatchOnEnumSelector(t *testing.T) {
	colorType := types.EnumType{Name: "Color", Variants: []types.EnumVariant{
		{Name: "Red", Value: 0}, {Name: "Green", Value: 1},
	}}
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "c", Type: colorType}}},
	}
	scope := NewScope("P", blocks, nil, nil, map[string]types.EnumType{"Color": colorType}, nil)
	l := NewLowerer(scope)

	matchStmt := ast.NewMatch(nil, ast.NewAttribute(nil, name("self"), "c"), []ast.MatchCase{
		{Pattern: ast.MatchPattern{VariantNames: []string{"Red"}}, Body: block(ast.NewPass(nil))},
	})
	stmts := l.lowerStmt(matchStmt)
	if err := l.batch.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := stmts[0].(*ir.Case)
	if !ok || len(c.Arms) != 1 || c.Arms[0].Values[0].Lo != 0 {
		t.Errorf("lowered enum match = %+v", stmts[0])
	}
}

func TestLowerMatchRejectsNonIntegralSelector(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	matchStmt := ast.NewMatch(nil, lit(ast.LitFloat, "1.5"), nil)
	l.lowerStmt(matchStmt)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a TypeMismatch error for a floating-point match selector")
	}
}

func TestLowerMatchRejectsOverlappingArms(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	matchStmt := ast.NewMatch(nil, lit(ast.LitInt, "1"), []ast.MatchCase{
		{Pattern: ast.MatchPattern{IntValues: []int64{1}}, Body: block(ast.NewPass(nil))},
		{Pattern: ast.MatchPattern{IntValues: []int64{1}}, Body: block(ast.NewPass(nil))},
	})
	l.lowerStmt(matchStmt)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a CaseOverlap error for duplicate match patterns")
	}
	batch, ok := err2batch(t, l.batch.Err())
	if ok && batch.Errors()[0].Kind != report.CaseOverlap {
		t.Errorf("error kind = %v, want CaseOverlap", batch.Errors()[0].Kind)
	}
}

func err2batch(t *testing.T, err error) (*report.Batch, bool) {
	t.Helper()
	b, ok := err.(*report.Batch)
	return b, ok
}

func TestLowerReturnBareAndValued(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	bare := l.lowerStmt(ast.NewReturn(nil, nil))
	r, ok := bare[0].(*ir.Return)
	if !ok || r.Value != nil {
		t.Errorf("bare return = %+v", bare[0])
	}

	valued := l.lowerStmt(ast.NewReturn(nil, lit(ast.LitInt, "1")))
	r, ok = valued[0].(*ir.Return)
	if !ok || r.Value == nil {
		t.Errorf("valued return = %+v", valued[0])
	}
}

func TestLowerPassIsNoOp(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	stmts := l.lowerStmt(ast.NewPass(nil))
	if _, ok := stmts[0].(*ir.NoOp); !ok {
		t.Errorf("pass lowered to %T, want *ir.NoOp", stmts[0])
	}
}

func TestLowerUnsupportedStatementReportsErrorButStillLowersToNoOp(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	stmts := l.lowerStmt(unsupportedStmt{})
	if len(stmts) != 1 {
		t.Fatalf("lowerStmt(unsupported) = %d stmts, want 1", len(stmts))
	}
	if _, ok := stmts[0].(*ir.NoOp); !ok {
		t.Errorf("unsupported statement should still lower to a NoOp placeholder, got %T", stmts[0])
	}
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a SyntaxUnsupported error")
	}
}

// unsupportedStmt satisfies ast.Stmt (the sealed marker method is promoted
// from the embedded *ast.Pass) but matches no case in lowerStmt's dispatch
// switch, exercising the default branch.
type unsupportedStmt struct{ *ast.Pass }

func (unsupportedStmt) Span() *report.Span { return nil }

func TestLowerBlockAccumulatesMultipleErrorsWithoutShortCircuiting(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	b := block(
		ast.NewExprStmt(nil, name("first_undeclared")),
		ast.NewExprStmt(nil, name("second_undeclared")),
	)
	_ = l.lowerBlock(b)

	batch, ok := l.batch.Err().(*report.Batch)
	if !ok || len(batch.Errors()) != 2 {
		t.Fatalf("expected 2 accumulated errors, got %v", l.batch.Err())
	}
}
