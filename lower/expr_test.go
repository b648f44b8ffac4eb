package lower

import (
	"testing"

	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

func newScope(pouName string, blocks ir.Blocks) *Scope {
	return NewScope(pouName, blocks, nil, nil, nil, nil)
}

func name(ident string) *ast.Name { return ast.NewName(nil, ident) }

func lit(kind ast.LiteralKind, raw string) *ast.Literal { return ast.NewLiteral(nil, kind, raw) }

func TestLowerLiteralInt(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	got := l.lowerExpr(lit(ast.LitInt, "42"))
	v, ok := got.(*ir.Literal)
	if !ok {
		t.Fatalf("got %T, want *ir.Literal", got)
	}
	if v.Value.I != 42 {
		t.Errorf("Value.I = %d, want 42", v.Value.I)
	}
}

func TestLowerLiteralRadixPrefixedInt(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	got := l.lowerExpr(lit(ast.LitInt, "16#FF")).(*ir.Literal)
	if got.Value.I != 255 {
		t.Errorf("16#FF = %d, want 255", got.Value.I)
	}

	got = l.lowerExpr(lit(ast.LitInt, "2#1010")).(*ir.Literal)
	if got.Value.I != 10 {
		t.Errorf("2#1010 = %d, want 10", got.Value.I)
	}
}

func TestLowerLiteralInvalidIntReportsError(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	l.lowerExpr(lit(ast.LitInt, "not-a-number"))
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected an InvalidLiteral error")
	}
}

func TestLowerLiteralBool(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	got := l.lowerExpr(lit(ast.LitBool, "TRUE")).(*ir.Literal)
	if got.Value.B != true {
		t.Errorf("TRUE literal = %v, want true", got.Value.B)
	}
}

func TestLowerLiteralDuration(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	got := l.lowerExpr(lit(ast.LitDuration, "T#1d500ms")).(*ir.Literal)
	want := 24*3600_000 + 500
	if int64(got.Value.D.Milliseconds()) != int64(want) {
		t.Errorf("T#1d500ms = %v, want %dms", got.Value.D, want)
	}
}

func TestLowerLiteralDurationNegative(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	got := l.lowerExpr(lit(ast.LitDuration, "T#-5s")).(*ir.Literal)
	if got.Value.D.Seconds() != -5 {
		t.Errorf("T#-5s = %v, want -5s", got.Value.D)
	}
}

func TestLowerLiteralDurationRejectsGarbage(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	l.lowerExpr(lit(ast.LitDuration, "T#bogus"))
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected an InvalidLiteral error for an unparseable duration")
	}
}

func TestLowerNameTrueFalseSentinels(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	tru := l.lowerExpr(name("TRUE")).(*ir.Literal)
	if tru.Value.B != true {
		t.Error("TRUE name should lower to boolean literal true")
	}
	fls := l.lowerExpr(name("false")).(*ir.Literal)
	if fls.Value.B != false {
		t.Error("false name should lower to boolean literal false (case-insensitive)")
	}
}

func TestLowerNameUndeclaredReportsError(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	l.lowerExpr(name("mystery"))
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a NameUnresolved error for an undeclared bare name")
	}
}

func TestLowerNameResolvesLoopLocal(t *testing.T) {
	scope := newScope("P", nil)
	scope.PushLocal("i", types.TInt32)
	l := NewLowerer(scope)
	got := l.lowerExpr(name("i")).(*ir.VarRef)
	if got.Root != "i" || !got.Type().Equals(types.TInt32) {
		t.Errorf("lowerName(i) = %+v", got)
	}
}

func TestLowerAttributeSelfField(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "count", Type: types.TInt32}}},
	}
	l := NewLowerer(newScope("P", blocks))
	attr := ast.NewAttribute(nil, name("self"), "count")
	got := l.lowerExpr(attr).(*ir.VarRef)
	if got.Root != "count" || !got.Type().Equals(types.TInt32) {
		t.Errorf("self.count = %+v", got)
	}
}

func TestLowerAttributeUndeclaredSelfField(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	l.lowerExpr(ast.NewAttribute(nil, name("self"), "ghost"))
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a NameUnresolved error for self.ghost")
	}
}

func TestLowerAttributeEnumVariant(t *testing.T) {
	colorType := types.EnumType{Name: "Color", Variants: []types.EnumVariant{
		{Name: "Red", Value: 0}, {Name: "Green", Value: 1},
	}}
	scope := NewScope("P", nil, nil, nil, map[string]types.EnumType{"Color": colorType}, nil)
	l := NewLowerer(scope)
	got := l.lowerExpr(ast.NewAttribute(nil, name("Color"), "Red")).(*ir.EnumVariantRef)
	if got.Variant != "Red" {
		t.Errorf("Color.Red = %+v", got)
	}
}

func TestLowerAttributeUnknownEnumVariant(t *testing.T) {
	colorType := types.EnumType{Name: "Color", Variants: []types.EnumVariant{{Name: "Red", Value: 0}}}
	scope := NewScope("P", nil, nil, nil, map[string]types.EnumType{"Color": colorType}, nil)
	l := NewLowerer(scope)
	l.lowerExpr(ast.NewAttribute(nil, name("Color"), "Purple"))
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a NameUnresolved error for Color.Purple")
	}
}

func TestLowerAttributeBitAccess(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "flags", Type: types.TUint32}}},
	}
	l := NewLowerer(newScope("P", blocks))
	attr := ast.NewAttribute(nil, ast.NewAttribute(nil, name("self"), "flags"), "bit3")
	got := l.lowerExpr(attr).(*ir.BitAccess)
	if got.BitIndex != 3 {
		t.Errorf("bit3 index = %d, want 3", got.BitIndex)
	}
	if !got.Type().Equals(types.TBool) {
		t.Error("BitAccess must always type as BOOL")
	}
}

func TestLowerSubscriptArray(t *testing.T) {
	arr, err := types.NewArrayType(types.TInt32, []types.DimensionBound{{Lo: 0, Hi: 9}})
	if err != nil {
		t.Fatalf("NewArrayType: %v", err)
	}
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "buf", Type: arr}}},
	}
	l := NewLowerer(newScope("P", blocks))
	sub := ast.NewSubscript(nil, ast.NewAttribute(nil, name("self"), "buf"), []ast.Expr{lit(ast.LitInt, "3")})
	got := l.lowerExpr(sub).(*ir.VarRef)
	if !got.Type().Equals(types.TInt32) {
		t.Errorf("array element type = %s, want INT32", got.Type().Repr())
	}
	if len(got.Path) != 1 || got.Path[0].Kind != ir.PathIndex {
		t.Errorf("path = %+v, want one PathIndex element", got.Path)
	}
}

func TestLowerSubscriptOnNonArrayReportsError(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "x", Type: types.TInt32}}},
	}
	l := NewLowerer(newScope("P", blocks))
	sub := ast.NewSubscript(nil, ast.NewAttribute(nil, name("self"), "x"), []ast.Expr{lit(ast.LitInt, "0")})
	l.lowerExpr(sub)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a TypeMismatch error for subscripting a scalar")
	}
}

func TestLowerBoolOpAndOr(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	and := l.lowerExpr(ast.NewBoolOp(nil, ast.BoolAnd, []ast.Expr{lit(ast.LitBool, "TRUE"), lit(ast.LitBool, "FALSE")}))
	bin, ok := and.(*ir.Binary)
	if !ok || bin.Op != ir.And {
		t.Errorf("and = %+v, want ir.And binary", and)
	}

	or := l.lowerExpr(ast.NewBoolOp(nil, ast.BoolOr, []ast.Expr{lit(ast.LitBool, "TRUE"), lit(ast.LitBool, "FALSE")}))
	bin, ok = or.(*ir.Binary)
	if !ok || bin.Op != ir.Or {
		t.Errorf("or = %+v, want ir.Or binary", or)
	}
}

func TestLowerUnaryOpNotIsAlwaysBool(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	got := l.lowerExpr(ast.NewUnaryOp(nil, ast.UnaryNot, lit(ast.LitBool, "TRUE"))).(*ir.Unary)
	if got.Op != ir.Not || !got.Type().Equals(types.TBool) {
		t.Errorf("not expr = %+v", got)
	}
}

func TestLowerUnaryNegPreservesOperandType(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	got := l.lowerExpr(ast.NewUnaryOp(nil, ast.UnaryNeg, lit(ast.LitInt, "5"))).(*ir.Unary)
	if got.Op != ir.Neg || !got.Type().Equals(types.TInt32) {
		t.Errorf("neg expr = %+v, want INT32", got)
	}
}

func TestLowerBinOpWidensToWiderOperand(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "big", Type: types.TInt64}}},
	}
	l := NewLowerer(newScope("P", blocks))
	binOp := ast.NewBinOp(nil, ast.BinAdd, lit(ast.LitInt, "1"), ast.NewAttribute(nil, name("self"), "big"))
	got := l.lowerExpr(binOp).(*ir.Binary)
	if !got.Type().Equals(types.TInt64) {
		t.Errorf("result type = %s, want the wider INT64 operand's type", got.Type().Repr())
	}
}

func TestLowerBinOpRejectsFloorDivOnFloat(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	binOp := ast.NewBinOp(nil, ast.BinFloorDiv, lit(ast.LitFloat, "1.5"), lit(ast.LitFloat, "2.0"))
	l.lowerExpr(binOp)
	if err := l.batch.Err(); err == nil {
		t.Fatal("expected a TypeMismatch error for floor division on floats")
	}
}

func TestLowerCompareAlwaysResultsInBool(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	got := l.lowerExpr(ast.NewCompare(nil, ast.CmpLt, lit(ast.LitInt, "1"), lit(ast.LitInt, "2"))).(*ir.Binary)
	if got.Op != ir.Lt || !got.Type().Equals(types.TBool) {
		t.Errorf("compare = %+v, want ir.Lt/BOOL", got)
	}
}

func TestLowerIfExpConditional(t *testing.T) {
	l := NewLowerer(newScope("P", nil))
	ifExp := ast.NewIfExp(nil, lit(ast.LitBool, "TRUE"), lit(ast.LitInt, "1"), lit(ast.LitInt, "2"))
	got := l.lowerExpr(ifExp).(*ir.Conditional)
	if !got.Type().Equals(types.TInt32) {
		t.Errorf("conditional type = %s, want INT32", got.Type().Repr())
	}
}
