package ir

import (
	"testing"

	"github.com/plx-lang/plx/types"
)

func TestLiteralCarriesItsValueType(t *testing.T) {
	lit := NewLiteral(types.Int(types.TInt32, 7))
	if !lit.Type().Equals(types.TInt32) {
		t.Errorf("Type() = %v, want DINT", lit.Type())
	}
}

func TestVarRefIsLValue(t *testing.T) {
	v := NewVarRef("x", types.TBool)
	if !v.IsLValue() {
		t.Error("bare VarRef should be an l-value")
	}
	withPath := NewVarRef("s", types.TInt32, PathElem{Kind: PathField, Field: "Count"})
	if !withPath.IsLValue() {
		t.Error("field-access VarRef should be an l-value")
	}
}

func TestNewBinaryCarriesResultType(t *testing.T) {
	left := NewLiteral(types.Int(types.TInt32, 1))
	right := NewLiteral(types.Int(types.TInt32, 2))
	add := NewBinary(Add, left, right, types.TInt32)
	if !add.Type().Equals(types.TInt32) {
		t.Errorf("Type() = %v, want DINT", add.Type())
	}
	if add.Op != Add || add.Left != left || add.Right != right {
		t.Errorf("unexpected binary node: %+v", add)
	}
}

func TestNewBitAccessIsAlwaysBool(t *testing.T) {
	target := NewVarRef("flags", types.PrimitiveType{Kind: types.BitString32})
	bit := NewBitAccess(target, 5)
	if !bit.Type().Equals(types.TBool) {
		t.Errorf("BitAccess.Type() = %v, want BOOL", bit.Type())
	}
	if bit.BitIndex != 5 {
		t.Errorf("BitIndex = %d, want 5", bit.BitIndex)
	}
}

func TestNewTypeConversionCarriesTargetType(t *testing.T) {
	source := NewLiteral(types.Float(types.TFloat32, 1.5))
	conv := NewTypeConversion(source, types.TInt32)
	if !conv.Type().Equals(types.TInt32) {
		t.Errorf("TypeConversion.Type() = %v, want DINT", conv.Type())
	}
	if conv.Source != source {
		t.Error("TypeConversion should retain its Source expression")
	}
}

func TestNewSystemFlagExprIsBool(t *testing.T) {
	flag := NewSystemFlagExpr(FirstScan)
	if !flag.Type().Equals(types.TBool) {
		t.Errorf("SystemFlagExpr.Type() = %v, want BOOL", flag.Type())
	}
	if flag.Flag != FirstScan {
		t.Errorf("Flag = %v, want FirstScan", flag.Flag)
	}
}
