package types

import "testing"

func TestPrimitiveTypeRepr(t *testing.T) {
	cases := []struct {
		t    PrimitiveType
		want string
	}{
		{TBool, "BOOL"},
		{TInt32, "DINT"},
		{TUint8, "USINT"},
		{TFloat64, "LREAL"},
		{TTime, "TIME"},
		{PrimitiveType{BitString16}, "WORD"},
	}
	for _, c := range cases {
		if got := c.t.Repr(); got != c.want {
			t.Errorf("Repr() = %q, want %q", got, c.want)
		}
	}
}

func TestPrimitiveTypeClassification(t *testing.T) {
	if !TInt32.IsSignedInteger() || TInt32.IsUnsignedInteger() || TInt32.IsFloating() {
		t.Errorf("DINT classified wrong: %+v", TInt32)
	}
	if !TUint32.IsUnsignedInteger() || TUint32.IsSignedInteger() {
		t.Errorf("UDINT classified wrong: %+v", TUint32)
	}
	if !TFloat32.IsFloating() || TFloat32.IsIntegral() {
		t.Errorf("REAL classified wrong: %+v", TFloat32)
	}
	if !(PrimitiveType{BitString8}).IsBitString() {
		t.Errorf("BYTE not classified as bit string")
	}
	if !TTime.IsDuration() {
		t.Errorf("TIME not classified as duration")
	}
	if TInt32.Width() != 32 || TInt64.Width() != 64 || TBool.Width() != 0 {
		t.Errorf("unexpected widths: DINT=%d LINT=%d BOOL=%d", TInt32.Width(), TInt64.Width(), TBool.Width())
	}
}

func TestArrayTypeReprAndEquals(t *testing.T) {
	a, err := NewArrayType(TInt32, []DimensionBound{{0, 9}})
	if err != nil {
		t.Fatalf("NewArrayType: %v", err)
	}
	if got, want := a.Repr(), "ARRAY[0..9] OF DINT"; got != want {
		t.Errorf("Repr() = %q, want %q", got, want)
	}

	b, _ := NewArrayType(TInt32, []DimensionBound{{0, 9}})
	if !a.Equals(b) {
		t.Errorf("expected equal array types")
	}

	c, _ := NewArrayType(TInt32, []DimensionBound{{0, 4}})
	if a.Equals(c) {
		t.Errorf("expected unequal array types with different bounds")
	}

	multi, err := NewArrayType(TBool, []DimensionBound{{0, 1}, {0, 2}})
	if err != nil {
		t.Fatalf("NewArrayType (multi-dim): %v", err)
	}
	if got, want := multi.Repr(), "ARRAY[0..1,0..2] OF BOOL"; got != want {
		t.Errorf("Repr() = %q, want %q", got, want)
	}
}

func TestNewArrayTypeRejectsInvalidBounds(t *testing.T) {
	if _, err := NewArrayType(TInt32, []DimensionBound{{9, 0}}); err == nil {
		t.Fatal("expected error for lo > hi")
	}
	if _, err := NewArrayType(TInt32, nil); err == nil {
		t.Fatal("expected error for zero dimensions")
	}
}

func TestStringTypeRepr(t *testing.T) {
	cases := []struct {
		s    StringType
		want string
	}{
		{StringType{}, "STRING"},
		{StringType{MaxLen: 80}, "STRING(80)"},
		{StringType{Wide: true}, "WSTRING"},
		{StringType{MaxLen: 40, Wide: true}, "WSTRING(40)"},
	}
	for _, c := range cases {
		if got := c.s.Repr(); got != c.want {
			t.Errorf("Repr() = %q, want %q", got, c.want)
		}
	}
}

func TestPointerAndReferenceRepr(t *testing.T) {
	p := PointerType{Target: TInt32}
	if got, want := p.Repr(), "POINTER TO DINT"; got != want {
		t.Errorf("Repr() = %q, want %q", got, want)
	}
	r := ReferenceType{Target: TBool}
	if got, want := r.Repr(), "REFERENCE TO BOOL"; got != want {
		t.Errorf("Repr() = %q, want %q", got, want)
	}
	nested := PointerType{Target: ReferenceType{Target: TInt32}}
	if got, want := nested.Repr(), "POINTER TO REFERENCE TO DINT"; got != want {
		t.Errorf("Repr() = %q, want %q", got, want)
	}
}

func TestStructTypeFieldIndexAndEquals(t *testing.T) {
	s := StructType{
		Name: "Point",
		Fields: []StructField{
			{Name: "X", Type: TInt32},
			{Name: "Y", Type: TInt32},
		},
	}
	if i := s.FieldIndex("Y"); i != 1 {
		t.Errorf("FieldIndex(Y) = %d, want 1", i)
	}
	if i := s.FieldIndex("Z"); i != -1 {
		t.Errorf("FieldIndex(Z) = %d, want -1", i)
	}
	// StructType equality is name-based, matching nominal IEC type identity.
	other := StructType{Name: "Point"}
	if !s.Equals(other) {
		t.Errorf("expected structs with the same name to be equal regardless of field lists")
	}
	diff := StructType{Name: "Vector"}
	if s.Equals(diff) {
		t.Errorf("expected structs with different names to be unequal")
	}
}

func TestEnumTypeLookup(t *testing.T) {
	e := EnumType{
		Name: "Color",
		Variants: []EnumVariant{
			{Name: "Red", Value: 0},
			{Name: "Green", Value: 1},
			{Name: "Blue", Value: 2},
		},
	}
	v, ok := e.VariantByName("Green")
	if !ok || v.Value != 1 {
		t.Errorf("VariantByName(Green) = %+v, %v", v, ok)
	}
	v, ok = e.VariantByValue(2)
	if !ok || v.Name != "Blue" {
		t.Errorf("VariantByValue(2) = %+v, %v", v, ok)
	}
	if _, ok := e.VariantByName("Purple"); ok {
		t.Errorf("expected no variant named Purple")
	}
}

func TestAliasUnderlying(t *testing.T) {
	alias := AliasType{Name: "Celsius", Base: TFloat32}
	if got, want := Underlying(alias).Repr(), "REAL"; got != want {
		t.Errorf("Underlying(alias).Repr() = %q, want %q", got, want)
	}
	chained := AliasType{Name: "Temp", Base: alias}
	if got, want := Underlying(chained).Repr(), "REAL"; got != want {
		t.Errorf("Underlying(chained).Repr() = %q, want %q", got, want)
	}
	if Underlying(TInt32) != Type(TInt32) {
		t.Errorf("Underlying of a non-alias should return itself")
	}
}

func TestSubrangeType(t *testing.T) {
	pct, err := NewSubrangeType("Pct", TInt32, 0, 100)
	if err != nil {
		t.Fatalf("NewSubrangeType: %v", err)
	}
	if !pct.InRange(50) || pct.InRange(101) || pct.InRange(-1) {
		t.Errorf("InRange behaved unexpectedly for %+v", pct)
	}
	if _, err := NewSubrangeType("Bad", TInt32, 100, 0); err == nil {
		t.Fatal("expected error for lo > hi")
	}
}
