// Package persist implements the versioned, self-describing document form
// spec.md §6.3 describes: `{ FormatVersion string, Project *ProjectDoc }`,
// round-tripped through encoding/json. types.Type, ir.Expr, and ir.Stmt are
// sealed interfaces (unexported marker methods per spec §9's tagged-variant
// discipline) so they cannot be unmarshaled directly into an interface
// field the way the standard library's reflection-based encoder expects;
// this package's *Doc types carry an explicit Kind discriminator the way
// the teacher's own `mir/print_mir.go` textual dump tags each node kind
// before printing it, just applied to JSON instead of text.
//
// DESIGN.md records why encoding/json, not go-toml, backs this format:
// go-toml (already a direct dependency for config/) has no established
// idiom in the pack for tagged-union/sum-type serialization, while JSON's
// flat-object-plus-discriminator-field shape is exactly what the `Kind`
// fields below need, and it needs no additional dependency beyond the
// standard library.
package persist

import (
	"fmt"
	"time"

	"github.com/plx-lang/plx/types"
)

// TypeDoc is the tagged-union document form of types.Type.
type TypeDoc struct {
	Kind string `json:"kind"`

	Primitive string `json:"primitive,omitempty"` // Kind == "primitive"

	Element *TypeDoc          `json:"element,omitempty"` // Kind == "array"
	Bounds  []BoundDoc        `json:"bounds,omitempty"`  // Kind == "array"

	MaxLen int  `json:"maxLen,omitempty"` // Kind == "string"
	Wide   bool `json:"wide,omitempty"`   // Kind == "string"

	Target *TypeDoc `json:"target,omitempty"` // Kind == "pointer" | "reference"

	Name   string          `json:"name,omitempty"`   // Kind == "struct" | "enum" | "alias" | "subrange"
	Union  bool            `json:"union,omitempty"`  // Kind == "struct"
	Fields []StructFieldDoc `json:"fields,omitempty"` // Kind == "struct"

	Variants []EnumVariantDoc `json:"variants,omitempty"` // Kind == "enum"
	BaseType *TypeDoc         `json:"baseType,omitempty"` // Kind == "enum" (optional)

	Base *TypeDoc `json:"base,omitempty"` // Kind == "alias" | "subrange"
	Lo   int64    `json:"lo,omitempty"`   // Kind == "subrange"
	Hi   int64    `json:"hi,omitempty"`   // Kind == "subrange"
}

// BoundDoc mirrors types.DimensionBound.
type BoundDoc struct {
	Lo int64 `json:"lo"`
	Hi int64 `json:"hi"`
}

// StructFieldDoc mirrors types.StructField.
type StructFieldDoc struct {
	Name    string     `json:"name"`
	Type    *TypeDoc   `json:"type"`
	Default *ValueDoc  `json:"default,omitempty"`
}

// EnumVariantDoc mirrors types.EnumVariant.
type EnumVariantDoc struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// EncodeType converts a types.Type into its tagged document form.
func EncodeType(t types.Type) (*TypeDoc, error) {
	if t == nil {
		return nil, nil
	}
	switch v := t.(type) {
	case types.PrimitiveType:
		return &TypeDoc{Kind: "primitive", Primitive: v.Repr()}, nil

	case types.ArrayType:
		elem, err := EncodeType(v.Element)
		if err != nil {
			return nil, err
		}
		bounds := make([]BoundDoc, len(v.Bounds))
		for i, b := range v.Bounds {
			bounds[i] = BoundDoc{Lo: b.Lo, Hi: b.Hi}
		}
		return &TypeDoc{Kind: "array", Element: elem, Bounds: bounds}, nil

	case types.StringType:
		return &TypeDoc{Kind: "string", MaxLen: v.MaxLen, Wide: v.Wide}, nil

	case types.PointerType:
		target, err := EncodeType(v.Target)
		if err != nil {
			return nil, err
		}
		return &TypeDoc{Kind: "pointer", Target: target}, nil

	case types.ReferenceType:
		target, err := EncodeType(v.Target)
		if err != nil {
			return nil, err
		}
		return &TypeDoc{Kind: "reference", Target: target}, nil

	case types.StructType:
		fields := make([]StructFieldDoc, len(v.Fields))
		for i, f := range v.Fields {
			ft, err := EncodeType(f.Type)
			if err != nil {
				return nil, err
			}
			var def *ValueDoc
			if f.Default != nil {
				vd, err := EncodeValue(*f.Default)
				if err != nil {
					return nil, err
				}
				def = vd
			}
			fields[i] = StructFieldDoc{Name: f.Name, Type: ft, Default: def}
		}
		return &TypeDoc{Kind: "struct", Name: v.Name, Union: v.Union, Fields: fields}, nil

	case types.EnumType:
		variants := make([]EnumVariantDoc, len(v.Variants))
		for i, ev := range v.Variants {
			variants[i] = EnumVariantDoc{Name: ev.Name, Value: ev.Value}
		}
		var base *TypeDoc
		if v.BaseType != nil {
			bt, err := EncodeType(*v.BaseType)
			if err != nil {
				return nil, err
			}
			base = bt
		}
		return &TypeDoc{Kind: "enum", Name: v.Name, Variants: variants, BaseType: base}, nil

	case types.AliasType:
		base, err := EncodeType(v.Base)
		if err != nil {
			return nil, err
		}
		return &TypeDoc{Kind: "alias", Name: v.Name, Base: base}, nil

	case types.SubrangeType:
		base, err := EncodeType(v.Base)
		if err != nil {
			return nil, err
		}
		return &TypeDoc{Kind: "subrange", Name: v.Name, Base: base, Lo: v.Lo, Hi: v.Hi}, nil

	default:
		return nil, fmt.Errorf("persist: unsupported type kind %T", t)
	}
}

// DecodeType converts a TypeDoc back into a types.Type.
func DecodeType(d *TypeDoc) (types.Type, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Kind {
	case "primitive":
		for p, name := range primitiveByName() {
			if name == d.Primitive {
				return types.PrimitiveType{Kind: p}, nil
			}
		}
		return nil, fmt.Errorf("persist: unknown primitive %q", d.Primitive)

	case "array":
		elem, err := DecodeType(d.Element)
		if err != nil {
			return nil, err
		}
		bounds := make([]types.DimensionBound, len(d.Bounds))
		for i, b := range d.Bounds {
			bounds[i] = types.DimensionBound{Lo: b.Lo, Hi: b.Hi}
		}
		at, err := types.NewArrayType(elem, bounds)
		if err != nil {
			return nil, err
		}
		return at, nil

	case "string":
		return types.StringType{MaxLen: d.MaxLen, Wide: d.Wide}, nil

	case "pointer":
		target, err := DecodeType(d.Target)
		if err != nil {
			return nil, err
		}
		return types.PointerType{Target: target}, nil

	case "reference":
		target, err := DecodeType(d.Target)
		if err != nil {
			return nil, err
		}
		return types.ReferenceType{Target: target}, nil

	case "struct":
		fields := make([]types.StructField, len(d.Fields))
		for i, fd := range d.Fields {
			ft, err := DecodeType(fd.Type)
			if err != nil {
				return nil, err
			}
			var def *types.Value
			if fd.Default != nil {
				v, err := DecodeValue(fd.Default)
				if err != nil {
					return nil, err
				}
				def = &v
			}
			fields[i] = types.StructField{Name: fd.Name, Type: ft, Default: def}
		}
		return types.StructType{Name: d.Name, Union: d.Union, Fields: fields}, nil

	case "enum":
		variants := make([]types.EnumVariant, len(d.Variants))
		for i, vd := range d.Variants {
			variants[i] = types.EnumVariant{Name: vd.Name, Value: vd.Value}
		}
		var base *types.PrimitiveType
		if d.BaseType != nil {
			bt, err := DecodeType(d.BaseType)
			if err != nil {
				return nil, err
			}
			if pt, ok := bt.(types.PrimitiveType); ok {
				base = &pt
			}
		}
		return types.EnumType{Name: d.Name, Variants: variants, BaseType: base}, nil

	case "alias":
		base, err := DecodeType(d.Base)
		if err != nil {
			return nil, err
		}
		return types.AliasType{Name: d.Name, Base: base}, nil

	case "subrange":
		base, err := DecodeType(d.Base)
		if err != nil {
			return nil, err
		}
		pt, ok := base.(types.PrimitiveType)
		if !ok {
			return nil, fmt.Errorf("persist: subrange %q base must be a primitive type", d.Name)
		}
		st, err := types.NewSubrangeType(d.Name, pt, d.Lo, d.Hi)
		if err != nil {
			return nil, err
		}
		return st, nil

	default:
		return nil, fmt.Errorf("persist: unknown type kind %q", d.Kind)
	}
}

func primitiveByName() map[types.Primitive]string {
	all := []types.PrimitiveType{
		types.TBool, types.TInt8, types.TInt16, types.TInt32, types.TInt64,
		types.TUint8, types.TUint16, types.TUint32, types.TUint64,
		types.TFloat32, types.TFloat64, types.TTime, types.TLTime,
		types.TChar, types.TWChar,
		{Kind: types.BitString8}, {Kind: types.BitString16},
		{Kind: types.BitString32}, {Kind: types.BitString64},
		{Kind: types.Date}, {Kind: types.TimeOfDay}, {Kind: types.DateTime},
		{Kind: types.LongDate}, {Kind: types.LongTimeOfDay}, {Kind: types.LongDateTime},
	}
	out := map[types.Primitive]string{}
	for _, p := range all {
		out[p.Kind] = p.Repr()
	}
	return out
}

// ValueDoc is the tagged document form of types.Value.
type ValueDoc struct {
	Type  *TypeDoc `json:"type"`
	Kind  string   `json:"kind"`
	Bool  bool     `json:"bool,omitempty"`
	Int   int64    `json:"int,omitempty"`
	Uint  uint64   `json:"uint,omitempty"`
	Float float64  `json:"float,omitempty"`
	NanoS int64    `json:"nanos,omitempty"`
	Str   string   `json:"str,omitempty"`
}

var valueKindNames = map[types.ValueKind]string{
	types.ValBool:     "bool",
	types.ValInt:      "int",
	types.ValUint:     "uint",
	types.ValFloat:    "float",
	types.ValDuration: "duration",
	types.ValString:   "string",
	types.ValEnum:     "enum",
}

// EncodeValue converts a types.Value into its document form.
func EncodeValue(v types.Value) (*ValueDoc, error) {
	td, err := EncodeType(v.Type)
	if err != nil {
		return nil, err
	}
	name, ok := valueKindNames[v.Kind]
	if !ok {
		return nil, fmt.Errorf("persist: unknown value kind %d", v.Kind)
	}
	return &ValueDoc{
		Type: td, Kind: name,
		Bool: v.B, Int: v.I, Uint: v.U, Float: v.F,
		NanoS: int64(v.D), Str: v.S,
	}, nil
}

// DecodeValue converts a document back into a types.Value.
func DecodeValue(d *ValueDoc) (types.Value, error) {
	t, err := DecodeType(d.Type)
	if err != nil {
		return types.Value{}, err
	}
	for kind, name := range valueKindNames {
		if name != d.Kind {
			continue
		}
		return types.Value{
			Type: t, Kind: kind,
			B: d.Bool, I: d.Int, U: d.Uint, F: d.Float,
			D: durationOf(d.NanoS), S: d.Str,
		}, nil
	}
	return types.Value{}, fmt.Errorf("persist: unknown value kind %q", d.Kind)
}

func durationOf(nanos int64) time.Duration { return time.Duration(nanos) }
