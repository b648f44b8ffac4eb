package persist

import (
	"fmt"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

// ExprDoc is the tagged document form of ir.Expr.
type ExprDoc struct {
	Kind string   `json:"kind"`
	Type *TypeDoc `json:"type,omitempty"`

	Value *ValueDoc `json:"value,omitempty"` // literal

	Root string        `json:"root,omitempty"` // varRef
	Path []PathElemDoc `json:"path,omitempty"` // varRef

	UnaryOp string   `json:"unaryOp,omitempty"`
	Operand *ExprDoc `json:"operand,omitempty"`

	BinaryOp string   `json:"binaryOp,omitempty"`
	Left     *ExprDoc `json:"left,omitempty"`
	Right    *ExprDoc `json:"right,omitempty"`

	Callee string    `json:"callee,omitempty"`
	Args   []ArgDoc  `json:"args,omitempty"`

	Cond *ExprDoc `json:"cond,omitempty"`
	Then *ExprDoc `json:"then,omitempty"`
	Else *ExprDoc `json:"else,omitempty"`

	Variant string `json:"variant,omitempty"` // enumVariantRef

	Target    *ExprDoc `json:"target,omitempty"` // bitAccess / typeConversion
	BitIndex  int      `json:"bitIndex,omitempty"`

	Source *ExprDoc `json:"source,omitempty"` // typeConversion

	Flag string `json:"flag,omitempty"` // systemFlag
}

// PathElemDoc mirrors ir.PathElem.
type PathElemDoc struct {
	Kind    string     `json:"kind"`
	Field   string     `json:"field,omitempty"`
	Indices []*ExprDoc `json:"indices,omitempty"`
}

// ArgDoc mirrors ir.Arg.
type ArgDoc struct {
	Name  string   `json:"name,omitempty"`
	Value *ExprDoc `json:"value"`
}

var unaryOpNames = map[ir.UnaryOp]string{ir.Neg: "neg", ir.Not: "not", ir.BitNot: "bitNot"}
var binaryOpNames = map[ir.BinaryOp]string{
	ir.Add: "add", ir.Sub: "sub", ir.Mul: "mul", ir.Div: "div", ir.Mod: "mod", ir.Exponent: "expt",
	ir.Eq: "eq", ir.Ne: "ne", ir.Lt: "lt", ir.Le: "le", ir.Gt: "gt", ir.Ge: "ge",
	ir.And: "and", ir.Or: "or",
	ir.BitAnd: "bitAnd", ir.BitOr: "bitOr", ir.BitXor: "bitXor",
	ir.ShiftLeft: "shl", ir.ShiftRight: "shr", ir.RotateLeft: "rol", ir.RotateRight: "ror",
}

// EncodeExpr converts an ir.Expr into its tagged document form.
func EncodeExpr(e ir.Expr) (*ExprDoc, error) {
	if e == nil {
		return nil, nil
	}
	td, err := EncodeType(e.Type())
	if err != nil {
		return nil, err
	}

	switch n := e.(type) {
	case *ir.Literal:
		vd, err := EncodeValue(n.Value)
		if err != nil {
			return nil, err
		}
		return &ExprDoc{Kind: "literal", Type: td, Value: vd}, nil

	case *ir.VarRef:
		path, err := encodePath(n.Path)
		if err != nil {
			return nil, err
		}
		return &ExprDoc{Kind: "varRef", Type: td, Root: n.Root, Path: path}, nil

	case *ir.Unary:
		operand, err := EncodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ExprDoc{Kind: "unary", Type: td, UnaryOp: unaryOpNames[n.Op], Operand: operand}, nil

	case *ir.Binary:
		left, err := EncodeExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := EncodeExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ExprDoc{Kind: "binary", Type: td, BinaryOp: binaryOpNames[n.Op], Left: left, Right: right}, nil

	case *ir.Call:
		args, err := encodeArgs(n.Args)
		if err != nil {
			return nil, err
		}
		return &ExprDoc{Kind: "call", Type: td, Callee: n.Callee, Args: args}, nil

	case *ir.Conditional:
		cond, err := EncodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := EncodeExpr(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := EncodeExpr(n.Else)
		if err != nil {
			return nil, err
		}
		return &ExprDoc{Kind: "conditional", Type: td, Cond: cond, Then: then, Else: els}, nil

	case *ir.EnumVariantRef:
		return &ExprDoc{Kind: "enumVariantRef", Type: td, Variant: n.Variant}, nil

	case *ir.BitAccess:
		target, err := EncodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		return &ExprDoc{Kind: "bitAccess", Type: td, Target: target, BitIndex: n.BitIndex}, nil

	case *ir.TypeConversion:
		source, err := EncodeExpr(n.Source)
		if err != nil {
			return nil, err
		}
		return &ExprDoc{Kind: "typeConversion", Type: td, Source: source}, nil

	case *ir.SystemFlagExpr:
		return &ExprDoc{Kind: "systemFlag", Type: td, Flag: "firstScan"}, nil

	default:
		return nil, fmt.Errorf("persist: unsupported expr kind %T", e)
	}
}

func encodePath(path []ir.PathElem) ([]PathElemDoc, error) {
	out := make([]PathElemDoc, len(path))
	for i, pe := range path {
		switch pe.Kind {
		case ir.PathField:
			out[i] = PathElemDoc{Kind: "field", Field: pe.Field}
		case ir.PathIndex:
			idx := make([]*ExprDoc, len(pe.Indices))
			for j, ix := range pe.Indices {
				d, err := EncodeExpr(ix)
				if err != nil {
					return nil, err
				}
				idx[j] = d
			}
			out[i] = PathElemDoc{Kind: "index", Indices: idx}
		case ir.PathDeref:
			out[i] = PathElemDoc{Kind: "deref"}
		}
	}
	return out, nil
}

func encodeArgs(args []ir.Arg) ([]ArgDoc, error) {
	out := make([]ArgDoc, len(args))
	for i, a := range args {
		vd, err := EncodeExpr(a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = ArgDoc{Name: a.Name, Value: vd}
	}
	return out, nil
}

// DecodeExpr converts a document back into an ir.Expr.
func DecodeExpr(d *ExprDoc) (ir.Expr, error) {
	if d == nil {
		return nil, nil
	}
	t, err := DecodeType(d.Type)
	if err != nil {
		return nil, err
	}

	switch d.Kind {
	case "literal":
		v, err := DecodeValue(d.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewLiteral(v), nil

	case "varRef":
		path, err := decodePath(d.Path)
		if err != nil {
			return nil, err
		}
		return ir.NewVarRef(d.Root, t, path...), nil

	case "unary":
		operand, err := DecodeExpr(d.Operand)
		if err != nil {
			return nil, err
		}
		op, err := reverseLookup(unaryOpNames, d.UnaryOp)
		if err != nil {
			return nil, err
		}
		return ir.NewUnary(op, operand, t), nil

	case "binary":
		left, err := DecodeExpr(d.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeExpr(d.Right)
		if err != nil {
			return nil, err
		}
		op, err := reverseLookup(binaryOpNames, d.BinaryOp)
		if err != nil {
			return nil, err
		}
		return ir.NewBinary(op, left, right, t), nil

	case "call":
		args, err := decodeArgs(d.Args)
		if err != nil {
			return nil, err
		}
		return ir.NewCall(d.Callee, args, t), nil

	case "conditional":
		cond, err := DecodeExpr(d.Cond)
		if err != nil {
			return nil, err
		}
		then, err := DecodeExpr(d.Then)
		if err != nil {
			return nil, err
		}
		els, err := DecodeExpr(d.Else)
		if err != nil {
			return nil, err
		}
		return ir.NewConditional(cond, then, els, t), nil

	case "enumVariantRef":
		et, ok := t.(types.EnumType)
		if !ok {
			return nil, fmt.Errorf("persist: enumVariantRef type must be an enum")
		}
		return ir.NewEnumVariantRef(et, d.Variant), nil

	case "bitAccess":
		target, err := DecodeExpr(d.Target)
		if err != nil {
			return nil, err
		}
		return ir.NewBitAccess(target, d.BitIndex), nil

	case "typeConversion":
		source, err := DecodeExpr(d.Source)
		if err != nil {
			return nil, err
		}
		return ir.NewTypeConversion(source, t), nil

	case "systemFlag":
		return ir.NewSystemFlagExpr(ir.FirstScan), nil

	default:
		return nil, fmt.Errorf("persist: unknown expr kind %q", d.Kind)
	}
}

func decodePath(path []PathElemDoc) ([]ir.PathElem, error) {
	out := make([]ir.PathElem, len(path))
	for i, pe := range path {
		switch pe.Kind {
		case "field":
			out[i] = ir.PathElem{Kind: ir.PathField, Field: pe.Field}
		case "index":
			idx := make([]ir.Expr, len(pe.Indices))
			for j, d := range pe.Indices {
				e, err := DecodeExpr(d)
				if err != nil {
					return nil, err
				}
				idx[j] = e
			}
			out[i] = ir.PathElem{Kind: ir.PathIndex, Indices: idx}
		case "deref":
			out[i] = ir.PathElem{Kind: ir.PathDeref}
		default:
			return nil, fmt.Errorf("persist: unknown path element kind %q", pe.Kind)
		}
	}
	return out, nil
}

func decodeArgs(args []ArgDoc) ([]ir.Arg, error) {
	out := make([]ir.Arg, len(args))
	for i, a := range args {
		v, err := DecodeExpr(a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = ir.Arg{Name: a.Name, Value: v}
	}
	return out, nil
}

func reverseLookup[K comparable](m map[K]string, name string) (K, error) {
	for k, v := range m {
		if v == name {
			return k, nil
		}
	}
	var zero K
	return zero, fmt.Errorf("persist: unknown operator name %q", name)
}
