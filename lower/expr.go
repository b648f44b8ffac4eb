package lower

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// lowerExpr dispatches an authored expression node to its IR form (spec
// §4.2 step 4), mirroring original_source's compile_expression handler
// table as a Go type switch per the teacher's walk-package dispatch style.
func (l *Lowerer) lowerExpr(e ast.Expr) ir.Expr {
	switch n := e.(type) {
	case *ast.Literal:
		return l.lowerLiteral(n)
	case *ast.Name:
		return l.lowerName(n)
	case *ast.Attribute:
		return l.lowerAttribute(n)
	case *ast.Subscript:
		return l.lowerSubscript(n)
	case *ast.Call:
		return l.lowerCallExpr(n)
	case *ast.BoolOp:
		return l.lowerBoolOp(n)
	case *ast.UnaryOp:
		return l.lowerUnaryOp(n)
	case *ast.BinOp:
		return l.lowerBinOp(n)
	case *ast.Compare:
		return l.lowerCompare(n)
	case *ast.IfExp:
		return ir.NewConditional(l.lowerExpr(n.Cond), l.lowerExpr(n.Then), l.lowerExpr(n.Else), l.lowerExpr(n.Then).Type())
	default:
		l.errorf(e.Span(), report.SyntaxUnsupported, "unsupported expression syntax")
		return placeholderExpr()
	}
}

var bitAccessRe = regexp.MustCompile(`^bit(\d+)$`)

func (l *Lowerer) lowerLiteral(n *ast.Literal) ir.Expr {
	switch n.Kind {
	case ast.LitBool:
		return ir.NewLiteral(types.Bool(strings.EqualFold(n.Raw, "TRUE") || strings.EqualFold(n.Raw, "True")))
	case ast.LitInt:
		v, err := parseIntLiteral(n.Raw)
		if err != nil {
			l.errorf(n.Span(), report.InvalidLiteral, "invalid integer literal %q", n.Raw)
			return placeholderExpr()
		}
		return ir.NewLiteral(types.Int(types.TInt32, v))
	case ast.LitFloat:
		v, err := strconv.ParseFloat(n.Raw, 64)
		if err != nil {
			l.errorf(n.Span(), report.InvalidLiteral, "invalid floating-point literal %q", n.Raw)
			return placeholderExpr()
		}
		return ir.NewLiteral(types.Float(types.TFloat32, v))
	case ast.LitString:
		return ir.NewLiteral(types.Str(types.StringType{}, n.Raw))
	case ast.LitDuration:
		d, err := parseDuration(n.Raw)
		if err != nil {
			l.errorf(n.Span(), report.InvalidLiteral, "invalid duration literal %q: %s", n.Raw, err)
			return placeholderExpr()
		}
		return ir.NewLiteral(types.Dur(types.TTime, d))
	default:
		return placeholderExpr()
	}
}

// durationComponentRe matches one (count, unit) pair of an IEC extended
// duration literal, e.g. the "1", "d" and "500", "ms" in "T#1d500ms".
var durationComponentRe = regexp.MustCompile(`(\d+)(ms|us|ns|[dhms])`)

// parseDuration parses an IEC duration literal into a time.Duration,
// stripping an optional "T#"/"t#" prefix and a leading "-" sign itself.
func parseDuration(raw string) (time.Duration, error) {
	s := strings.TrimPrefix(raw, "T#")
	s = strings.TrimPrefix(s, "t#")
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	matches := durationComponentRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, strconvError(raw)
	}
	var total time.Duration
	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, err
		}
		switch m[2] {
		case "d":
			total += time.Duration(n) * 24 * time.Hour
		case "h":
			total += time.Duration(n) * time.Hour
		case "m":
			total += time.Duration(n) * time.Minute
		case "s":
			total += time.Duration(n) * time.Second
		case "ms":
			total += time.Duration(n) * time.Millisecond
		case "us":
			total += time.Duration(n) * time.Microsecond
		case "ns":
			total += time.Duration(n)
		}
	}
	if negative {
		total = -total
	}
	return total, nil
}

// parseIntLiteral accepts plain decimal integers as well as IEC 61131-3's
// radix-prefixed integer literals (2#, 8#, 16#), e.g. "16#FF", "2#1010".
func parseIntLiteral(raw string) (int64, error) {
	if i := strings.IndexByte(raw, '#'); i > 0 {
		base, err := strconv.Atoi(raw[:i])
		if err != nil {
			return 0, err
		}
		return strconv.ParseInt(raw[i+1:], base, 64)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func strconvError(raw string) error {
	return &strconvErr{raw}
}

type strconvErr struct{ raw string }

func (e *strconvErr) Error() string { return "no recognizable duration components in " + e.raw }

func (l *Lowerer) lowerName(n *ast.Name) ir.Expr {
	if t, ok := l.scope.LookupLocal(n.Ident); ok {
		return ir.NewVarRef(n.Ident, t)
	}
	if strings.EqualFold(n.Ident, "TRUE") {
		return ir.NewLiteral(types.Bool(true))
	}
	if strings.EqualFold(n.Ident, "FALSE") {
		return ir.NewLiteral(types.Bool(false))
	}
	l.errorf(n.Span(), report.NameUnresolved, "undeclared variable %q (instance variables must be referenced as self.%s)", n.Ident, n.Ident)
	return placeholderExpr()
}

func (l *Lowerer) lowerAttribute(n *ast.Attribute) ir.Expr {
	// self.x -> VarRef(x)
	if selfName, ok := n.Value.(*ast.Name); ok && selfName.Ident == "self" {
		t, found := l.scope.LookupSelf(n.Attr)
		if !found {
			l.errorf(n.Span(), report.NameUnresolved, "undeclared variable %q", n.Attr)
			return placeholderExpr()
		}
		return ir.NewVarRef(n.Attr, t)
	}

	// EnumName.Variant -> EnumVariantRef
	if enumName, ok := n.Value.(*ast.Name); ok {
		if et, found := l.scope.KnownEnums[enumName.Ident]; found {
			if _, ok := et.VariantByName(n.Attr); !ok {
				l.errorf(n.Span(), report.NameUnresolved, "%q is not a member of enum %q", n.Attr, enumName.Ident)
				return placeholderExpr()
			}
			return ir.NewEnumVariantRef(et, n.Attr)
		}
	}

	// expr.bitN -> BitAccess
	if m := bitAccessRe.FindStringSubmatch(n.Attr); m != nil {
		idx, _ := strconv.Atoi(m[1])
		target := l.lowerExpr(n.Value)
		return ir.NewBitAccess(target, idx)
	}

	// expr.field -> extend a VarRef path, or append onto a sentinel
	// instance's VarRef (self.ton1(...).Q), mirroring original_source's
	// fallback MemberAccessExpr branch.
	target := l.lowerExpr(n.Value)
	if vr, ok := target.(*ir.VarRef); ok {
		fieldType := l.fieldType(vr, n.Attr)
		path := append(append([]ir.PathElem{}, vr.Path...), ir.PathElem{Kind: ir.PathField, Field: n.Attr})
		return ir.NewVarRef(vr.Root, fieldType, path...)
	}
	l.errorf(n.Span(), report.TypeMismatch, "cannot access field %q of a non-structured expression", n.Attr)
	return placeholderExpr()
}

// fieldType resolves the type of one more field appended onto an existing
// VarRef, checking the builtin-FB field table for sentinel-synthesized
// instances and StructType.Fields otherwise.
func (l *Lowerer) fieldType(vr *ir.VarRef, field string) types.Type {
	base := vr.Type()
	if st, ok := types.Underlying(base).(types.StructType); ok {
		if fields, isBuiltin := builtinFBFields[st.Name]; isBuiltin {
			if t, found := fields[field]; found {
				return t
			}
		}
		if idx := st.FieldIndex(field); idx >= 0 {
			return st.Fields[idx].Type
		}
	}
	return types.TBool
}

func (l *Lowerer) lowerSubscript(n *ast.Subscript) ir.Expr {
	target := l.lowerExpr(n.Value)
	indices := make([]ir.Expr, len(n.Indices))
	for i, idx := range n.Indices {
		indices[i] = l.lowerExpr(idx)
	}
	vr, ok := target.(*ir.VarRef)
	if !ok {
		l.errorf(n.Span(), report.TypeMismatch, "subscript applied to a non-array expression")
		return placeholderExpr()
	}
	elemType := types.Type(types.TBool)
	if at, ok := types.Underlying(vr.Type()).(types.ArrayType); ok {
		elemType = at.Element
	} else {
		l.errorf(n.Span(), report.TypeMismatch, "subscript applied to a non-array variable %q", vr.Root)
	}
	path := append(append([]ir.PathElem{}, vr.Path...), ir.PathElem{Kind: ir.PathIndex, Indices: indices})
	return ir.NewVarRef(vr.Root, elemType, path...)
}

func (l *Lowerer) lowerBoolOp(n *ast.BoolOp) ir.Expr {
	op := ir.And
	if n.Op == ast.BoolOr {
		op = ir.Or
	}
	result := l.lowerExpr(n.Values[0])
	for _, v := range n.Values[1:] {
		right := l.lowerExpr(v)
		result = ir.NewBinary(op, result, right, types.TBool)
	}
	return result
}

var unaryOpMap = map[ast.UnaryOpKind]ir.UnaryOp{
	ast.UnaryNeg:    ir.Neg,
	ast.UnaryNot:    ir.Not,
	ast.UnaryBitNot: ir.BitNot,
}

func (l *Lowerer) lowerUnaryOp(n *ast.UnaryOp) ir.Expr {
	operand := l.lowerExpr(n.Operand)
	op, ok := unaryOpMap[n.Op]
	if !ok {
		l.errorf(n.Span(), report.SyntaxUnsupported, "unsupported unary operator")
		return placeholderExpr()
	}
	resultType := operand.Type()
	if op == ir.Not {
		resultType = types.TBool
	}
	return ir.NewUnary(op, operand, resultType)
}

var binOpMap = map[ast.BinOpKind]ir.BinaryOp{
	ast.BinAdd:        ir.Add,
	ast.BinSub:        ir.Sub,
	ast.BinMul:        ir.Mul,
	ast.BinDiv:        ir.Div,
	ast.BinFloorDiv:   ir.Div,
	ast.BinMod:        ir.Mod,
	ast.BinPow:        ir.Exponent,
	ast.BinBitAnd:     ir.BitAnd,
	ast.BinBitOr:      ir.BitOr,
	ast.BinBitXor:     ir.BitXor,
	ast.BinShiftLeft:  ir.ShiftLeft,
	ast.BinShiftRight: ir.ShiftRight,
}

func (l *Lowerer) lowerBinOp(n *ast.BinOp) ir.Expr {
	left := l.lowerExpr(n.Left)
	right := l.lowerExpr(n.Right)
	op, ok := binOpMap[n.Op]
	if !ok {
		l.errorf(n.Span(), report.SyntaxUnsupported, "unsupported binary operator")
		return placeholderExpr()
	}
	leftPrim, leftIsPrim := types.Underlying(left.Type()).(types.PrimitiveType)
	rightPrim, rightIsPrim := types.Underlying(right.Type()).(types.PrimitiveType)
	if n.Op == ast.BinFloorDiv && leftIsPrim && rightIsPrim && (leftPrim.IsFloating() || rightPrim.IsFloating()) {
		l.errorf(n.Span(), report.TypeMismatch, "integer division is not permitted on floating-point operands")
		return placeholderExpr()
	}
	resultType := left.Type()
	if leftIsPrim && rightIsPrim && rightPrim.Width() > leftPrim.Width() {
		resultType = right.Type()
	}
	return ir.NewBinary(op, left, right, resultType)
}

var cmpOpMap = map[ast.CompareOp]ir.BinaryOp{
	ast.CmpEq: ir.Eq,
	ast.CmpNe: ir.Ne,
	ast.CmpLt: ir.Lt,
	ast.CmpLe: ir.Le,
	ast.CmpGt: ir.Gt,
	ast.CmpGe: ir.Ge,
}

func (l *Lowerer) lowerCompare(n *ast.Compare) ir.Expr {
	left := l.lowerExpr(n.Left)
	right := l.lowerExpr(n.Right)
	op, ok := cmpOpMap[n.Op]
	if !ok {
		l.errorf(n.Span(), report.SyntaxUnsupported, "unsupported comparison operator")
		return placeholderExpr()
	}
	return ir.NewBinary(op, left, right, types.TBool)
}
