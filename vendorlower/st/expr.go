package st

import (
	"fmt"
	"strings"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

// binopSymbol and binopPrecedence mirror original_source/export/st.py's
// _BINOP_SYMBOL / _BINOP_PRECEDENCE tables. Shift/rotate operators are
// assigned precedence 0 because, like the Python original, they are never
// printed infix — shiftOps routes them to function-call syntax instead.
var binopSymbol = map[ir.BinaryOp]string{
	ir.Add: "+", ir.Sub: "-", ir.Mul: "*", ir.Div: "/", ir.Mod: "MOD", ir.Exponent: "**",
	ir.Eq: "=", ir.Ne: "<>", ir.Lt: "<", ir.Le: "<=", ir.Gt: ">", ir.Ge: ">=",
	ir.And: "AND", ir.Or: "OR",
	ir.BitAnd: "AND", ir.BitOr: "OR", ir.BitXor: "XOR",
}

var binopPrecedence = map[ir.BinaryOp]int{
	ir.Or: 1, ir.BitOr: 1,
	ir.BitXor: 2,
	ir.And: 3, ir.BitAnd: 3,
	ir.Eq: 4, ir.Ne: 4,
	ir.Lt: 5, ir.Gt: 5, ir.Le: 5, ir.Ge: 5,
	ir.Add: 6, ir.Sub: 6,
	ir.Mul: 7, ir.Div: 7, ir.Mod: 7,
	ir.Exponent: 8,
}

var shiftFunc = map[ir.BinaryOp]string{
	ir.ShiftLeft: "SHL", ir.ShiftRight: "SHR", ir.RotateLeft: "ROL", ir.RotateRight: "ROR",
}

// unaryPrecedence is the high, fixed precedence STWriter._expr_unary uses
// for its operand so a unary never over-parenthesizes a simple reference.
const unaryPrecedence = 10

func (w *writer) expr(e ir.Expr, parentPrec int) string {
	switch n := e.(type) {
	case *ir.Literal:
		return literalText(n.Value)

	case *ir.VarRef:
		return w.varRefText(n)

	case *ir.Unary:
		operand := w.expr(n.Operand, unaryPrecedence)
		switch n.Op {
		case ir.Neg:
			return "-" + operand
		case ir.Not:
			return "NOT " + operand
		case ir.BitNot:
			return "NOT " + operand
		default:
			return fmt.Sprintf("/* unsupported unary op */(%s)", operand)
		}

	case *ir.Binary:
		if fn, ok := shiftFunc[n.Op]; ok {
			return fmt.Sprintf("%s(%s, %s)", fn, w.expr(n.Left, 0), w.expr(n.Right, 0))
		}
		myPrec := binopPrecedence[n.Op]
		symbol := binopSymbol[n.Op]
		left := w.expr(n.Left, myPrec)
		right := w.expr(n.Right, myPrec+1)
		result := fmt.Sprintf("%s %s %s", left, symbol, right)
		if myPrec < parentPrec {
			return "(" + result + ")"
		}
		return result

	case *ir.Call:
		return fmt.Sprintf("%s(%s)", n.Callee, w.argList(n.Args))

	case *ir.Conditional:
		// IEC 61131-3 has no ternary operator; lowered as SEL(cond, else, then)
		// per the standard library's SEL function block convention.
		return fmt.Sprintf("SEL(%s, %s, %s)", w.expr(n.Cond, 0), w.expr(n.Else, 0), w.expr(n.Then, 0))

	case *ir.EnumVariantRef:
		return n.Variant

	case *ir.BitAccess:
		return fmt.Sprintf("%s.%%X%d", w.expr(n.Target, unaryPrecedence), n.BitIndex)

	case *ir.TypeConversion:
		return fmt.Sprintf("%s(%s)", conversionName(n.Source.Type(), n.Type()), w.expr(n.Source, 0))

	case *ir.SystemFlagExpr:
		return "FirstScan"

	default:
		return fmt.Sprintf("/* unsupported expr %T */", e)
	}
}

func (w *writer) varRefText(v *ir.VarRef) string {
	var sb strings.Builder
	sb.WriteString(v.Root)
	for _, pe := range v.Path {
		switch pe.Kind {
		case ir.PathField:
			sb.WriteByte('.')
			sb.WriteString(pe.Field)
		case ir.PathIndex:
			idx := make([]string, len(pe.Indices))
			for i, ix := range pe.Indices {
				idx[i] = w.expr(ix, 0)
			}
			sb.WriteByte('[')
			sb.WriteString(strings.Join(idx, ", "))
			sb.WriteByte(']')
		case ir.PathDeref:
			sb.WriteByte('^')
		}
	}
	return sb.String()
}

func (w *writer) argList(args []ir.Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Name != "" {
			parts[i] = fmt.Sprintf("%s := %s", a.Name, w.expr(a.Value, 0))
		} else {
			parts[i] = w.expr(a.Value, 0)
		}
	}
	return strings.Join(parts, ", ")
}

// conversionName renders IEC's TYPE_TO_TYPE conversion function style
// (e.g. DINT_TO_REAL), naming both the source and target primitive types.
// original_source/export/st.py simplifies this to a bare TYPE(value) call,
// losing the source half; naming both sides is the lossless form spec
// §6.2 requires ("all behavioral constructs map losslessly").
func conversionName(source, target types.Type) string {
	return source.Repr() + "_TO_" + target.Repr()
}

// literalText renders a types.Value as an IEC 61131-3 literal. Strings use
// single quotes, not Go's double-quoted %q, and durations use plx's
// canonical T# spelling with the value's underlying nanosecond duration.
func literalText(v types.Value) string {
	switch v.Kind {
	case types.ValBool:
		if v.B {
			return "TRUE"
		}
		return "FALSE"
	case types.ValInt:
		return fmt.Sprintf("%d", v.I)
	case types.ValUint:
		return fmt.Sprintf("%d", v.U)
	case types.ValFloat:
		return fmt.Sprintf("%g", v.F)
	case types.ValDuration:
		return fmt.Sprintf("T#%s", v.D)
	case types.ValString:
		return "'" + strings.ReplaceAll(v.S, "'", "$'") + "'"
	case types.ValEnum:
		return v.S
	default:
		return "/* invalid literal */"
	}
}
