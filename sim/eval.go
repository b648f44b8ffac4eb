package sim

import (
	"math"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// frame is the evaluation context for one statement/expression tree walk: a
// self record, any local bindings (for-loop induction variables), and a
// back-reference to the owning controller for the virtual clock and
// first-scan flag.
type frame struct {
	ctrl   *Controller
	self   *Cell
	locals map[string]*Cell
}

func (f *frame) child(self *Cell) *frame {
	return &frame{ctrl: f.ctrl, self: self}
}

func (f *frame) pushLocal(name string, c *Cell) *frame {
	locals := map[string]*Cell{name: c}
	for k, v := range f.locals {
		if k != name {
			locals[k] = v
		}
	}
	return &frame{ctrl: f.ctrl, self: f.self, locals: locals}
}

// resolveCell walks a VarRef's root and path to the Cell it denotes.
func resolveCell(f *frame, vr *ir.VarRef) (*Cell, error) {
	cur, ok := f.locals[vr.Root]
	if !ok {
		cur, ok = f.self.Fields[vr.Root]
	}
	if !ok {
		return nil, report.NewRuntimeFault("NameUnresolved", "undeclared variable \""+vr.Root+"\"", vr.Root)
	}
	for _, pe := range vr.Path {
		switch pe.Kind {
		case ir.PathField:
			nc, ok := cur.Fields[pe.Field]
			if !ok {
				return nil, report.NewRuntimeFault("NameUnresolved", "no field \""+pe.Field+"\"", vr.Root)
			}
			cur = nc
		case ir.PathIndex:
			at, ok := types.Underlying(cur.Type).(types.ArrayType)
			if !ok {
				return nil, report.NewRuntimeFault("InternalInvariant", "index applied to non-array cell", vr.Root)
			}
			idxs := make([]int64, len(pe.Indices))
			for i, ie := range pe.Indices {
				v, err := eval(f, ie)
				if err != nil {
					return nil, err
				}
				idxs[i] = asInt(v)
			}
			flat, ok := arrayFlatIndex(at, idxs)
			if !ok {
				return nil, report.NewRuntimeFault("ArrayIndexOutOfRange", "array index out of range", vr.Root)
			}
			cur = cur.Elems[flat]
		case ir.PathDeref:
			return nil, report.NewRuntimeFault("InternalInvariant", "pointer dereference is not supported by the simulator", vr.Root)
		}
	}
	return cur, nil
}

// eval evaluates an IR expression against frame f to a runtime Value.
func eval(f *frame, e ir.Expr) (types.Value, error) {
	switch n := e.(type) {
	case *ir.Literal:
		return n.Value, nil

	case *ir.VarRef:
		cell, err := resolveCell(f, n)
		if err != nil {
			return types.Value{}, err
		}
		if cell.Fields != nil || cell.Elems != nil {
			return types.Value{}, report.NewRuntimeFault("InternalInvariant", "cannot read a composite value in scalar context", n.Root)
		}
		return cell.Value, nil

	case *ir.Unary:
		return evalUnary(f, n)

	case *ir.Binary:
		return evalBinary(f, n)

	case *ir.Call:
		return evalCall(f, n)

	case *ir.Conditional:
		c, err := eval(f, n.Cond)
		if err != nil {
			return types.Value{}, err
		}
		if c.B {
			return eval(f, n.Then)
		}
		return eval(f, n.Else)

	case *ir.EnumVariantRef:
		et, _ := n.Type().(types.EnumType)
		return types.Enum(et, n.Variant), nil

	case *ir.BitAccess:
		target, err := eval(f, n.Target)
		if err != nil {
			return types.Value{}, err
		}
		bit := (asInt(target) >> uint(n.BitIndex)) & 1
		return types.Bool(bit != 0), nil

	case *ir.TypeConversion:
		src, err := eval(f, n.Source)
		if err != nil {
			return types.Value{}, err
		}
		return convert(src, n.Type()), nil

	case *ir.SystemFlagExpr:
		switch n.Flag {
		case ir.FirstScan:
			return types.Bool(f.ctrl.firstScan), nil
		}
		return types.Bool(false), nil

	default:
		return types.Value{}, report.NewRuntimeFault("InternalInvariant", "unsupported expression kind in simulator", "")
	}
}

func convert(src types.Value, target types.Type) types.Value {
	pt, ok := types.Underlying(target).(types.PrimitiveType)
	if !ok {
		return src
	}
	if pt.IsFloating() {
		return types.Float(pt, asFloat(src))
	}
	if pt.IsUnsignedInteger() || pt.IsBitString() {
		return types.Uint(pt, uint64(asInt(src)))
	}
	if pt.IsIntegral() {
		return types.Int(pt, asInt(src))
	}
	return src
}

func evalUnary(f *frame, n *ir.Unary) (types.Value, error) {
	v, err := eval(f, n.Operand)
	if err != nil {
		return types.Value{}, err
	}
	switch n.Op {
	case ir.Neg:
		if v.Kind == types.ValFloat {
			return types.Float(v.Type.(types.PrimitiveType), -v.F), nil
		}
		return types.Int(v.Type.(types.PrimitiveType), -v.I), nil
	case ir.Not:
		return types.Bool(!v.B), nil
	case ir.BitNot:
		return types.Uint(v.Type.(types.PrimitiveType), ^v.U), nil
	default:
		return v, nil
	}
}

func evalBinary(f *frame, n *ir.Binary) (types.Value, error) {
	if n.Op == ir.And {
		l, err := eval(f, n.Left)
		if err != nil || !l.B {
			return types.Bool(false), err
		}
		r, err := eval(f, n.Right)
		return types.Bool(r.B), err
	}
	if n.Op == ir.Or {
		l, err := eval(f, n.Left)
		if err != nil || l.B {
			return types.Bool(l.B), err
		}
		r, err := eval(f, n.Right)
		return types.Bool(r.B), err
	}

	l, err := eval(f, n.Left)
	if err != nil {
		return types.Value{}, err
	}
	r, err := eval(f, n.Right)
	if err != nil {
		return types.Value{}, err
	}

	switch n.Op {
	case ir.Eq, ir.Ne, ir.Lt, ir.Le, ir.Gt, ir.Ge:
		return compareValues(n.Op, l, r), nil
	}

	if l.Kind == types.ValDuration {
		return evalDurationArith(n.Op, l, r)
	}
	if l.Kind == types.ValFloat {
		return evalFloatArith(n.Op, l, r)
	}
	if l.Kind == types.ValBool {
		return evalBitString(n.Op, l, r)
	}
	return evalIntArith(n.Op, l, r)
}

func compareValues(op ir.BinaryOp, l, r types.Value) types.Value {
	var cmp int
	switch l.Kind {
	case types.ValFloat:
		lf, rf := l.F, asFloat(r)
		cmp = cmpFloat(lf, rf)
	case types.ValDuration:
		cmp = cmpFloat(float64(l.D), float64(r.D))
	case types.ValString, types.ValEnum:
		cmp = 0
		if l.S < r.S {
			cmp = -1
		} else if l.S > r.S {
			cmp = 1
		}
	case types.ValBool:
		cmp = 0
		if !l.B && r.B {
			cmp = -1
		} else if l.B && !r.B {
			cmp = 1
		}
	default:
		cmp = cmpFloat(asFloat(l), asFloat(r))
	}
	switch op {
	case ir.Eq:
		return types.Bool(cmp == 0)
	case ir.Ne:
		return types.Bool(cmp != 0)
	case ir.Lt:
		return types.Bool(cmp < 0)
	case ir.Le:
		return types.Bool(cmp <= 0)
	case ir.Gt:
		return types.Bool(cmp > 0)
	default: // ir.Ge
		return types.Bool(cmp >= 0)
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func evalIntArith(op ir.BinaryOp, l, r types.Value) (types.Value, error) {
	pt, _ := l.Type.(types.PrimitiveType)
	if pt.IsUnsignedInteger() || pt.IsBitString() {
		a, b := l.U, r.U
		switch op {
		case ir.Add:
			return types.Uint(pt, a+b), nil
		case ir.Sub:
			return types.Uint(pt, a-b), nil
		case ir.Mul:
			return types.Uint(pt, a*b), nil
		case ir.Div:
			if b == 0 {
				return types.Value{}, report.NewRuntimeFault("DivisionByZero", "division by zero", "")
			}
			return types.Uint(pt, a/b), nil
		case ir.Mod:
			if b == 0 {
				return types.Value{}, report.NewRuntimeFault("DivisionByZero", "modulo by zero", "")
			}
			return types.Uint(pt, a%b), nil
		case ir.BitAnd:
			return types.Uint(pt, a&b), nil
		case ir.BitOr:
			return types.Uint(pt, a|b), nil
		case ir.BitXor:
			return types.Uint(pt, a^b), nil
		case ir.ShiftLeft:
			return types.Uint(pt, a<<b), nil
		case ir.ShiftRight:
			return types.Uint(pt, a>>b), nil
		case ir.Exponent:
			return intResult(int64(pow(float64(a), float64(b))), pt), nil
		case ir.RotateLeft:
			return types.Uint(pt, uint64(rotl(int64(a), int64(b), pt.Width()))), nil
		case ir.RotateRight:
			return types.Uint(pt, uint64(rotl(int64(a), -int64(b), pt.Width()))), nil
		}
	}
	a, b := l.I, r.I
	switch op {
	case ir.Add:
		return types.Int(pt, a+b), nil
	case ir.Sub:
		return types.Int(pt, a-b), nil
	case ir.Mul:
		return types.Int(pt, a*b), nil
	case ir.Div:
		if b == 0 {
			return types.Value{}, report.NewRuntimeFault("DivisionByZero", "division by zero", "")
		}
		return types.Int(pt, a/b), nil
	case ir.Mod:
		if b == 0 {
			return types.Value{}, report.NewRuntimeFault("DivisionByZero", "modulo by zero", "")
		}
		return types.Int(pt, a%b), nil
	case ir.BitAnd:
		return types.Int(pt, a&b), nil
	case ir.BitOr:
		return types.Int(pt, a|b), nil
	case ir.BitXor:
		return types.Int(pt, a^b), nil
	case ir.ShiftLeft:
		return types.Int(pt, a<<uint(b)), nil
	case ir.ShiftRight:
		return types.Int(pt, a>>uint(b)), nil
	case ir.Exponent:
		return intResult(int64(pow(float64(a), float64(b))), pt), nil
	case ir.RotateLeft:
		return types.Int(pt, rotl(a, b, pt.Width())), nil
	case ir.RotateRight:
		return types.Int(pt, rotl(a, -b, pt.Width())), nil
	default:
		return types.Value{}, report.NewRuntimeFault("InternalInvariant", "unsupported integer operator", "")
	}
}

func evalFloatArith(op ir.BinaryOp, l, r types.Value) (types.Value, error) {
	pt, _ := l.Type.(types.PrimitiveType)
	a, b := l.F, asFloat(r)
	switch op {
	case ir.Add:
		return types.Float(pt, a+b), nil
	case ir.Sub:
		return types.Float(pt, a-b), nil
	case ir.Mul:
		return types.Float(pt, a*b), nil
	case ir.Div:
		if b == 0 {
			return types.Value{}, report.NewRuntimeFault("DivisionByZero", "division by zero", "")
		}
		return types.Float(pt, a/b), nil
	case ir.Exponent:
		return types.Float(pt, pow(a, b)), nil
	default:
		return types.Value{}, report.NewRuntimeFault("InternalInvariant", "unsupported float operator", "")
	}
}

func evalBitString(op ir.BinaryOp, l, r types.Value) (types.Value, error) {
	switch op {
	case ir.BitAnd:
		return types.Bool(l.B && r.B), nil
	case ir.BitOr:
		return types.Bool(l.B || r.B), nil
	case ir.BitXor:
		return types.Bool(l.B != r.B), nil
	default:
		return types.Value{}, report.NewRuntimeFault("InternalInvariant", "unsupported boolean operator", "")
	}
}

func evalDurationArith(op ir.BinaryOp, l, r types.Value) (types.Value, error) {
	switch op {
	case ir.Add:
		return types.Dur(types.TTime, l.D+r.D), nil
	case ir.Sub:
		return types.Dur(types.TTime, l.D-r.D), nil
	default:
		return types.Value{}, report.NewRuntimeFault("InternalInvariant", "unsupported duration operator", "")
	}
}

func pow(a, b float64) float64 { return math.Pow(a, b) }
