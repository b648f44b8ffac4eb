package sim

import (
	"strings"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// ctrlSignal reports how a statement or block wants to unwind: fall
// through normally, return a function's value, or break/continue the
// nearest enclosing loop, mirroring the teacher walker's loopDepth-style
// control-flow bookkeeping but expressed as an explicit return value since
// the simulator has no diagnostics batch to defer to.
type ctrlSignal int

const (
	ctrlNone ctrlSignal = iota
	ctrlReturn
	ctrlExit
	ctrlContinue
)

// execBlock runs a statement list in order, stopping at the first
// non-normal control signal or runtime fault.
func execBlock(f *frame, stmts []ir.Stmt) (ctrlSignal, types.Value, error) {
	for _, s := range stmts {
		sig, val, err := execStmt(f, s)
		if err != nil || sig != ctrlNone {
			return sig, val, err
		}
	}
	return ctrlNone, types.Value{}, nil
}

func execStmt(f *frame, s ir.Stmt) (ctrlSignal, types.Value, error) {
	switch n := s.(type) {
	case *ir.Assign:
		v, err := eval(f, n.Value)
		if err != nil {
			return ctrlNone, types.Value{}, err
		}
		cell, err := resolveCell(f, n.Target)
		if err != nil {
			return ctrlNone, types.Value{}, err
		}
		cell.Value = v
		return ctrlNone, types.Value{}, nil

	case *ir.If:
		cond, err := eval(f, n.Cond)
		if err != nil {
			return ctrlNone, types.Value{}, err
		}
		if cond.B {
			return execBlock(f, n.Then)
		}
		for _, ei := range n.Elifs {
			ec, err := eval(f, ei.Cond)
			if err != nil {
				return ctrlNone, types.Value{}, err
			}
			if ec.B {
				return execBlock(f, ei.Body)
			}
		}
		return execBlock(f, n.Else)

	case *ir.Case:
		return execCase(f, n)

	case *ir.While:
		for {
			cond, err := eval(f, n.Cond)
			if err != nil {
				return ctrlNone, types.Value{}, err
			}
			if !cond.B {
				return ctrlNone, types.Value{}, nil
			}
			sig, val, err := execBlock(f, n.Body)
			if err != nil || sig == ctrlReturn {
				return sig, val, err
			}
			if sig == ctrlExit {
				return ctrlNone, types.Value{}, nil
			}
		}

	case *ir.RepeatUntil:
		for {
			sig, val, err := execBlock(f, n.Body)
			if err != nil || sig == ctrlReturn {
				return sig, val, err
			}
			if sig == ctrlExit {
				return ctrlNone, types.Value{}, nil
			}
			until, err := eval(f, n.Until)
			if err != nil {
				return ctrlNone, types.Value{}, err
			}
			if until.B {
				return ctrlNone, types.Value{}, nil
			}
		}

	case *ir.For:
		return execFor(f, n)

	case *ir.FBInvocation:
		return ctrlNone, types.Value{}, execFBInvocation(f, n)

	case *ir.ExprStmt:
		_, err := evalCall(f, n.Call)
		return ctrlNone, types.Value{}, err

	case *ir.Return:
		if n.Value == nil {
			return ctrlReturn, types.Value{}, nil
		}
		v, err := eval(f, n.Value)
		return ctrlReturn, v, err

	case *ir.NoOp:
		return ctrlNone, types.Value{}, nil
	case *ir.Exit:
		return ctrlExit, types.Value{}, nil
	case *ir.Continue:
		return ctrlContinue, types.Value{}, nil

	default:
		return ctrlNone, types.Value{}, report.NewRuntimeFault("InternalInvariant", "unsupported statement kind in simulator", "")
	}
}

func execCase(f *frame, n *ir.Case) (ctrlSignal, types.Value, error) {
	sel, err := eval(f, n.Selector)
	if err != nil {
		return ctrlNone, types.Value{}, err
	}
	v := asInt(sel)
	if sel.Kind == types.ValEnum {
		if et, ok := sel.Type.(types.EnumType); ok {
			if variant, ok := et.VariantByName(sel.S); ok {
				v = variant.Value
			}
		}
	}
	for _, arm := range n.Arms {
		for _, cv := range arm.Values {
			if v >= cv.Lo && v <= cv.Hi {
				return execBlock(f, arm.Body)
			}
		}
	}
	return execBlock(f, n.Default)
}

func execFor(f *frame, n *ir.For) (ctrlSignal, types.Value, error) {
	from, err := eval(f, n.From)
	if err != nil {
		return ctrlNone, types.Value{}, err
	}
	to, err := eval(f, n.To)
	if err != nil {
		return ctrlNone, types.Value{}, err
	}
	step := int64(1)
	if n.Step != nil {
		sv, err := eval(f, n.Step)
		if err != nil {
			return ctrlNone, types.Value{}, err
		}
		step = asInt(sv)
	}
	if step == 0 {
		return ctrlNone, types.Value{}, report.NewRuntimeFault("InvalidLiteral", "for-loop step must not be zero", n.Var)
	}

	i := asInt(from)
	limit := asInt(to)
	loopCell := &Cell{Type: n.VarType, Value: types.Int(n.VarType, i)}
	loopFrame := f.pushLocal(n.Var, loopCell)

	for (step > 0 && i <= limit) || (step < 0 && i >= limit) {
		loopCell.Value = types.Int(n.VarType, i)
		sig, val, err := execBlock(loopFrame, n.Body)
		if err != nil || sig == ctrlReturn {
			return sig, val, err
		}
		if sig == ctrlExit {
			break
		}
		i += step
	}
	return ctrlNone, types.Value{}, nil
}

// execFBInvocation stages a function-block instance's inputs and runs one
// invocation: a builtin timer/edge/counter state machine, or a
// project-defined function block's own logic body (spec §3.2, §4.6).
func execFBInvocation(f *frame, n *ir.FBInvocation) error {
	inst, ok := f.locals[n.Instance]
	if !ok {
		inst, ok = f.self.Fields[n.Instance]
	}
	if !ok {
		return report.NewRuntimeFault("NameUnresolved", "undeclared function-block instance \""+n.Instance+"\"", n.Instance)
	}
	for name, expr := range n.Inputs {
		v, err := eval(f, expr)
		if err != nil {
			return err
		}
		if field, ok := inst.Fields[name]; ok {
			field.Value = v
		}
	}

	if _, builtin := builtinFBFields[n.FBType]; builtin {
		executeBuiltinFB(inst, n.FBType, f.ctrl.clock)
		return nil
	}

	pou, ok := f.ctrl.rt.POU(n.FBType)
	if !ok {
		return report.NewRuntimeFault("NameUnresolved", "undeclared function-block type \""+n.FBType+"\"", n.FBType)
	}
	child := f.child(inst)
	_, _, err := runBody(child, pou)
	return err
}

// runBody executes a POU's logic body (statements or, for an SFC-authored
// POU, one scan of its chart) against frame f.
func runBody(f *frame, pou *ir.POU) (ctrlSignal, types.Value, error) {
	if pou.Chart != nil {
		return ctrlNone, types.Value{}, stepChart(f, pou)
	}
	return execBlock(f, pou.Body)
}

// evalCall evaluates a call expression: a bare IEC standard function, a
// self.method_name() call lowered to the "POU.method" qualified callee, or
// a plain project-defined function invocation (spec §4.2 step 4-5, §3.2).
func evalCall(f *frame, n *ir.Call) (types.Value, error) {
	args := make([]types.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := eval(f, a.Value)
		if err != nil {
			return types.Value{}, err
		}
		args[i] = v
	}

	if isStdlibFunction(n.Callee) {
		return evalStdlib(n.Callee, args, n.Type())
	}

	if dot := strings.IndexByte(n.Callee, '.'); dot >= 0 {
		methodName := n.Callee[dot+1:]
		pouName := n.Callee[:dot]
		pou, ok := f.ctrl.rt.POU(pouName)
		if !ok {
			return types.Value{}, report.NewRuntimeFault("NameUnresolved", "undeclared POU \""+pouName+"\"", n.Callee)
		}
		for _, m := range pou.Methods {
			if m.Name == methodName {
				return callFunction(f.child(f.self), m, n.Args, args)
			}
		}
		return types.Value{}, report.NewRuntimeFault("NameUnresolved", "undeclared method \""+methodName+"\"", n.Callee)
	}

	pou, ok := f.ctrl.rt.POU(n.Callee)
	if !ok {
		return types.Value{}, report.NewRuntimeFault("NameUnresolved", "undeclared function \""+n.Callee+"\"", n.Callee)
	}
	return callFunction(f.child(NewCell(fbInstanceTypeFor(pou))), pou, n.Args, args)
}

// callFunction binds a function's positional/named input arguments into a
// fresh self record built from its own declaration blocks, runs its body,
// and returns its Return value.
func callFunction(f *frame, pou *ir.POU, argExprs []ir.Arg, args []types.Value) (types.Value, error) {
	inputs := pou.Blocks.Block(ir.RoleInput)
	for i, a := range argExprs {
		name := a.Name
		if name == "" {
			if i >= len(inputs.Variables) {
				continue
			}
			name = inputs.Variables[i].Name
		}
		if cell, ok := f.self.Fields[name]; ok {
			cell.Value = args[i]
		}
	}
	_, val, err := execBlock(f, pou.Body)
	return val, err
}

// fbInstanceTypeFor builds a struct-shaped placeholder type for a
// project-defined POU's own declaration blocks, used only to allocate a
// fresh Cell via NewCell for a one-off function call's local record.
func fbInstanceTypeFor(pou *ir.POU) types.Type {
	var fields []types.StructField
	for _, b := range pou.Blocks {
		for _, v := range b.Variables {
			fields = append(fields, types.StructField{Name: v.Name, Type: v.Type, Default: v.Initial})
		}
	}
	return types.StructType{Name: pou.Name, Fields: fields}
}
