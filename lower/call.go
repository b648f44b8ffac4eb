package lower

import (
	"fmt"

	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// lowerCallExpr dispatches a call appearing in expression position: a
// sentinel, a self.method_name() call, a self.fb_instance(...) invocation
// read for its output, or a plain function call (spec §4.2 step 4-5).
func (l *Lowerer) lowerCallExpr(n *ast.Call) ir.Expr {
	if name, ok := calleeName(n.Func); ok {
		if _, isTimer := timerSentinels[name]; isTimer {
			return l.expandTimer(name, n)
		}
		if _, isEdge := edgeSentinels[name]; isEdge {
			return l.expandEdge(name, n)
		}
		if _, isCounter := counterSentinels[name]; isCounter {
			return l.expandCounter(name, n)
		}
		if name == "first_scan" {
			return l.expandFirstScan()
		}
	}

	if attr, ok := n.Func.(*ast.Attribute); ok {
		if selfName, ok := attr.Value.(*ast.Name); ok && selfName.Ident == "self" {
			if _, isMethod := l.scope.Methods[attr.Attr]; isMethod {
				// the method's own body is lowered once, separately, by the POU builder
				qualified := l.scope.POUName + "." + attr.Attr
				args := l.lowerArgs(n)
				return ir.NewCall(qualified, args, l.scope.FuncReturnTypes[qualified])
			}
			// self.fb_instance(...) used as an expression: queue the
			// invocation and return a VarRef rooted at the instance so an
			// enclosing Attribute (`.Q`) resolves its output, exactly as
			// original_source's _compile_call returns VariableRef(instance)
			// for the same pattern.
			return l.lowerSelfFBCall(attr.Attr, n)
		}
	}

	callee, ok := calleeName(n.Func)
	if !ok {
		l.errorf(n.Span(), report.SyntaxUnsupported, "unsupported call target")
		return placeholderExpr()
	}
	args := l.lowerArgs(n)
	return ir.NewCall(callee, args, l.scope.FuncReturnTypes[callee])
}

// lowerSelfFBCall queues an FBInvocation for a named function-block
// instance invoked from expression position and returns a VarRef to it, to
// be extended with a field access by the enclosing Attribute node.
func (l *Lowerer) lowerSelfFBCall(instance string, n *ast.Call) ir.Expr {
	fbType, ok := l.scope.LookupSelf(instance)
	if !ok {
		l.errorf(n.Span(), report.NameUnresolved, "undeclared function-block instance %q", instance)
		return placeholderExpr()
	}
	inputs := map[string]ir.Expr{}
	for i, a := range n.Args {
		inputs[fmt.Sprintf("_pos%d", i)] = l.lowerExpr(a)
	}
	for _, kw := range n.Keywords {
		inputs[kw.Name] = l.lowerExpr(kw.Value)
	}
	l.queuePending(ir.NewFBInvocation(instance, describeFB(fbType), inputs, nil))
	return ir.NewVarRef(instance, fbType)
}

func describeFB(t types.Type) string {
	if st, ok := t.(types.StructType); ok {
		return st.Name
	}
	return t.Repr()
}

// lowerArgs lowers a call's positional and keyword arguments into ir.Arg,
// preserving the self.method_name()/generic-call distinction: positional
// args carry no name, keyword args do (spec §6.1: "function calls with
// positional and named arguments").
func (l *Lowerer) lowerArgs(n *ast.Call) []ir.Arg {
	args := make([]ir.Arg, 0, len(n.Args)+len(n.Keywords))
	for _, a := range n.Args {
		args = append(args, ir.Arg{Value: l.lowerExpr(a)})
	}
	for _, kw := range n.Keywords {
		args = append(args, ir.Arg{Name: kw.Name, Value: l.lowerExpr(kw.Value)})
	}
	return args
}

// calleeName extracts a bare function name from a call target, true only
// when Func is a plain Name (sentinels and ordinary bare function calls;
// self.X(...) calls are handled separately since they carry FB/method
// semantics rather than a bare name lookup).
func calleeName(e ast.Expr) (string, bool) {
	n, ok := e.(*ast.Name)
	if !ok {
		return "", false
	}
	return n.Ident, true
}
