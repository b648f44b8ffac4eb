package lower

import (
	"strconv"

	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// timerSentinel describes one delayed/sustained/pulse sentinel's target FB
// and the name its PT (time-preset) input binds to, matching
// original_source's _TIMER_SENTINELS table.
type timerSentinel struct {
	fbType  string
	inName  string
	ptName  string
}

var timerSentinels = map[string]timerSentinel{
	"delayed":   {"TON", "IN", "PT"},
	"sustained": {"TOF", "IN", "PT"},
	"pulse":     {"TP", "IN", "PT"},
}

// edgeSentinels maps rising/falling to their detector FB type, matching
// original_source's _EDGE_SENTINELS table.
var edgeSentinels = map[string]string{
	"rising":  "R_TRIG",
	"falling": "F_TRIG",
}

// counterSentinel describes count_up/count_down's target FB and the names
// its clock/reload/preset inputs bind to. CTD's "reload" input is IEC's LD;
// CTU's is R (reset). Both dominate the count per spec §4.6.
type counterSentinel struct {
	fbType   string
	clkName  string
	ctrlName string
	pvName   string
}

var counterSentinels = map[string]counterSentinel{
	"count_up":   {"CTU", "CU", "R", "PV"},
	"count_down": {"CTD", "CD", "LD", "PV"},
}

// IsSentinel reports whether name is one of the compile-time helpers spec
// §4.2 step 5 and SPEC_FULL.md §D's first_scan() supplement enumerate. A
// bare reference to a sentinel name used outside call position, or used as
// a standalone statement, is rejected by the caller (spec: "name() must be
// used in an expression").
func IsSentinel(name string) bool {
	if _, ok := timerSentinels[name]; ok {
		return true
	}
	if _, ok := edgeSentinels[name]; ok {
		return true
	}
	if _, ok := counterSentinels[name]; ok {
		return true
	}
	return name == "first_scan"
}

// builtinFBFields gives the field types for the seven builtin
// timer/edge/counter function blocks plus their well-known IEC output and
// internal members, consulted when a member-access chain walks onto a
// sentinel-synthesized instance whose structural field list isn't modeled
// in the types package (builtin FBs have no user-visible struct
// definition; their shape is fixed by IEC 61131-3).
var builtinFBFields = map[string]map[string]types.Type{
	"TON":     {"IN": types.TBool, "PT": types.TTime, "Q": types.TBool, "ET": types.TTime},
	"TOF":     {"IN": types.TBool, "PT": types.TTime, "Q": types.TBool, "ET": types.TTime},
	"TP":      {"IN": types.TBool, "PT": types.TTime, "Q": types.TBool, "ET": types.TTime},
	"R_TRIG":  {"CLK": types.TBool, "Q": types.TBool},
	"F_TRIG":  {"CLK": types.TBool, "Q": types.TBool},
	"CTU":     {"CU": types.TBool, "R": types.TBool, "PV": types.TInt32, "Q": types.TBool, "CV": types.TInt32},
	"CTD":     {"CD": types.TBool, "LD": types.TBool, "PV": types.TInt32, "Q": types.TBool, "CV": types.TInt32},
}

// fbInstanceType is the placeholder struct type given to a sentinel's
// synthesized instance variable; member access against it is resolved
// through builtinFBFields rather than StructType.Fields, since builtin FBs
// carry no user-authored field list.
func fbInstanceType(fbType string) types.Type {
	return types.StructType{Name: fbType}
}

// expandTimer lowers a delayed/sustained/pulse call into a synthesized TON
// /TOF/TP instance plus a pending FBInvocation, returning a VarRef rooted
// at the new instance (spec §4.2 step 5).
func (l *Lowerer) expandTimer(name string, call *ast.Call) ir.Expr {
	sig := timerSentinels[name]
	if len(call.Args) == 0 {
		l.errorf(call.Span(), report.SyntaxUnsupported, "%s() requires a signal argument", name)
		return placeholderExpr()
	}
	signal := l.lowerExpr(call.Args[0])
	duration := l.lowerDurationKwarg(call, name)

	instance := l.nextAutoName(lowerFBTypeName(sig.fbType))
	l.Synthesized = append(l.Synthesized, ir.Variable{Name: instance, Type: fbInstanceType(sig.fbType)})
	l.queuePending(ir.NewFBInvocation(instance, sig.fbType, map[string]ir.Expr{
		sig.inName: signal,
		sig.ptName: duration,
	}, nil))

	return ir.NewVarRef(instance, fbInstanceType(sig.fbType), ir.PathElem{Kind: ir.PathField, Field: "Q"})
}

// expandEdge lowers a rising/falling call into a synthesized R_TRIG/F_TRIG
// instance plus a pending FBInvocation.
func (l *Lowerer) expandEdge(name string, call *ast.Call) ir.Expr {
	fbType := edgeSentinels[name]
	if len(call.Args) == 0 {
		l.errorf(call.Span(), report.SyntaxUnsupported, "%s() requires a signal argument", name)
		return placeholderExpr()
	}
	signal := l.lowerExpr(call.Args[0])

	instance := l.nextAutoName(lowerFBTypeName(fbType))
	l.Synthesized = append(l.Synthesized, ir.Variable{Name: instance, Type: fbInstanceType(fbType)})
	l.queuePending(ir.NewFBInvocation(instance, fbType, map[string]ir.Expr{"CLK": signal}, nil))

	return ir.NewVarRef(instance, fbInstanceType(fbType), ir.PathElem{Kind: ir.PathField, Field: "Q"})
}

// expandCounter lowers a count_up/count_down call into a synthesized CTU
// /CTD instance plus a pending FBInvocation. Per spec's signature
// `count_up(clk, reset, preset)` / `count_down(clk, load, preset)`, all
// three arguments are positional.
func (l *Lowerer) expandCounter(name string, call *ast.Call) ir.Expr {
	sig := counterSentinels[name]
	if len(call.Args) < 3 {
		l.errorf(call.Span(), report.SyntaxUnsupported, "%s() requires (clock, control, preset) arguments", name)
		return placeholderExpr()
	}
	clk := l.lowerExpr(call.Args[0])
	ctrl := l.lowerExpr(call.Args[1])
	preset := l.lowerExpr(call.Args[2])

	instance := l.nextAutoName(lowerFBTypeName(sig.fbType))
	l.Synthesized = append(l.Synthesized, ir.Variable{Name: instance, Type: fbInstanceType(sig.fbType)})
	l.queuePending(ir.NewFBInvocation(instance, sig.fbType, map[string]ir.Expr{
		sig.clkName:  clk,
		sig.ctrlName: ctrl,
		sig.pvName:   preset,
	}, nil))

	return ir.NewVarRef(instance, fbInstanceType(sig.fbType), ir.PathElem{Kind: ir.PathField, Field: "Q"})
}

// expandFirstScan lowers first_scan() to the simulator-owned system flag
// read, with no synthesized instance (SPEC_FULL.md §D/§F).
func (l *Lowerer) expandFirstScan() ir.Expr {
	return ir.NewSystemFlagExpr(ir.FirstScan)
}

func lowerFBTypeName(fbType string) string {
	switch fbType {
	case "TON":
		return "ton"
	case "TOF":
		return "tof"
	case "TP":
		return "tp"
	case "R_TRIG":
		return "r_trig"
	case "F_TRIG":
		return "f_trig"
	case "CTU":
		return "ctu"
	case "CTD":
		return "ctd"
	default:
		return "fb"
	}
}

// lowerDurationKwarg accepts any of the three accepted forms a timer's
// duration argument may take (SPEC_FULL.md §D): `seconds=S` (spec.md's
// baseline form), `ms=`, or `duration=` (an arbitrary expression, for
// HMI-configurable timers).
func (l *Lowerer) lowerDurationKwarg(call *ast.Call, sentinelName string) ir.Expr {
	for _, kw := range call.Keywords {
		switch kw.Name {
		case "seconds":
			return l.secondsToDuration(kw.Value)
		case "ms":
			return l.millisToDuration(kw.Value)
		case "duration":
			return l.lowerExpr(kw.Value)
		}
	}
	l.errorf(call.Span(), report.SyntaxUnsupported, "%s() requires a seconds=, ms=, or duration= keyword argument", sentinelName)
	return placeholderExpr()
}

// secondsToDuration wraps a numeric seconds= argument as a TIME literal
// when the argument is itself a literal, otherwise lowers it as a general
// expression (an HMI-bound duration input).
func (l *Lowerer) secondsToDuration(e ast.Expr) ir.Expr {
	if lit, ok := e.(*ast.Literal); ok && (lit.Kind == ast.LitInt || lit.Kind == ast.LitFloat) {
		f, err := strconv.ParseFloat(lit.Raw, 64)
		if err == nil {
			return ir.NewLiteral(types.DurationLiteral(f < 0, 0, 0, 0, int64(f), int64((f-float64(int64(f)))*1000), 0, 0))
		}
	}
	return l.lowerExpr(e)
}

func (l *Lowerer) millisToDuration(e ast.Expr) ir.Expr {
	if lit, ok := e.(*ast.Literal); ok && (lit.Kind == ast.LitInt || lit.Kind == ast.LitFloat) {
		ms, err := strconv.ParseInt(lit.Raw, 10, 64)
		if err == nil {
			return ir.NewLiteral(types.DurationLiteral(ms < 0, 0, 0, 0, 0, ms, 0, 0))
		}
	}
	return l.lowerExpr(e)
}

func placeholderExpr() ir.Expr {
	return ir.NewLiteral(types.Zero(types.TBool))
}
