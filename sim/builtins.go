package sim

import (
	"math"
	"time"

	"github.com/plx-lang/plx/types"
)

// builtinFBFields gives the runtime field layout of the seven builtin
// timer/edge/counter function blocks. This mirrors lower/sentinels.go's
// compile-time table of the same name by design rather than by import: that
// table drives type-checking during lowering, this one drives storage
// allocation during simulation, and the two packages have no reason to
// share a dependency edge over a handful of constant field lists.
var builtinFBFields = map[string]map[string]types.Type{
	"TON":    {"IN": types.TBool, "PT": types.TTime, "Q": types.TBool, "ET": types.TTime},
	"TOF":    {"IN": types.TBool, "PT": types.TTime, "Q": types.TBool, "ET": types.TTime},
	"TP":     {"IN": types.TBool, "PT": types.TTime, "Q": types.TBool, "ET": types.TTime},
	"R_TRIG": {"CLK": types.TBool, "Q": types.TBool},
	"F_TRIG": {"CLK": types.TBool, "Q": types.TBool},
	"CTU":    {"CU": types.TBool, "R": types.TBool, "PV": types.TInt32, "Q": types.TBool, "CV": types.TInt32},
	"CTD":    {"CD": types.TBool, "LD": types.TBool, "PV": types.TInt32, "Q": types.TBool, "CV": types.TInt32},
}

// fbState is the hidden, IEC-invisible latch state a builtin FB keeps
// between scans. Each concrete type corresponds to one of
// original_source/simulate/_builtins.py's classes.
type fbState interface{}

type tonState struct{ startTime *time.Duration }
type tofState struct {
	prevIn  bool
	offTime *time.Duration
}
type tpState struct {
	prevIn      bool
	pulseStart  *time.Duration
}
type edgeState struct{ prevClk bool }
type ctuState struct{ prevCU bool }
type ctdState struct{ prevCD bool }

func newFBState(fbType string) fbState {
	switch fbType {
	case "TON":
		return &tonState{}
	case "TOF":
		return &tofState{}
	case "TP":
		return &tpState{}
	case "R_TRIG", "F_TRIG":
		return &edgeState{}
	case "CTU":
		return &ctuState{}
	case "CTD":
		return &ctdState{}
	default:
		return nil
	}
}

// executeBuiltinFB runs one scan of a builtin FB's state machine, mutating
// its output/internal fields in place. inst.Fields' input members must
// already hold this scan's staged inputs.
func executeBuiltinFB(inst *Cell, fbType string, clock time.Duration) {
	switch fbType {
	case "TON":
		executeTON(inst, clock)
	case "TOF":
		executeTOF(inst, clock)
	case "TP":
		executeTP(inst, clock)
	case "R_TRIG":
		executeRTrig(inst)
	case "F_TRIG":
		executeFTrig(inst)
	case "CTU":
		executeCTU(inst)
	case "CTD":
		executeCTD(inst)
	}
}

func boolOf(c *Cell) bool       { return c.Value.B }
func setBool(c *Cell, v bool)   { c.Value = types.Bool(v) }
func durOf(c *Cell) time.Duration { return c.Value.D }
func setDur(c *Cell, d time.Duration) { c.Value = types.Dur(types.TTime, d) }
func intOf(c *Cell) int64       { return c.Value.I }
func setInt(c *Cell, v int64)   { c.Value = types.Int(types.TInt32, v) }

// executeTON ports TON.execute verbatim from _builtins.py: Q becomes TRUE
// once IN has held TRUE for at least PT.
func executeTON(inst *Cell, clock time.Duration) {
	st := inst.fb.(*tonState)
	in := boolOf(inst.Fields["IN"])
	pt := durOf(inst.Fields["PT"])

	if !in {
		setBool(inst.Fields["Q"], false)
		setDur(inst.Fields["ET"], 0)
		st.startTime = nil
		return
	}
	if st.startTime == nil {
		t := clock
		st.startTime = &t
	}
	elapsed := clock - *st.startTime
	et := elapsed
	if et > pt {
		et = pt
	}
	setDur(inst.Fields["ET"], et)
	setBool(inst.Fields["Q"], elapsed >= pt)
}

// executeTOF ports TOF.execute verbatim: Q stays TRUE for PT after IN falls.
func executeTOF(inst *Cell, clock time.Duration) {
	st := inst.fb.(*tofState)
	in := boolOf(inst.Fields["IN"])
	pt := durOf(inst.Fields["PT"])

	if in {
		setBool(inst.Fields["Q"], true)
		setDur(inst.Fields["ET"], 0)
		st.offTime = nil
	} else {
		if st.prevIn && !in {
			t := clock
			st.offTime = &t
		}
		if st.offTime != nil {
			elapsed := clock - *st.offTime
			et := elapsed
			if et > pt {
				et = pt
			}
			setDur(inst.Fields["ET"], et)
			if elapsed >= pt {
				setBool(inst.Fields["Q"], false)
				setDur(inst.Fields["ET"], pt)
			} else {
				setBool(inst.Fields["Q"], true)
			}
		} else {
			setBool(inst.Fields["Q"], false)
			setDur(inst.Fields["ET"], 0)
		}
	}
	st.prevIn = in
}

// executeTP ports TP.execute verbatim: Q is TRUE for exactly PT on a rising
// edge of IN.
func executeTP(inst *Cell, clock time.Duration) {
	st := inst.fb.(*tpState)
	in := boolOf(inst.Fields["IN"])
	pt := durOf(inst.Fields["PT"])

	if st.pulseStart != nil {
		elapsed := clock - *st.pulseStart
		if elapsed >= pt {
			setBool(inst.Fields["Q"], false)
			setDur(inst.Fields["ET"], pt)
			st.pulseStart = nil
		} else {
			setBool(inst.Fields["Q"], true)
			setDur(inst.Fields["ET"], elapsed)
		}
	} else if in && !st.prevIn {
		t := clock
		st.pulseStart = &t
		setBool(inst.Fields["Q"], true)
		setDur(inst.Fields["ET"], 0)
	} else {
		setBool(inst.Fields["Q"], false)
		setDur(inst.Fields["ET"], 0)
	}
	st.prevIn = in
}

func executeRTrig(inst *Cell) {
	st := inst.fb.(*edgeState)
	clk := boolOf(inst.Fields["CLK"])
	setBool(inst.Fields["Q"], clk && !st.prevClk)
	st.prevClk = clk
}

func executeFTrig(inst *Cell) {
	st := inst.fb.(*edgeState)
	clk := boolOf(inst.Fields["CLK"])
	setBool(inst.Fields["Q"], !clk && st.prevClk)
	st.prevClk = clk
}

// executeCTU implements the up-counter from spec §4.6 ("CTU increments on
// rising edges of CU... clamp at preset; reset inputs dominate"). Unlike the
// timer/edge FBs, original_source never wired counters into its own
// simulator, so this is built fresh from the textual spec rather than
// ported.
func executeCTU(inst *Cell) {
	st := inst.fb.(*ctuState)
	cu := boolOf(inst.Fields["CU"])
	reset := boolOf(inst.Fields["R"])
	pv := intOf(inst.Fields["PV"])
	cv := intOf(inst.Fields["CV"])

	switch {
	case reset:
		cv = 0
	case cu && !st.prevCU:
		if cv < pv {
			cv++
		}
	}
	setInt(inst.Fields["CV"], cv)
	setBool(inst.Fields["Q"], cv >= pv)
	st.prevCU = cu
}

// executeCTD implements the down-counter symmetrically: LD loads CV from PV
// while held, CD decrements on a rising edge, clamped at zero.
func executeCTD(inst *Cell) {
	st := inst.fb.(*ctdState)
	cd := boolOf(inst.Fields["CD"])
	ld := boolOf(inst.Fields["LD"])
	pv := intOf(inst.Fields["PV"])
	cv := intOf(inst.Fields["CV"])

	switch {
	case ld:
		cv = pv
	case cd && !st.prevCD:
		if cv > 0 {
			cv--
		}
	}
	setInt(inst.Fields["CV"], cv)
	setBool(inst.Fields["Q"], cv <= 0)
	st.prevCD = cd
}

// -----------------------------------------------------------------------------
// IEC standard library functions, ported from _builtins.py's
// STDLIB_FUNCTIONS table plus the EXPT/SHL/SHR/ROL/ROR bare-call forms
// SPEC_FULL.md's operator supplement adds.

func asFloat(v types.Value) float64 {
	switch v.Kind {
	case types.ValInt:
		return float64(v.I)
	case types.ValUint:
		return float64(v.U)
	case types.ValFloat:
		return v.F
	default:
		return 0
	}
}

func asInt(v types.Value) int64 {
	switch v.Kind {
	case types.ValInt:
		return v.I
	case types.ValUint:
		return int64(v.U)
	case types.ValFloat:
		return int64(v.F)
	default:
		return 0
	}
}

func floatResult(f float64, resultType types.Type) types.Value {
	pt, ok := types.Underlying(resultType).(types.PrimitiveType)
	if !ok {
		pt = types.TFloat64
	}
	return types.Float(pt, f)
}

func intResult(i int64, resultType types.Type) types.Value {
	pt, ok := types.Underlying(resultType).(types.PrimitiveType)
	if !ok {
		pt = types.TInt32
	}
	if pt.IsUnsignedInteger() {
		return types.Uint(pt, uint64(i))
	}
	return types.Int(pt, i)
}

// isStdlibFunction reports whether name is one of the bare IEC standard
// function calls the simulator evaluates directly rather than dispatching
// to a project-defined POU.
func isStdlibFunction(name string) bool {
	switch name {
	case "ABS", "SQRT", "MIN", "MAX", "LIMIT", "SEL", "MUX", "TRUNC", "ROUND",
		"SIN", "COS", "TAN", "ASIN", "ACOS", "ATAN", "ATAN2",
		"LN", "LOG", "EXP", "EXPT", "SHL", "SHR", "ROL", "ROR":
		return true
	default:
		return false
	}
}

// evalStdlib evaluates a bare standard-function call against already
// evaluated arguments.
func evalStdlib(name string, args []types.Value, resultType types.Type) (types.Value, error) {
	switch name {
	case "ABS":
		v := args[0]
		if v.Kind == types.ValFloat {
			return floatResult(math.Abs(v.F), resultType), nil
		}
		n := asInt(v)
		if n < 0 {
			n = -n
		}
		return intResult(n, resultType), nil
	case "SQRT":
		return floatResult(math.Sqrt(asFloat(args[0])), resultType), nil
	case "MIN":
		return minMaxResult(args, resultType, true), nil
	case "MAX":
		return minMaxResult(args, resultType, false), nil
	case "LIMIT":
		mn, in, mx := asFloat(args[0]), asFloat(args[1]), asFloat(args[2])
		v := in
		if v < mn {
			v = mn
		}
		if v > mx {
			v = mx
		}
		return sameKindResult(v, args[1], resultType), nil
	case "SEL":
		if args[0].B {
			return args[2], nil
		}
		return args[1], nil
	case "MUX":
		k := int(asInt(args[0]))
		values := args[1:]
		if k < 0 || k >= len(values) {
			k = len(values) - 1
		}
		if k < 0 {
			return types.Int(types.TInt32, 0), nil
		}
		return values[k], nil
	case "TRUNC":
		return intResult(int64(asFloat(args[0])), resultType), nil
	case "ROUND":
		return intResult(int64(math.Round(asFloat(args[0]))), resultType), nil
	case "SIN":
		return floatResult(math.Sin(asFloat(args[0])), resultType), nil
	case "COS":
		return floatResult(math.Cos(asFloat(args[0])), resultType), nil
	case "TAN":
		return floatResult(math.Tan(asFloat(args[0])), resultType), nil
	case "ASIN":
		return floatResult(math.Asin(asFloat(args[0])), resultType), nil
	case "ACOS":
		return floatResult(math.Acos(asFloat(args[0])), resultType), nil
	case "ATAN":
		return floatResult(math.Atan(asFloat(args[0])), resultType), nil
	case "ATAN2":
		return floatResult(math.Atan2(asFloat(args[0]), asFloat(args[1])), resultType), nil
	case "LN":
		return floatResult(math.Log(asFloat(args[0])), resultType), nil
	case "LOG":
		return floatResult(math.Log10(asFloat(args[0])), resultType), nil
	case "EXP":
		return floatResult(math.Exp(asFloat(args[0])), resultType), nil
	case "EXPT":
		return floatResult(math.Pow(asFloat(args[0]), asFloat(args[1])), resultType), nil
	case "SHL":
		return intResult(asInt(args[0])<<uint(asInt(args[1])), resultType), nil
	case "SHR":
		return intResult(asInt(args[0])>>uint(asInt(args[1])), resultType), nil
	case "ROL":
		return intResult(rotl(asInt(args[0]), asInt(args[1]), widthOf(resultType)), resultType), nil
	case "ROR":
		return intResult(rotl(asInt(args[0]), -asInt(args[1]), widthOf(resultType)), resultType), nil
	default:
		return types.Value{}, nil
	}
}

func minMaxResult(args []types.Value, resultType types.Type, wantMin bool) types.Value {
	best := args[0]
	for _, v := range args[1:] {
		if (wantMin && asFloat(v) < asFloat(best)) || (!wantMin && asFloat(v) > asFloat(best)) {
			best = v
		}
	}
	return sameKindResult(asFloat(best), best, resultType)
}

func sameKindResult(f float64, like types.Value, resultType types.Type) types.Value {
	if like.Kind == types.ValFloat {
		return floatResult(f, resultType)
	}
	return intResult(int64(f), resultType)
}

func widthOf(t types.Type) int {
	if pt, ok := types.Underlying(t).(types.PrimitiveType); ok {
		if w := pt.Width(); w > 0 {
			return w
		}
	}
	return 32
}

func rotl(v, n int64, width int) int64 {
	if width <= 0 {
		width = 32
	}
	n = ((n % int64(width)) + int64(width)) % int64(width)
	mask := int64(1)<<uint(width) - 1
	v &= mask
	return ((v << uint(n)) | (v >> uint(int64(width)-n))) & mask
}
