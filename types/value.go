package types

import (
	"fmt"
	"time"
)

// ValueKind tags the underlying Go representation a Value carries.
type ValueKind int

const (
	ValBool ValueKind = iota
	ValInt
	ValUint
	ValFloat
	ValDuration // nanoseconds, signed
	ValString
	ValEnum // variant name, resolved against Type (an EnumType)
)

// Value is a typed constant value: a literal in the IR, a variable's
// declared initial value, or a runtime cell in the simulator. Every IR
// value carries a type (spec §3.1 invariant).
type Value struct {
	Type Type
	Kind ValueKind

	B bool
	I int64
	U uint64
	F float64
	D time.Duration
	S string
}

// Bool constructs a BOOL value.
func Bool(b bool) Value { return Value{Type: TBool, Kind: ValBool, B: b} }

// Int constructs a signed-integer value of the given primitive kind.
func Int(t PrimitiveType, v int64) Value { return Value{Type: t, Kind: ValInt, I: v} }

// Uint constructs an unsigned-integer value of the given primitive kind.
func Uint(t PrimitiveType, v uint64) Value { return Value{Type: t, Kind: ValUint, U: v} }

// Float constructs a floating-point value of the given primitive kind.
func Float(t PrimitiveType, v float64) Value { return Value{Type: t, Kind: ValFloat, F: v} }

// Str constructs a STRING/WSTRING value.
func Str(t Type, v string) Value { return Value{Type: t, Kind: ValString, S: v} }

// Enum constructs an enum-variant value.
func Enum(t EnumType, variant string) Value { return Value{Type: t, Kind: ValEnum, S: variant} }

// Dur constructs a TIME/LTIME value from a pre-computed nanosecond duration.
func Dur(t PrimitiveType, d time.Duration) Value { return Value{Type: t, Kind: ValDuration, D: d} }

// DurationLiteral builds a canonical duration value from its constituent
// fields (spec §3.1: "constructed from (days, hours, minutes, seconds,
// milliseconds, microseconds, nanoseconds); stored canonically as integer
// nanoseconds with a sign"). The sign is applied to the whole literal once
// all components are summed, matching IEC 61131-3's `T#-1d2h` style.
func DurationLiteral(negative bool, days, hours, minutes, seconds, millis, micros, nanos int64) Value {
	total := nanos +
		micros*int64(time.Microsecond) +
		millis*int64(time.Millisecond) +
		seconds*int64(time.Second) +
		minutes*int64(time.Minute) +
		hours*int64(time.Hour) +
		days*24*int64(time.Hour)

	if negative {
		total = -total
	}

	return Value{Type: TTime, Kind: ValDuration, D: time.Duration(total)}
}

// AsDuration returns the nanosecond duration of a ValDuration value.
func (v Value) AsDuration() time.Duration {
	return v.D
}

func (v Value) String() string {
	switch v.Kind {
	case ValBool:
		if v.B {
			return "TRUE"
		}
		return "FALSE"
	case ValInt:
		return fmt.Sprintf("%d", v.I)
	case ValUint:
		return fmt.Sprintf("%d", v.U)
	case ValFloat:
		return fmt.Sprintf("%g", v.F)
	case ValDuration:
		return fmt.Sprintf("T#%s", v.D)
	case ValString:
		return fmt.Sprintf("%q", v.S)
	case ValEnum:
		return v.S
	default:
		return "<invalid value>"
	}
}

// Zero returns the IEC-standard zero value for a type: FALSE for BOOL,
// numeric zero, empty string, T#0s for durations, and the first-declared
// variant for enums, matching spec §4.6's "initialize all variables to
// declared initial values (0 / false / empty for unspecified)".
func Zero(t Type) Value {
	switch ut := Underlying(t).(type) {
	case PrimitiveType:
		switch {
		case ut.Kind == BoolKind:
			return Bool(false)
		case ut.IsSignedInteger():
			return Int(ut, 0)
		case ut.IsUnsignedInteger(), ut.IsBitString():
			return Uint(ut, 0)
		case ut.IsFloating():
			return Float(ut, 0)
		case ut.IsDuration():
			return Dur(ut, 0)
		default:
			return Value{Type: ut, Kind: ValInt, I: 0}
		}
	case StringType:
		return Str(ut, "")
	case EnumType:
		if len(ut.Variants) > 0 {
			return Enum(ut, ut.Variants[0].Name)
		}
		return Enum(ut, "")
	case ArrayType, StructType, PointerType, ReferenceType:
		return Value{Type: t, Kind: ValInt, I: 0}
	default:
		return Value{Type: t, Kind: ValInt, I: 0}
	}
}
