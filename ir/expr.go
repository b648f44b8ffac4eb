// Package ir implements the Universal Intermediate Representation (spec
// §2 component B, §3.2-§3.5): a strongly-typed, structurally-validated
// model of IEC 61131-3 expressions, statements, POUs, SFCs, tasks, and
// projects. Node construction enforces local invariants and the tree is
// immutable thereafter (spec §4.3) — every "New*" constructor in this
// package either returns a valid node or a descriptive error; nothing
// downstream needs to re-validate shape.
//
// The tagged-variant discipline (spec §9: "use tagged variants with
// structural pattern matching; avoid open class hierarchies") follows the
// teacher compiler's ast/mir packages: a small sealed interface per node
// category, dispatched with a type switch rather than virtual methods.
package ir

import "github.com/plx-lang/plx/types"

// Expr is satisfied by every IR expression node. Every Expr carries its
// result type, annotated during lowering's type-checking pass (spec §4.2
// step 6: "every IR expression is annotated with its result type").
type Expr interface {
	Type() types.Type
	isExpr()
}

// exprBase supplies the common Type() accessor so each concrete expression
// only needs to set a field, not implement a method.
type exprBase struct {
	typ types.Type
}

func (e exprBase) Type() types.Type { return e.typ }
func (exprBase) isExpr()            {}

// -----------------------------------------------------------------------------
// Literal

// Literal is a typed constant value appearing directly in an expression.
type Literal struct {
	exprBase
	Value types.Value
}

// NewLiteral constructs a typed literal expression.
func NewLiteral(v types.Value) *Literal {
	return &Literal{exprBase: exprBase{typ: v.Type}, Value: v}
}

// -----------------------------------------------------------------------------
// Variable reference (path)

// PathElemKind tags one segment of a variable-reference path (spec §3.2:
// "variable reference (path: one or more identifiers, each either a field
// access, an array index, or a dereference)").
type PathElemKind int

const (
	PathField PathElemKind = iota
	PathIndex
	PathDeref
)

// PathElem is one segment of a VarRef path.
type PathElem struct {
	Kind    PathElemKind
	Field   string // valid when Kind == PathField
	Indices []Expr // valid when Kind == PathIndex (one per array dimension)
}

// VarRef is a reference to a variable, optionally followed by field
// accesses, array indices, or dereferences.
type VarRef struct {
	exprBase
	Root string
	Path []PathElem
}

// NewVarRef constructs a variable reference to root followed by the given
// path elements (none for a bare reference).
func NewVarRef(root string, t types.Type, path ...PathElem) *VarRef {
	return &VarRef{exprBase: exprBase{typ: t}, Root: root, Path: path}
}

// IsLValue reports whether this reference denotes a writable location: a
// bare root or a root followed only by field/index accesses (never through
// an intermediate non-reference dereference chain ambiguity — dereferences
// of a pointer are writable through the pointee, same as any other path
// element). Per spec §3.2 "target must be an l-value path resolving to a
// writable variable", every VarRef is itself a valid l-value candidate;
// callers additionally check the root variable's role (constants and
// function outputs bound read-only elsewhere are rejected by lower/).
func (v *VarRef) IsLValue() bool { return true }

// -----------------------------------------------------------------------------
// Unary / binary operators

type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	BitNot
)

// Unary is a unary operator application.
type Unary struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

func NewUnary(op UnaryOp, operand Expr, resultType types.Type) *Unary {
	return &Unary{exprBase: exprBase{typ: resultType}, Op: op, Operand: operand}
}

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Exponent // EXPT, SPEC_FULL.md supplement

	Eq
	Ne
	Lt
	Le
	Gt
	Ge

	And // short-circuit logical AND
	Or  // short-circuit logical OR

	BitAnd
	BitOr
	BitXor
	ShiftLeft
	ShiftRight
	RotateLeft  // ROL, SPEC_FULL.md supplement
	RotateRight // ROR, SPEC_FULL.md supplement
)

// Binary is a binary operator application. And/Or are short-circuiting
// per spec §3.2.
type Binary struct {
	exprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func NewBinary(op BinaryOp, left, right Expr, resultType types.Type) *Binary {
	return &Binary{exprBase: exprBase{typ: resultType}, Op: op, Left: left, Right: right}
}

// -----------------------------------------------------------------------------
// Calls

// Arg is one argument to a function call, positional when Name == "".
type Arg struct {
	Name  string
	Value Expr
}

// Call is a function invocation expression: callable by name, positional
// and named arguments, returning a typed value (spec §3.2).
type Call struct {
	exprBase
	Callee string
	Args   []Arg
}

func NewCall(callee string, args []Arg, resultType types.Type) *Call {
	return &Call{exprBase: exprBase{typ: resultType}, Callee: callee, Args: args}
}

// -----------------------------------------------------------------------------
// Conditional (ternary) expression

// Conditional is `cond ? then : else`, all three sub-expressions typed;
// Then and Else must share an assignable-compatible type (lower/ enforces
// this; the IR constructor trusts its caller, matching the teacher's
// "constructors enforce local invariants" contract, not global ones).
type Conditional struct {
	exprBase
	Cond, Then, Else Expr
}

func NewConditional(cond, then, els Expr, resultType types.Type) *Conditional {
	return &Conditional{exprBase: exprBase{typ: resultType}, Cond: cond, Then: then, Else: els}
}

// -----------------------------------------------------------------------------
// Enum variant reference

// EnumVariantRef names a specific variant of an enum type directly (e.g.
// `Color.Red`), distinct from a VarRef because it resolves against a type
// namespace, not a variable namespace.
type EnumVariantRef struct {
	exprBase
	Variant string
}

func NewEnumVariantRef(enumType types.EnumType, variant string) *EnumVariantRef {
	return &EnumVariantRef{exprBase: exprBase{typ: enumType}, Variant: variant}
}

// -----------------------------------------------------------------------------
// Supplemental expression kinds (SPEC_FULL.md §B)

// BitAccess reads a single bit of an integer/bit-string variable
// (`var.%X5`), grounded on original_source's BitAccessExpr.
type BitAccess struct {
	exprBase
	Target   Expr
	BitIndex int
}

func NewBitAccess(target Expr, bitIndex int) *BitAccess {
	return &BitAccess{exprBase: exprBase{typ: types.TBool}, Target: target, BitIndex: bitIndex}
}

// TypeConversion is an explicit conversion (`INT_TO_REAL(x)`), the node
// narrowing assignments must route through to avoid TypeMismatch (spec
// §3.1, §8 boundary behavior: "float32 -> int32 without explicit
// conversion: TypeMismatch").
type TypeConversion struct {
	exprBase
	Source Expr
}

func NewTypeConversion(source Expr, target types.Type) *TypeConversion {
	return &TypeConversion{exprBase: exprBase{typ: target}, Source: source}
}

// SystemFlag tags a reference to a simulator-owned system flag (currently
// only FirstScan, expanded from the `first_scan()` sentinel — SPEC_FULL.md
// §D/§F).
type SystemFlag int

const (
	FirstScan SystemFlag = iota
)

// SystemFlagExpr reads a system flag's current value.
type SystemFlagExpr struct {
	exprBase
	Flag SystemFlag
}

func NewSystemFlagExpr(flag SystemFlag) *SystemFlagExpr {
	return &SystemFlagExpr{exprBase: exprBase{typ: types.TBool}, Flag: flag}
}
