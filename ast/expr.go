package ast

import "github.com/plx-lang/plx/report"

// Name is a bare identifier reference (`x`, `self`), mirroring Python's
// ast.Name.
type Name struct {
	exprBase
	Ident string
}

func NewName(span *report.Span, ident string) *Name {
	return &Name{exprBase: exprBase{NewBase(span)}, Ident: ident}
}

// LiteralKind tags the surface syntax a Literal was written in — lower/
// uses this together with the declared/inferred type to build the right
// types.Value (spec §4.2 step 6).
type LiteralKind int

const (
	LitBool LiteralKind = iota
	LitInt
	LitFloat
	LitString
	LitDuration // T#5s, T#500ms style literals
	LitNone     // absence of a value, e.g. an omitted optional initializer
)

// Literal is a constant appearing verbatim in source, mirroring Python's
// ast.Constant. Raw carries the literal's exact source text (e.g. "16#FF",
// "T#1500ms") so lower/ can apply IEC numeric-literal parsing rules rather
// than a host-language one.
type Literal struct {
	exprBase
	Kind LiteralKind
	Raw  string
}

func NewLiteral(span *report.Span, kind LiteralKind, raw string) *Literal {
	return &Literal{exprBase: exprBase{NewBase(span)}, Kind: kind, Raw: raw}
}

// Attribute is `value.attr`, mirroring Python's ast.Attribute. Used for
// `self.x` field references, `super().logic()` targets, and function-block
// instance output reads (`self.ton1.Q`).
type Attribute struct {
	exprBase
	Value Expr
	Attr  string
}

func NewAttribute(span *report.Span, value Expr, attr string) *Attribute {
	return &Attribute{exprBase: exprBase{NewBase(span)}, Value: value, Attr: attr}
}

// Subscript is `value[index, ...]`, mirroring Python's ast.Subscript with a
// tuple index for multi-dimensional array access.
type Subscript struct {
	exprBase
	Value   Expr
	Indices []Expr
}

func NewSubscript(span *report.Span, value Expr, indices []Expr) *Subscript {
	return &Subscript{exprBase: exprBase{NewBase(span)}, Value: value, Indices: indices}
}

// Keyword is one named argument in a Call, mirroring Python's ast.keyword.
type Keyword struct {
	Name  string
	Value Expr
}

// Call is a function/sentinel/FB-invocation call site, mirroring Python's
// ast.Call. Func is usually a Name (bare call) or an Attribute
// (`self.method_name()`, `super().logic()`). Args are positional; Keywords
// are named (spec §6.1: "function calls with positional and named
// arguments").
type Call struct {
	exprBase
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

func NewCall(span *report.Span, fn Expr, args []Expr, keywords []Keyword) *Call {
	return &Call{exprBase: exprBase{NewBase(span)}, Func: fn, Args: args, Keywords: keywords}
}

// BoolOpKind tags a short-circuiting boolean operator (Python's ast.And /
// ast.Or, which are variadic over any number of operands).
type BoolOpKind int

const (
	BoolAnd BoolOpKind = iota
	BoolOr
)

// BoolOp is a chain of `and`/`or` over two or more operands, mirroring
// Python's ast.BoolOp.
type BoolOp struct {
	exprBase
	Op     BoolOpKind
	Values []Expr
}

func NewBoolOp(span *report.Span, op BoolOpKind, values []Expr) *BoolOp {
	return &BoolOp{exprBase: exprBase{NewBase(span)}, Op: op, Values: values}
}

// UnaryOpKind tags a unary operator, mirroring Python's ast.UnaryOp op
// classes (USub, Not, Invert).
type UnaryOpKind int

const (
	UnaryNeg UnaryOpKind = iota
	UnaryNot
	UnaryBitNot
)

// UnaryOp is a unary operator application.
type UnaryOp struct {
	exprBase
	Op      UnaryOpKind
	Operand Expr
}

func NewUnaryOp(span *report.Span, op UnaryOpKind, operand Expr) *UnaryOp {
	return &UnaryOp{exprBase: exprBase{NewBase(span)}, Op: op, Operand: operand}
}

// BinOpKind tags an arithmetic or bitwise binary operator, mirroring
// Python's ast.BinOp op classes.
type BinOpKind int

const (
	BinAdd BinOpKind = iota
	BinSub
	BinMul
	BinDiv
	BinFloorDiv
	BinMod
	BinPow
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShiftLeft
	BinShiftRight
)

// BinOp is an arithmetic/bitwise binary operator application, mirroring
// Python's ast.BinOp.
type BinOp struct {
	exprBase
	Op          BinOpKind
	Left, Right Expr
}

func NewBinOp(span *report.Span, op BinOpKind, left, right Expr) *BinOp {
	return &BinOp{exprBase: exprBase{NewBase(span)}, Op: op, Left: left, Right: right}
}

// CompareOp tags a comparison operator, mirroring Python's ast.Compare op
// classes. plx accepts only a single comparison per Compare node (no
// chained `a < b < c` — spec §6.1 lists "comparisons" without chaining, and
// original_source's compiler rejects ast.Compare nodes with more than one
// operator).
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// Compare is a single binary comparison, mirroring the single-operator case
// of Python's ast.Compare.
type Compare struct {
	exprBase
	Op          CompareOp
	Left, Right Expr
}

func NewCompare(span *report.Span, op CompareOp, left, right Expr) *Compare {
	return &Compare{exprBase: exprBase{NewBase(span)}, Op: op, Left: left, Right: right}
}

// IfExp is a conditional (ternary) expression `then if cond else els`,
// mirroring Python's ast.IfExp.
type IfExp struct {
	exprBase
	Cond, Then, Else Expr
}

func NewIfExp(span *report.Span, cond, then, els Expr) *IfExp {
	return &IfExp{exprBase: exprBase{NewBase(span)}, Cond: cond, Then: then, Else: els}
}
