// Package ast models the authored-source contract (spec §6.1): the shape a
// host-language parser is assumed to hand the compiler for the body of a
// POU's logic/chart/method. plx never parses source text itself — this
// package only declares the tree shape lower/ consumes, mirroring how
// original_source's compiler walks Python's own ast module directly rather
// than defining a bespoke tree. Node here plays the same "sealed node
// interface with a span accessor" role bootstrap/ast.ASTNode plays for a
// general-purpose language, narrowed to the subset spec §6.1 lists:
// assignment, if/elif/else, match, while, for-over-integer-ranges, calls
// with positional/named arguments, attribute/subscript access, boolean
// and/or/not, comparisons, arithmetic.
package ast

import "github.com/plx-lang/plx/report"

// Node is satisfied by every authored-source tree node.
type Node interface {
	Span() *report.Span
}

// base supplies the common Span() accessor.
type base struct {
	span *report.Span
}

func (b base) Span() *report.Span { return b.span }

// NewBase constructs a base carrying the given span.
func NewBase(span *report.Span) base { return base{span: span} }

// Expr is satisfied by every authored expression node.
type Expr interface {
	Node
	isExpr()
}

type exprBase struct{ base }

func (exprBase) isExpr() {}

// Stmt is satisfied by every authored statement node.
type Stmt interface {
	Node
	isStmt()
}

type stmtBase struct{ base }

func (stmtBase) isStmt() {}

// Block is an ordered list of statements, e.g. a method body or a loop/if
// branch body.
type Block struct {
	base
	Stmts []Stmt
}

func NewBlock(span *report.Span, stmts []Stmt) *Block {
	return &Block{base: NewBase(span), Stmts: stmts}
}
