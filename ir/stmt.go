package ir

import (
	"fmt"

	"github.com/plx-lang/plx/types"
)

// Stmt is satisfied by every IR statement node (spec §3.2).
type Stmt interface {
	isStmt()
}

type stmtBase struct{}

func (stmtBase) isStmt() {}

// -----------------------------------------------------------------------------

// Assign is `target := expr`; Target must resolve to a writable variable
// (spec §3.2).
type Assign struct {
	stmtBase
	Target *VarRef
	Value  Expr
}

func NewAssign(target *VarRef, value Expr) *Assign {
	return &Assign{Target: target, Value: value}
}

// -----------------------------------------------------------------------------

// ElifBranch is one `elif condition: body` arm of an If chain.
type ElifBranch struct {
	Cond Expr
	Body []Stmt
}

// If is an if/elif/else chain. Every condition must be boolean-typed
// (enforced by lower/, not by this constructor).
type If struct {
	stmtBase
	Cond     Expr
	Then     []Stmt
	Elifs    []ElifBranch
	Else     []Stmt
}

func NewIf(cond Expr, then []Stmt) *If {
	return &If{Cond: cond, Then: then}
}

// -----------------------------------------------------------------------------

// CaseValue is one matchable value in a CaseArm's value-set: either a
// single discrete integer/enum-variant value, or an inclusive range
// (SPEC_FULL.md §B supplement, grounded on original_source's CaseRange).
type CaseValue struct {
	Lo, Hi int64 // Lo == Hi for a discrete value
}

// Single reports whether this CaseValue is a single discrete value.
func (c CaseValue) Single() bool { return c.Lo == c.Hi }

// Overlaps reports whether two CaseValues share at least one integer.
func (c CaseValue) Overlaps(o CaseValue) bool {
	return c.Lo <= o.Hi && o.Lo <= c.Hi
}

// CaseArm is one `(value-set, body)` arm of a Case statement.
type CaseArm struct {
	Values []CaseValue
	Body   []Stmt
}

// Case is a selector-driven case statement. Selector must be integer- or
// enum-typed; arms must be mutually exclusive, checked at construction
// time (spec §3.2, §7 CaseOverlap).
type Case struct {
	stmtBase
	Selector Expr
	Arms     []CaseArm
	Default  []Stmt
}

// NewCase constructs a Case statement, rejecting overlapping arms. If any
// two arms overlap, the error names both arm indices and a value they share.
func NewCase(selector Expr, arms []CaseArm, deflt []Stmt) (*Case, error) {
	for i := 0; i < len(arms); i++ {
		for j := i + 1; j < len(arms); j++ {
			for _, vi := range arms[i].Values {
				for _, vj := range arms[j].Values {
					if vi.Overlaps(vj) {
						return nil, fmt.Errorf("case arms %d and %d overlap on value %d", i, j, max64(vi.Lo, vj.Lo))
					}
				}
			}
		}
	}
	return &Case{Selector: selector, Arms: arms, Default: deflt}, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// -----------------------------------------------------------------------------

// While is a pre-test loop. Loop bodies may not suspend (spec §3.2) — this
// is a structural property of the statement set itself (there is no
// suspend/yield statement kind), not a separate check.
type While struct {
	stmtBase
	Cond Expr
	Body []Stmt
}

func NewWhile(cond Expr, body []Stmt) *While { return &While{Cond: cond, Body: body} }

// RepeatUntil is a post-test loop: body executes at least once, then
// repeats while Until is false.
type RepeatUntil struct {
	stmtBase
	Body  []Stmt
	Until Expr
}

func NewRepeatUntil(body []Stmt, until Expr) *RepeatUntil {
	return &RepeatUntil{Body: body, Until: until}
}

// For is a counted loop with an integer induction variable, inclusive
// bounds, and an optional step (default 1).
type For struct {
	stmtBase
	Var      string
	VarType  types.PrimitiveType
	From, To Expr
	Step     Expr // nil means step 1
	Body     []Stmt
}

func NewFor(varName string, varType types.PrimitiveType, from, to, step Expr, body []Stmt) *For {
	return &For{Var: varName, VarType: varType, From: from, To: to, Step: step, Body: body}
}

// -----------------------------------------------------------------------------

// FBInvocation invokes a function-block instance with a named-argument
// input map; outputs are read via subsequent VarRef field access on the
// instance (spec §3.2, §4.2 step 5). It is modeled as a statement only;
// there is no FB-invocation expression node.
type FBInvocation struct {
	stmtBase
	Instance string
	FBType   string
	Inputs   map[string]Expr
	Outputs  map[string]*VarRef // optional `=>` output bindings
}

func NewFBInvocation(instance, fbType string, inputs map[string]Expr, outputs map[string]*VarRef) *FBInvocation {
	if inputs == nil {
		inputs = map[string]Expr{}
	}
	return &FBInvocation{Instance: instance, FBType: fbType, Inputs: inputs, Outputs: outputs}
}

// -----------------------------------------------------------------------------

// ExprStmt evaluates a call for its side effect and discards any result,
// the IR form of a bare `self.method_name()` statement (spec §4.2 step 4).
type ExprStmt struct {
	stmtBase
	Call *Call
}

func NewExprCallStmt(call *Call) *ExprStmt { return &ExprStmt{Call: call} }

// -----------------------------------------------------------------------------

// Return exits a function, optionally with a value (functions only, spec
// §3.2, §3.3).
type Return struct {
	stmtBase
	Value Expr // nil for a bare return in a function returning nothing meaningful yet
}

func NewReturn(value Expr) *Return { return &Return{Value: value} }

// NoOp is an explicit empty statement.
type NoOp struct{ stmtBase }

func NewNoOp() *NoOp { return &NoOp{} }

// Exit breaks out of the nearest enclosing loop (SPEC_FULL.md §B
// supplement).
type Exit struct{ stmtBase }

func NewExit() *Exit { return &Exit{} }

// Continue skips to the next iteration of the nearest enclosing loop
// (SPEC_FULL.md §B supplement).
type Continue struct{ stmtBase }

func NewContinue() *Continue { return &Continue{} }
