// Package lower implements AST -> IR lowering (spec §4.2, component D):
// name resolution, syntax mapping, compile-time sentinel expansion, and
// type checking/validation over a POU's logic/chart source. It follows the
// teacher compiler's walk package in structure — a stateful per-definition
// walker type with small dispatch methods per node kind — generalized from
// chai's general-purpose-language AST to the restricted ast package this
// module defines for authored PLC logic (spec §6.1).
package lower

import (
	"fmt"

	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// SourceProvider retrieves the verbatim, pre-parsed source tree of a POU's
// logic method (spec §4.2 steps 1-2: source acquisition and syntax parse
// are assumed done by the host language's parser upstream of plx; plx
// itself never executes or re-parses authored source). A provider that
// cannot locate a method's source reports that via the returned error
// rather than panicking, so the caller can surface SourceUnavailable.
type SourceProvider interface {
	Source(pouName, methodName string) (*ast.Block, error)
}

// Lowerer holds the state threaded through one POU method's lowering: the
// variable scope, the sentinel auto-naming counters (continued across
// super().logic() inlining, matching original_source's single
// CompileContext._auto_counter), the diagnostic batch, and statements
// pending a flush ahead of the statement currently being lowered (sentinel
// expansion emits an FBInvocation that must execute before the expression
// reading its output is evaluated).
type Lowerer struct {
	scope   *Scope
	batch   *report.Batch
	counter map[string]int

	// Synthesized holds every static variable generated by sentinel
	// expansion, appended to the POU's static block by the caller (spec
	// §4.2 step 5: "Instances are appended to the POU's static block").
	Synthesized []ir.Variable

	pending []ir.Stmt
	loopDepth int
}

// NewLowerer constructs a Lowerer bound to the given name-resolution scope.
func NewLowerer(scope *Scope) *Lowerer {
	return &Lowerer{scope: scope, batch: &report.Batch{}, counter: map[string]int{}}
}

// LowerLogic lowers an entire method body (spec §4.2). It does not
// short-circuit on the first error (spec §4.5): each statement's errors
// are recorded and lowering continues, so later statements are still
// checked.
func (l *Lowerer) LowerLogic(body *ast.Block) ([]ir.Stmt, error) {
	stmts := l.lowerBlock(body)
	return stmts, l.batch.Err()
}

func (l *Lowerer) errorf(span *report.Span, kind report.Kind, format string, args ...interface{}) {
	l.batch.Add(report.New(kind, span, format, args...))
}

// nextAutoName generates a stable, lexical-position-derived synthetic
// instance name for a sentinel call site (spec §4.2 step 5: "assigned a
// stable synthetic instance name derived from the lexical position...
// Re-lowering the same source yields the same names"). Using a monotonic
// per-kind counter over a single left-to-right statement traversal is
// exactly such a derivation, matching original_source's next_auto_name.
func (l *Lowerer) nextAutoName(prefix string) string {
	n := l.counter[prefix]
	l.counter[prefix] = n + 1
	return fmt.Sprintf("__%s_%d", prefix, n)
}

// flushPending drains and returns statements queued by sentinel expansion
// since the last flush, to be emitted immediately before the statement
// currently being lowered.
func (l *Lowerer) flushPending() []ir.Stmt {
	p := l.pending
	l.pending = nil
	return p
}

func (l *Lowerer) queuePending(s ir.Stmt) {
	l.pending = append(l.pending, s)
}

// lowerBlock lowers a block's statements in order, flattening each
// statement's own pending-sentinel prefix ahead of it.
func (l *Lowerer) lowerBlock(b *ast.Block) []ir.Stmt {
	if b == nil {
		return nil
	}
	var out []ir.Stmt
	for _, s := range b.Stmts {
		out = append(out, l.lowerStmt(s)...)
	}
	return out
}

// boolType is the IR boolean type used for every sentinel/edge/comparison
// result and any other node the IR always types as BOOL regardless of its
// operands.
var boolType = types.TBool
