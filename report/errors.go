package report

import (
	"fmt"
	"strings"
)

// Kind enumerates the exhaustive set of compile error kinds from spec §7.
type Kind int

const (
	SourceUnavailable Kind = iota
	SyntaxUnsupported
	NameUnresolved
	TypeMismatch
	InheritanceCycle
	DuplicateName
	CaseOverlap
	InvalidLiteral
	InvalidSchedule
	DanglingReference
	InternalInvariant
)

var kindNames = map[Kind]string{
	SourceUnavailable:  "SourceUnavailable",
	SyntaxUnsupported:  "SyntaxUnsupported",
	NameUnresolved:     "NameUnresolved",
	TypeMismatch:       "TypeMismatch",
	InheritanceCycle:   "InheritanceCycle",
	DuplicateName:      "DuplicateName",
	CaseOverlap:        "CaseOverlap",
	InvalidLiteral:     "InvalidLiteral",
	InvalidSchedule:    "InvalidSchedule",
	DanglingReference:  "DanglingReference",
	InternalInvariant:  "InternalInvariant",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UnknownKind"
}

// CompileError is a single diagnostic produced while lowering or assembling
// a project. It satisfies the standard error interface so it can be
// aggregated with multierr.
type CompileError struct {
	Kind         Kind
	Span         *Span
	Message      string
	RelatedSpans []*Span
}

func (ce *CompileError) Error() string {
	if ce.Span == nil {
		return fmt.Sprintf("%s: %s", ce.Kind, ce.Message)
	}
	return fmt.Sprintf("%s: %s (line %d, col %d)", ce.Kind, ce.Message, ce.Span.StartLine, ce.Span.StartCol)
}

// New creates a CompileError of the given kind at the given span.
func New(kind Kind, span *Span, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Span: span, Message: fmt.Sprintf(msg, args...)}
}

// WithRelated attaches related spans (e.g. the other overlapping case arm)
// to a CompileError and returns it for chaining.
func (ce *CompileError) WithRelated(spans ...*Span) *CompileError {
	ce.RelatedSpans = append(ce.RelatedSpans, spans...)
	return ce
}

// -----------------------------------------------------------------------------

// Batch is an ordered collection of CompileErrors accumulated during
// lowering or project assembly. Unlike a panic/recover short-circuit,
// callers keep adding to a Batch across independent checks so that a single
// run surfaces every violation found, per spec §4.5 ("best-effort
// multi-error reporting; compilation does not short-circuit on the first
// failure").
type Batch struct {
	errs []*CompileError
}

// Add appends a CompileError to the batch. Nil errors are ignored.
func (b *Batch) Add(err *CompileError) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Merge folds another batch's errors into this one.
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}
	b.errs = append(b.errs, other.errs...)
}

// Errors returns the accumulated errors in the order they were added.
func (b *Batch) Errors() []*CompileError {
	return b.errs
}

// Empty reports whether no errors have been accumulated.
func (b *Batch) Empty() bool {
	return len(b.errs) == 0
}

// Err returns the batch as a single error (nil if empty), implementing the
// usual "return err" idiom at package boundaries.
func (b *Batch) Err() error {
	if b.Empty() {
		return nil
	}
	return b
}

func (b *Batch) Error() string {
	lines := make([]string, len(b.errs))
	for i, e := range b.errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// -----------------------------------------------------------------------------

// RuntimeFault is a distinct error type surfaced when a scan aborts due to a
// runtime condition (division by zero, array index out of range) rather
// than a compile-time defect. Per spec §7, prior scan outputs remain
// observable after a fault.
type RuntimeFault struct {
	Kind    string
	Message string
	Trace   []string
}

func (rf *RuntimeFault) Error() string {
	return fmt.Sprintf("runtime fault [%s]: %s", rf.Kind, rf.Message)
}

// NewRuntimeFault constructs a RuntimeFault with an initial trace frame.
func NewRuntimeFault(kind, msg string, frame string) *RuntimeFault {
	return &RuntimeFault{Kind: kind, Message: msg, Trace: []string{frame}}
}
