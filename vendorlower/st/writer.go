// Package st emits plain IEC 61131-3 Structured Text from a validated
// Project IR (SPEC_FULL.md §G). It is grounded on two sources: the
// keyword conventions exercised throughout
// _examples/damischa1-iec-st-tools's ST/PLCOpen converters (VAR_INPUT,
// VAR_OUTPUT, VAR_IN_OUT, VAR, VAR_TEMP, END_VAR, FUNCTION_BLOCK/PROGRAM
// and their END_* counterparts), and original_source/export/st.py, an
// 854-line pretty-printer emitting this exact textual form from the same
// IR shapes this package's ir/types packages model. The indent-tracking
// buffer writer and precedence-aware expression printer below follow that
// Python STWriter's structure line for line, translated into Go's
// strings.Builder idiom (the same idiom the teacher's
// bootstrap/mir/print_mir.go uses for its own Repr() dump).
package st

import "strings"

// writer accumulates Structured Text source with IEC-style four-space
// indentation, the same increment the teacher and the pack's ST tools use.
type writer struct {
	buf    strings.Builder
	indent int
}

func newWriter() *writer {
	return &writer{}
}

func (w *writer) indentInc() { w.indent++ }
func (w *writer) indentDec() {
	if w.indent > 0 {
		w.indent--
	}
}

// line writes one fully-indented line followed by a newline. An empty
// call emits a blank separator line, matching STWriter._line() with no
// arguments.
func (w *writer) line(s string) {
	if s != "" {
		w.buf.WriteString(strings.Repeat("    ", w.indent))
		w.buf.WriteString(s)
	}
	w.buf.WriteByte('\n')
}

func (w *writer) blank() { w.buf.WriteByte('\n') }

// String returns the accumulated source with a single trailing newline,
// trimming any extra blank lines STWriter's section-separator calls leave
// at the very end.
func (w *writer) String() string {
	return strings.TrimRight(w.buf.String(), "\n") + "\n"
}
