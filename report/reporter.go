package report

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// Reporter is responsible for printing diagnostics and phase progress to the
// console during compilation. It mirrors the teacher compiler's reporter:
// synchronized, log-level gated, safe to call from multiple goroutines even
// though plx's own pipeline is single-threaded (spec §5).
type Reporter struct {
	m        sync.Mutex
	logLevel int
	isErr    bool

	phase      string
	phaseStart time.Time
	spinner    *pterm.SpinnerPrinter
}

// Enumeration of log levels, lowest to highest verbosity.
const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelWarn
	LogLevelVerbose
)

var rep *Reporter

// Init initializes the global reporter. Calling it again is a no-op, same
// as the teacher's InitReporter.
func Init(logLevel int) {
	if rep == nil {
		rep = &Reporter{logLevel: logLevel}
	}
}

func current() *Reporter {
	if rep == nil {
		Init(LogLevelVerbose)
	}
	return rep
}

// AnyErrors reports whether any error has been displayed so far.
func AnyErrors() bool {
	return current().isErr
}

var (
	successFG = pterm.FgLightGreen
	warnFG    = pterm.FgYellow
	errorFG   = pterm.FgRed
	infoFG    = successFG
)

// Errors prints every CompileError in a Batch, using pterm to highlight the
// kind and (if present) the source span.
func Errors(b *Batch) {
	r := current()
	if r.logLevel <= LogLevelSilent {
		return
	}

	r.m.Lock()
	defer r.m.Unlock()
	r.isErr = r.isErr || !b.Empty()

	for _, ce := range b.Errors() {
		pterm.NewStyle(pterm.BgRed, pterm.FgWhite).Print(" " + ce.Kind.String() + " ")
		errorFG.Println(" " + ce.Message)
		if ce.Span != nil {
			infoFG.Printfln("  at line %d, col %d", ce.Span.StartLine, ce.Span.StartCol)
		}
		for _, rs := range ce.RelatedSpans {
			if rs != nil {
				pterm.Printfln("  related: line %d, col %d", rs.StartLine, rs.StartCol)
			}
		}
	}
}

// Warning prints a single warning message (spec §4.2 step 6/7 warnings:
// non-exhaustive case, unwritten output variable).
func Warning(span *Span, msg string, args ...interface{}) {
	r := current()
	if r.logLevel < LogLevelWarn {
		return
	}
	r.m.Lock()
	defer r.m.Unlock()

	pterm.NewStyle(pterm.BgYellow, pterm.FgBlack).Print(" Warning ")
	warnFG.Println(" " + fmt.Sprintf(msg, args...))
	if span != nil {
		infoFG.Printfln("  at line %d, col %d", span.StartLine, span.StartCol)
	}
}

// Fatal prints a fatal, non-compilation error (bad config, missing CLI
// argument) and is intended to be followed by os.Exit by the caller.
func Fatal(msg string, args ...interface{}) {
	r := current()
	r.m.Lock()
	defer r.m.Unlock()

	pterm.NewStyle(pterm.BgRed, pterm.FgWhite).Print(" Fatal ")
	errorFG.Println(" " + fmt.Sprintf(msg, args...))
}

// -----------------------------------------------------------------------------
// Phase display, ported from the teacher's displayBeginPhase/displayEndPhase.

// BeginPhase announces the start of a compilation phase (lowering, project
// assembly, simulation, vendor emission) with a spinner.
func BeginPhase(name string) {
	r := current()
	r.m.Lock()
	defer r.m.Unlock()

	r.phase = name
	r.phaseStart = time.Now()
	if r.logLevel >= LogLevelVerbose {
		r.spinner, _ = pterm.DefaultSpinner.Start(name + "...")
	}
}

// EndPhase closes out the current phase's spinner.
func EndPhase(success bool) {
	r := current()
	r.m.Lock()
	defer r.m.Unlock()

	if r.spinner == nil {
		return
	}
	elapsed := time.Since(r.phaseStart)
	if success {
		r.spinner.Success(fmt.Sprintf("%s (%.3fs)", r.phase, elapsed.Seconds()))
	} else {
		r.spinner.Fail(r.phase)
	}
	r.spinner = nil
}

// Finished prints a final summary line, mirroring
// displayCompilationFinished in the teacher compiler.
func Finished(errorCount, warningCount int) {
	if errorCount == 0 {
		successFG.Print("All done! ")
	} else {
		errorFG.Print("Oh no! ")
	}

	parts := []string{pluralize(errorCount, "error"), pluralize(warningCount, "warning")}
	fmt.Println("(" + strings.Join(parts, ", ") + ")")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
