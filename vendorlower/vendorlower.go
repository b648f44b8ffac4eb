// Package vendorlower defines the contract vendor back-ends implement to
// turn a validated Project IR into a vendor's on-disk project format (spec
// §6.2, component G). The contract itself is the stable surface; most
// vendors are sketched only at this interface, per spec.md §1 ("vendor
// back-ends ... are sketched only at the interface they consume from the
// IR") — only the IEC 61131-3 Structured Text emitter in vendorlower/st is
// fully worked, since ST is the one vendor-neutral textual form all three
// named vendors can import.
package vendorlower

import (
	"errors"
	"fmt"

	"github.com/plx-lang/plx/ir"
)

// ErrNotImplemented is returned by the sketched-only vendor emitters
// (L5X, SimaticML, TcPOU) in place of an actual schema-accurate document.
var ErrNotImplemented = errors.New("vendorlower: emitter not implemented")

// Emitter consumes a validated Project IR (one that has already passed
// project.Compile) and produces a vendor's on-disk artifact. Emit never
// receives an unvalidated project — callers run project.Compile first, the
// same division of labor spec §6.2 describes ("Each vendor emitter
// consumes a validated Project IR").
type Emitter interface {
	// Name identifies the vendor format, e.g. "L5X", "SimaticML", "TcPOU",
	// "StructuredText".
	Name() string

	// RequiresFlattening reports whether this vendor lacks native
	// function-block inheritance and therefore needs the flattening pass
	// (spec §4.4) run over the project before Emit is called.
	RequiresFlattening() bool

	// Emit produces the vendor artifact as bytes. Vendors sketched only at
	// the interface level return ErrNotImplemented.
	Emit(p *ir.Project) ([]byte, error)
}

// checkProject is the one structural precondition every emitter shares:
// a project must exist and declare at least one POU to be worth emitting.
func checkProject(p *ir.Project) error {
	if p == nil {
		return fmt.Errorf("vendorlower: nil project")
	}
	if len(p.POUs) == 0 {
		return fmt.Errorf("vendorlower: project %q declares no POUs", p.Name)
	}
	return nil
}
