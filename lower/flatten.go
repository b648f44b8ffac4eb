package lower

import (
	"fmt"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
)

// Flatten computes the linearized ancestor chain of a function-block POU
// and merges every ancestor's declaration blocks into it, for target
// vendors lacking native EXTENDS (spec §4.4). super().logic() calls are
// already inlined into each POU's body at lowering time (spec §4.2 step 3),
// so flattening only needs to merge declaration blocks and drop the parent
// link — body statements need no further change.
//
// Vendors with native EXTENDS skip this pass entirely and keep pou.Parent
// set; Flatten is invoked by the CLI build command (cmd/plx/internal/run)
// only for vendors that need it.
func Flatten(pou *ir.POU) (*ir.POU, error) {
	if pou.Parent == nil {
		return pou, nil
	}

	chain, err := ancestorChain(pou)
	if err != nil {
		return nil, err
	}

	seen := map[string]string{} // variable name -> owning POU name, for duplicate detection
	for name := range pou.Blocks.AllNames() {
		seen[name] = pou.Name
	}

	merged := pou
	// chain is ordered nearest-parent-first; apply from the nearest parent
	// outward so WithMergedParentBlocks' "parent blocks go first" contract
	// puts each more distant ancestor ahead of everything merged so far
	// (furthest ancestor's variables declared first, spec §4.4).
	for i := 0; i < len(chain); i++ {
		ancestor := chain[i]
		for name := range ancestor.Blocks.AllNames() {
			if owner, dup := seen[name]; dup && owner != ancestor.Name {
				return nil, &report.CompileError{
					Kind:    report.DuplicateName,
					Message: fmt.Sprintf("function-block %q redeclares %q, already declared by ancestor %q", pou.Name, name, owner),
				}
			}
			seen[name] = ancestor.Name
		}
		merged = merged.WithMergedParentBlocks(ancestor.Blocks)
	}
	return merged, nil
}

// ancestorChain walks pou.Parent pointers and returns them nearest-first,
// rejecting a cycle with InheritanceCycle (spec §4.4, §7) rather than
// looping forever.
func ancestorChain(pou *ir.POU) ([]*ir.POU, error) {
	var chain []*ir.POU
	visited := map[string]bool{pou.Name: true}
	for p := pou.Parent; p != nil; p = p.Parent {
		if visited[p.Name] {
			return nil, &report.CompileError{
				Kind:    report.InheritanceCycle,
				Message: fmt.Sprintf("inheritance cycle detected at %q", p.Name),
			}
		}
		visited[p.Name] = true
		chain = append(chain, p)
	}
	return chain, nil
}
