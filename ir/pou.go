package ir

import (
	"fmt"

	"github.com/plx-lang/plx/types"
)

// POUKind is one of the three POU kinds spec §3.3 defines.
type POUKind int

const (
	KindFunction POUKind = iota
	KindFunctionBlock
	KindProgram
)

func (k POUKind) String() string {
	switch k {
	case KindFunction:
		return "FUNCTION"
	case KindFunctionBlock:
		return "FUNCTION_BLOCK"
	case KindProgram:
		return "PROGRAM"
	default:
		return "UNKNOWN"
	}
}

// POU is a Program Organization Unit (spec §3.3). At most one of Body or
// Chart is non-nil/non-empty — a POU authored via SFC has Chart set and
// Body nil; a POU may also have neither.
type POU struct {
	Name   string
	Kind   POUKind
	Blocks Blocks
	Body   []Stmt
	Chart  *Chart

	// Parent is set only for FunctionBlock POUs using inheritance; nil
	// otherwise (spec §3.3).
	Parent *POU

	// ReturnType is set only for Function POUs.
	ReturnType types.Type

	// Methods holds inner function-kind POUs, valid only on
	// FunctionBlock POUs (spec §3.3: "optional method children
	// (function-blocks only)").
	Methods []*POU

	// Actions are named action bodies executing in this POU's own scope,
	// referenced by SFC step actions (SPEC_FULL.md §3 supplement, grounded
	// on original_source's POUAction / Action.action_name).
	Actions map[string][]Stmt
}

// NewFunction constructs a stateless Function POU.
func NewFunction(name string, blocks Blocks, returnType types.Type, body []Stmt) (*POU, error) {
	if err := validateBlocksForKind(KindFunction, blocks); err != nil {
		return nil, err
	}
	return &POU{Name: name, Kind: KindFunction, Blocks: blocks, ReturnType: returnType, Body: body}, nil
}

// NewFunctionBlock constructs a stateful FunctionBlock POU. parent may be
// nil (no inheritance). body and chart may not both be supplied; both may
// be empty.
func NewFunctionBlock(name string, blocks Blocks, parent *POU, body []Stmt, chart *Chart, methods []*POU) (*POU, error) {
	if parent != nil && parent.Kind != KindFunctionBlock {
		return nil, fmt.Errorf("function-block %q: parent %q is not a function-block", name, parent.Name)
	}
	if err := bodyExclusivity(body, chart); err != nil {
		return nil, fmt.Errorf("function-block %q: %w", name, err)
	}
	for _, m := range methods {
		if m.Kind != KindFunction {
			return nil, fmt.Errorf("function-block %q: method %q must be a function", name, m.Name)
		}
	}
	return &POU{Name: name, Kind: KindFunctionBlock, Blocks: blocks, Parent: parent, Body: body, Chart: chart, Methods: methods}, nil
}

// NewProgram constructs a Program POU: a function-block singleton with no
// inheritance and no methods (spec §3.3: "program (a function-block
// singleton bound into a task)").
func NewProgram(name string, blocks Blocks, body []Stmt, chart *Chart) (*POU, error) {
	if err := bodyExclusivity(body, chart); err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	return &POU{Name: name, Kind: KindProgram, Blocks: blocks, Body: body, Chart: chart}, nil
}

func bodyExclusivity(body []Stmt, chart *Chart) error {
	hasBody := len(body) > 0
	hasChart := chart != nil
	if hasBody && hasChart {
		return fmt.Errorf("must have exactly one body form (statements or chart), not both")
	}
	return nil
}

func validateBlocksForKind(kind POUKind, blocks Blocks) error {
	if kind == KindFunction {
		for _, b := range blocks {
			if b.Role == RoleStatic {
				return fmt.Errorf("function POUs may not declare static variables (stateless per spec §3.3)")
			}
		}
	}
	return nil
}

// WithMergedParentBlocks returns a new POU whose declaration blocks have
// the parent's blocks merged in ahead of the child's own (used by the
// inheritance-flattening pass, spec §4.4). Duplicate names are rejected by
// the caller (project/ or lower/) before this is invoked — this helper
// performs the merge only.
func (p *POU) WithMergedParentBlocks(parentBlocks Blocks) *POU {
	merged := Blocks{}
	seen := map[VarRole]int{}
	for _, b := range parentBlocks {
		merged = append(merged, DeclBlock{Role: b.Role, Variables: append([]Variable{}, b.Variables...)})
		seen[b.Role] = len(merged) - 1
	}
	for _, b := range p.Blocks {
		if idx, ok := seen[b.Role]; ok {
			merged[idx].Variables = append(merged[idx].Variables, b.Variables...)
		} else {
			merged = append(merged, DeclBlock{Role: b.Role, Variables: append([]Variable{}, b.Variables...)})
		}
	}
	clone := *p
	clone.Blocks = merged
	clone.Parent = nil
	return &clone
}
