package ir

import (
	"testing"

	"github.com/plx-lang/plx/types"
)

func TestNewFunctionRejectsStaticVars(t *testing.T) {
	blocks := Blocks{{Role: RoleStatic, Variables: []Variable{{Name: "s", Type: types.TInt32}}}}
	if _, err := NewFunction("Bad", blocks, types.TInt32, nil); err == nil {
		t.Fatal("expected error: function POUs may not declare static variables")
	}
}

func TestNewFunctionBlockRequiresFunctionBlockParent(t *testing.T) {
	fn, err := NewFunction("Helper", nil, types.TInt32, nil)
	if err != nil {
		t.Fatalf("NewFunction: %v", err)
	}
	if _, err := NewFunctionBlock("Child", nil, fn, nil, nil, nil); err == nil {
		t.Fatal("expected error: parent must be a function-block")
	}
}

func TestNewFunctionBlockRejectsBodyAndChartTogether(t *testing.T) {
	body := []Stmt{NewNoOp()}
	chart := &Chart{Steps: []Step{{Name: "Init", Initial: true}}}
	if _, err := NewFunctionBlock("FB", nil, nil, body, chart, nil); err == nil {
		t.Fatal("expected error: body and chart are mutually exclusive")
	}
}

func TestNewFunctionBlockRejectsNonFunctionMethods(t *testing.T) {
	prog, err := NewProgram("NotAFunction", nil, nil, nil)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if _, err := NewFunctionBlock("FB", nil, nil, nil, nil, []*POU{prog}); err == nil {
		t.Fatal("expected error: methods must be functions")
	}
}

func TestPOUKindString(t *testing.T) {
	cases := map[POUKind]string{
		KindFunction:      "FUNCTION",
		KindFunctionBlock: "FUNCTION_BLOCK",
		KindProgram:       "PROGRAM",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestWithMergedParentBlocks(t *testing.T) {
	parentBlocks := Blocks{
		{Role: RoleInput, Variables: []Variable{{Name: "pIn", Type: types.TBool}}},
		{Role: RoleStatic, Variables: []Variable{{Name: "pState", Type: types.TInt32}}},
	}
	parent, err := NewFunctionBlock("Parent", parentBlocks, nil, []Stmt{NewNoOp()}, nil, nil)
	if err != nil {
		t.Fatalf("NewFunctionBlock(parent): %v", err)
	}
	child, err := NewFunctionBlock("Child", Blocks{
		{Role: RoleInput, Variables: []Variable{{Name: "cIn", Type: types.TBool}}},
	}, parent, []Stmt{NewNoOp()}, nil, nil)
	if err != nil {
		t.Fatalf("NewFunctionBlock(child): %v", err)
	}

	merged := child.WithMergedParentBlocks(parentBlocks)

	if merged.Parent != nil {
		t.Error("WithMergedParentBlocks should drop the parent link")
	}
	inputs := merged.Blocks.Block(RoleInput).Variables
	if len(inputs) != 2 || inputs[0].Name != "pIn" || inputs[1].Name != "cIn" {
		t.Errorf("merged inputs = %+v, want [pIn cIn] in that order", inputs)
	}
	statics := merged.Blocks.Block(RoleStatic).Variables
	if len(statics) != 1 || statics[0].Name != "pState" {
		t.Errorf("merged statics = %+v, want [pState]", statics)
	}

	// The original child is untouched (spec §4.3 immutability).
	if child.Parent == nil {
		t.Error("original child POU should be unaffected by WithMergedParentBlocks")
	}
	if got := len(child.Blocks.Block(RoleInput).Variables); got != 1 {
		t.Errorf("original child blocks mutated, inputs now %d", got)
	}
}
