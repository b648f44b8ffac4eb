package st

import (
	"strings"
	"testing"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

func TestEmitPOURendersVarBlocksAndBody(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleInput, Variables: []ir.Variable{{Name: "start", Type: types.TBool}}},
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "count", Type: types.TInt32, Description: "running total"}}},
	}

	cond := ir.NewVarRef("start", types.TBool)
	then := []ir.Stmt{ir.NewAssign(
		ir.NewVarRef("count", types.TInt32),
		ir.NewBinary(ir.Add, ir.NewVarRef("count", types.TInt32), ir.NewLiteral(types.Int(types.TInt32, 1)), types.TInt32),
	)}
	ifStmt := ir.NewIf(cond, then)

	pou, err := ir.NewProgram("Counter", blocks, []ir.Stmt{ifStmt}, nil)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	out := EmitPOU(pou)

	for _, want := range []string{
		"PROGRAM Counter",
		"VAR_INPUT",
		"start : BOOL;",
		"VAR\n",
		"count : DINT; // running total",
		"END_VAR",
		"IF start THEN",
		"count := count + 1;",
		"END_IF;",
		"END_PROGRAM",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("EmitPOU output missing %q; full output:\n%s", want, out)
		}
	}
}

func TestEmitPOURendersShiftAsFunctionCall(t *testing.T) {
	expr := ir.NewBinary(ir.ShiftLeft,
		ir.NewVarRef("flags", types.TUint32),
		ir.NewLiteral(types.Int(types.TInt32, 2)),
		types.TUint32,
	)
	assign := ir.NewAssign(ir.NewVarRef("flags", types.TUint32), expr)
	pou, err := ir.NewProgram("ShiftDemo", nil, []ir.Stmt{assign}, nil)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	out := EmitPOU(pou)
	if !strings.Contains(out, "flags := SHL(flags, 2);") {
		t.Errorf("expected shift lowered to a function call, got:\n%s", out)
	}
}

func TestEmitPOURendersChartWithSynthesizedInlineAction(t *testing.T) {
	steps := []ir.Step{
		{
			Name:    "Idle",
			Initial: true,
			Actions: []ir.StepAction{
				{Qualifier: ir.QualN, Body: []ir.Stmt{ir.NewNoOp()}},
			},
		},
		{Name: "Running"},
	}
	trans := []ir.Transition{
		{Source: "Idle", Target: "Running", Condition: ir.NewVarRef("start", types.TBool)},
	}
	chart, err := ir.NewChart(steps, trans)
	if err != nil {
		t.Fatalf("NewChart: %v", err)
	}
	pou, err := ir.NewProgram("Sequencer", nil, nil, chart)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	out := EmitPOU(pou)
	for _, want := range []string{
		"INITIAL_STEP Idle",
		"STEP Running",
		"TRANSITION FROM Idle TO Running",
		"END_TRANSITION",
		"ACTION Sequencer.",
		"END_ACTION",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("chart output missing %q; full output:\n%s", want, out)
		}
	}
}

func TestEmitProjectSeparatesSections(t *testing.T) {
	prog, err := ir.NewProgram("Main", nil, []ir.Stmt{ir.NewNoOp()}, nil)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	proj := &ir.Project{
		Name: "Demo",
		Globals: []ir.GlobalBlock{
			{Name: "Gvl1", Variables: []ir.Variable{{Name: "Tag1", Type: types.TBool}}},
		},
		POUs: []*ir.POU{prog},
	}

	out, err := EmitProject(proj)
	if err != nil {
		t.Fatalf("EmitProject: %v", err)
	}
	if !strings.Contains(out, "VAR_GLOBAL") || !strings.Contains(out, "Tag1 : BOOL;") {
		t.Errorf("expected a VAR_GLOBAL block, got:\n%s", out)
	}
	if !strings.Contains(out, "PROGRAM Main") {
		t.Errorf("expected the program body, got:\n%s", out)
	}
}

func TestStructuredTextEmitterIdentity(t *testing.T) {
	st := StructuredText{}
	if st.Name() != "StructuredText" {
		t.Errorf("Name() = %q", st.Name())
	}
	if st.RequiresFlattening() {
		t.Error("StructuredText should not require flattening: ST natively expresses EXTENDS")
	}
}
