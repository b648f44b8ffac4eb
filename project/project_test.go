package project

import (
	"testing"
	"time"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

func mustProgram(t *testing.T, name string) *ir.POU {
	t.Helper()
	pou, err := ir.NewProgram(name, nil, []ir.Stmt{ir.NewNoOp()}, nil)
	if err != nil {
		t.Fatalf("NewProgram(%s): %v", name, err)
	}
	return pou
}

func errKinds(t *testing.T, err error) []report.Kind {
	t.Helper()
	batch, ok := err.(*report.Batch)
	if !ok {
		t.Fatalf("error is %T, want *report.Batch", err)
	}
	kinds := make([]report.Kind, len(batch.Errors()))
	for i, ce := range batch.Errors() {
		kinds[i] = ce.Kind
	}
	return kinds
}

func TestCompileAcceptsValidProject(t *testing.T) {
	main := mustProgram(t, "Main")
	task, err := ir.NewTask("MainTask", ir.NewContinuousSchedule(), []string{"Main"})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	proj := &ir.Project{Name: "Demo", POUs: []*ir.POU{main}, Tasks: []*ir.Task{task}}

	if _, err := Compile(proj); err != nil {
		t.Fatalf("Compile: %v", err)
	}
}

func TestCompileRejectsDuplicatePOUNames(t *testing.T) {
	proj := &ir.Project{POUs: []*ir.POU{mustProgram(t, "Main"), mustProgram(t, "Main")}}
	_, err := Compile(proj)
	if err == nil {
		t.Fatal("expected error for duplicate POU names")
	}
	kinds := errKinds(t, err)
	if len(kinds) != 1 || kinds[0] != report.DuplicateName {
		t.Errorf("errors = %v, want [DuplicateName]", kinds)
	}
}

func TestCompileRejectsDanglingTaskReference(t *testing.T) {
	task, err := ir.NewTask("T", ir.NewContinuousSchedule(), []string{"Ghost"})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	proj := &ir.Project{POUs: []*ir.POU{mustProgram(t, "Main")}, Tasks: []*ir.Task{task}}

	_, err = Compile(proj)
	if err == nil {
		t.Fatal("expected error for a task referencing an undeclared POU")
	}
	kinds := errKinds(t, err)
	if len(kinds) != 1 || kinds[0] != report.DanglingReference {
		t.Errorf("errors = %v, want [DanglingReference]", kinds)
	}
}

func TestCompileRejectsUndeclaredVariableType(t *testing.T) {
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "w", Type: types.StructType{Name: "Widget"}}}},
	}
	pou, err := ir.NewFunctionBlock("Uses", blocks, nil, []ir.Stmt{ir.NewNoOp()}, nil, nil)
	if err != nil {
		t.Fatalf("NewFunctionBlock: %v", err)
	}
	proj := &ir.Project{POUs: []*ir.POU{pou}}

	_, err = Compile(proj)
	if err == nil {
		t.Fatal("expected error for a reference to an undeclared struct type")
	}
	kinds := errKinds(t, err)
	if len(kinds) != 1 || kinds[0] != report.DanglingReference {
		t.Errorf("errors = %v, want [DanglingReference]", kinds)
	}
}

func TestCompileAcceptsDeclaredVariableType(t *testing.T) {
	widget := types.StructType{Name: "Widget", Fields: []types.StructField{{Name: "X", Type: types.TInt32}}}
	blocks := ir.Blocks{
		{Role: ir.RoleStatic, Variables: []ir.Variable{{Name: "w", Type: widget}}},
	}
	pou, err := ir.NewFunctionBlock("Uses", blocks, nil, []ir.Stmt{ir.NewNoOp()}, nil, nil)
	if err != nil {
		t.Fatalf("NewFunctionBlock: %v", err)
	}
	proj := &ir.Project{POUs: []*ir.POU{pou}, DataTypes: []types.Type{widget}}

	if _, err := Compile(proj); err != nil {
		t.Fatalf("Compile: %v", err)
	}
}

func TestCompileRejectsStructDependencyCycle(t *testing.T) {
	a := types.StructType{Name: "A", Fields: []types.StructField{{Name: "b", Type: types.StructType{Name: "B"}}}}
	b := types.StructType{Name: "B", Fields: []types.StructField{{Name: "a", Type: types.StructType{Name: "A"}}}}
	proj := &ir.Project{DataTypes: []types.Type{a, b}}

	_, err := Compile(proj)
	if err == nil {
		t.Fatal("expected error for a struct field-type dependency cycle")
	}
	for _, k := range errKinds(t, err) {
		if k != report.InheritanceCycle {
			t.Errorf("unexpected error kind %v", k)
		}
	}
}

func TestCompileRejectsInheritanceCycle(t *testing.T) {
	a, err := ir.NewFunctionBlock("A", nil, nil, []ir.Stmt{ir.NewNoOp()}, nil, nil)
	if err != nil {
		t.Fatalf("NewFunctionBlock(A): %v", err)
	}
	b, err := ir.NewFunctionBlock("B", nil, a, []ir.Stmt{ir.NewNoOp()}, nil, nil)
	if err != nil {
		t.Fatalf("NewFunctionBlock(B): %v", err)
	}
	a.Parent = b // manufacture a cycle A -> B -> A

	proj := &ir.Project{POUs: []*ir.POU{a, b}}
	_, err = Compile(proj)
	if err == nil {
		t.Fatal("expected error for a function-block inheritance cycle")
	}
	for _, k := range errKinds(t, err) {
		if k != report.InheritanceCycle {
			t.Errorf("unexpected error kind %v", k)
		}
	}
}

func TestCompileRejectsNonPositiveWatchdog(t *testing.T) {
	bad := time.Duration(0)
	task := &ir.Task{Name: "T", Schedule: ir.NewContinuousSchedule(), Watchdog: &bad}
	proj := &ir.Project{POUs: []*ir.POU{mustProgram(t, "Main")}, Tasks: []*ir.Task{task}}

	_, err := Compile(proj)
	if err == nil {
		t.Fatal("expected error for a non-positive watchdog")
	}
	kinds := errKinds(t, err)
	if len(kinds) != 1 || kinds[0] != report.InvalidSchedule {
		t.Errorf("errors = %v, want [InvalidSchedule]", kinds)
	}
}

func TestCompileRejectsUnmappedHardwareVariable(t *testing.T) {
	ctrl := &ir.Controller{
		Name: "PLC1",
		Modules: []ir.Module{
			{Name: "DI1", IOPoints: []ir.IOPoint{{Address: "%IX0.0", MappedVariable: "Ghost"}}},
		},
	}
	proj := &ir.Project{POUs: []*ir.POU{mustProgram(t, "Main")}, Controller: ctrl}

	_, err := Compile(proj)
	if err == nil {
		t.Fatal("expected error for an I/O point mapped to an undeclared variable")
	}
	kinds := errKinds(t, err)
	if len(kinds) != 1 || kinds[0] != report.DanglingReference {
		t.Errorf("errors = %v, want [DanglingReference]", kinds)
	}
}
