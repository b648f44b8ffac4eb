package persist

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

func sampleProject(t *testing.T) *ir.Project {
	t.Helper()

	arr, err := types.NewArrayType(types.TInt32, []types.DimensionBound{{Lo: 0, Hi: 3}})
	if err != nil {
		t.Fatalf("NewArrayType: %v", err)
	}
	colorType := types.EnumType{Name: "Color", Variants: []types.EnumVariant{
		{Name: "Red", Value: 0}, {Name: "Green", Value: 1},
	}}

	initVal := types.Value{Type: types.TInt32, Kind: types.ValInt, I: 7}
	blocks := ir.Blocks{
		{Role: ir.RoleInput, Variables: []ir.Variable{{Name: "start", Type: types.TBool}}},
		{Role: ir.RoleStatic, Variables: []ir.Variable{
			{Name: "count", Type: types.TInt32, Initial: &initVal, Retain: true},
			{Name: "buf", Type: arr},
			{Name: "color", Type: colorType},
		}},
	}

	target := ir.NewVarRef("count", types.TInt32)
	body := []ir.Stmt{
		ir.NewAssign(target, ir.NewLiteral(types.Value{Type: types.TInt32, Kind: types.ValInt, I: 1})),
		ir.NewIf(ir.NewLiteral(types.Value{Type: types.TBool, Kind: types.ValBool, B: true}),
			[]ir.Stmt{ir.NewNoOp()}),
	}

	prog, err := ir.NewProgram("Main", blocks, body, nil)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	fn, err := ir.NewFunction("Helper", nil, types.TBool, []ir.Stmt{
		ir.NewReturn(ir.NewLiteral(types.Value{Type: types.TBool, Kind: types.ValBool, B: true})),
	})
	if err != nil {
		t.Fatalf("NewFunction: %v", err)
	}

	fbParent, err := ir.NewFunctionBlock("Base", nil, nil, []ir.Stmt{ir.NewNoOp()}, nil, nil)
	if err != nil {
		t.Fatalf("NewFunctionBlock(Base): %v", err)
	}
	fbChild, err := ir.NewFunctionBlock("Derived", nil, fbParent, []ir.Stmt{ir.NewNoOp()}, nil, nil)
	if err != nil {
		t.Fatalf("NewFunctionBlock(Derived): %v", err)
	}

	sched, err := ir.NewPeriodicSchedule(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewPeriodicSchedule: %v", err)
	}
	task, err := ir.NewTask("Fast", sched, []string{"Main"})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	task = task.WithPriority(1)
	task, err = task.WithWatchdog(5 * time.Millisecond)
	if err != nil {
		t.Fatalf("WithWatchdog: %v", err)
	}

	return &ir.Project{
		Name:        "Demo",
		Description: "round-trip fixture",
		Tasks:       []*ir.Task{task},
		POUs:        []*ir.POU{prog, fn, fbParent, fbChild},
		DataTypes:   []types.Type{colorType},
		Globals: []ir.GlobalBlock{
			{Name: "G", Variables: []ir.Variable{{Name: "shared", Type: types.TBool}}},
		},
		Metadata: map[string]string{"author": "test"},
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	p := sampleProject(t)
	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Name != p.Name || got.Description != p.Description {
		t.Errorf("project identity mismatch: got %+v", got)
	}
	if len(got.POUs) != len(p.POUs) {
		t.Fatalf("POUs = %d, want %d", len(got.POUs), len(p.POUs))
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Name != "Fast" {
		t.Fatalf("Tasks = %+v", got.Tasks)
	}
	if got.Tasks[0].Priority == nil || *got.Tasks[0].Priority != 1 {
		t.Errorf("Task priority = %v, want 1", got.Tasks[0].Priority)
	}
	if got.Tasks[0].Watchdog == nil || *got.Tasks[0].Watchdog != 5*time.Millisecond {
		t.Errorf("Task watchdog = %v, want 5ms", got.Tasks[0].Watchdog)
	}
	if got.Tasks[0].Schedule.Kind != ir.SchedulePeriodic || got.Tasks[0].Schedule.Period != 100*time.Millisecond {
		t.Errorf("Schedule = %+v", got.Tasks[0].Schedule)
	}
}

func TestRoundTripPreservesParentLinkage(t *testing.T) {
	p := sampleProject(t)
	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	var derived *ir.POU
	for _, pou := range got.POUs {
		if pou.Name == "Derived" {
			derived = pou
		}
	}
	if derived == nil {
		t.Fatal("Derived POU missing after round-trip")
	}
	if derived.Parent == nil || derived.Parent.Name != "Base" {
		t.Errorf("Derived.Parent = %+v, want Base", derived.Parent)
	}
}

func TestRoundTripPreservesProgramBodyAndVariables(t *testing.T) {
	p := sampleProject(t)
	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	var main *ir.POU
	for _, pou := range got.POUs {
		if pou.Name == "Main" {
			main = pou
		}
	}
	if main == nil {
		t.Fatal("Main POU missing after round-trip")
	}
	if len(main.Body) != 2 {
		t.Fatalf("Main.Body = %d stmts, want 2", len(main.Body))
	}
	assign, ok := main.Body[0].(*ir.Assign)
	if !ok || assign.Target.Root != "count" {
		t.Errorf("Main.Body[0] = %+v", main.Body[0])
	}

	var staticBlock *ir.DeclBlock
	for i := range main.Blocks {
		if main.Blocks[i].Role == ir.RoleStatic {
			staticBlock = &main.Blocks[i]
		}
	}
	if staticBlock == nil {
		t.Fatal("Main has no static block")
	}
	var count *ir.Variable
	for i := range staticBlock.Variables {
		if staticBlock.Variables[i].Name == "count" {
			count = &staticBlock.Variables[i]
		}
	}
	if count == nil {
		t.Fatal("count variable missing")
	}
	if !count.Retain {
		t.Error("count.Retain should survive round-trip")
	}
	if count.Initial == nil || count.Initial.I != 7 {
		t.Errorf("count.Initial = %+v, want I=7", count.Initial)
	}

	var buf *ir.Variable
	for i := range staticBlock.Variables {
		if staticBlock.Variables[i].Name == "buf" {
			buf = &staticBlock.Variables[i]
		}
	}
	if buf == nil {
		t.Fatal("buf variable missing")
	}
	arr, ok := buf.Type.(types.ArrayType)
	if !ok || len(arr.Bounds) != 1 || arr.Bounds[0].Hi != 3 {
		t.Errorf("buf.Type = %+v, want ArrayType with bound hi=3", buf.Type)
	}
}

func TestRoundTripPreservesEnumDataType(t *testing.T) {
	p := sampleProject(t)
	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.DataTypes) != 1 {
		t.Fatalf("DataTypes = %d, want 1", len(got.DataTypes))
	}
	et, ok := got.DataTypes[0].(types.EnumType)
	if !ok || et.Name != "Color" || len(et.Variants) != 2 {
		t.Errorf("DataTypes[0] = %+v", got.DataTypes[0])
	}
}

func TestUnmarshalRejectsMalformedVersion(t *testing.T) {
	_, err := Unmarshal([]byte(`{"formatVersion":"not-a-version","project":{"name":"X","pous":[]}}`))
	if err == nil {
		t.Fatal("expected an error for a non-semver formatVersion")
	}
}

func TestUnmarshalRejectsIncompatibleMajorVersion(t *testing.T) {
	_, err := Unmarshal([]byte(`{"formatVersion":"v2.0.0","project":{"name":"X","pous":[]}}`))
	if err == nil {
		t.Fatal("expected an error for a newer-major-version document")
	}
	if !strings.Contains(err.Error(), "incompatible") {
		t.Errorf("error = %v, want an incompatible-major-version message", err)
	}
}

func TestUnmarshalRejectsUnknownParentName(t *testing.T) {
	doc := `{
		"formatVersion": "v1.0.0",
		"project": {
			"name": "X",
			"pous": [
				{"name": "Derived", "kind": "functionBlock", "blocks": [], "parent": "Ghost"}
			]
		}
	}`
	_, err := Unmarshal([]byte(doc))
	if err == nil {
		t.Fatal("expected an error for a POU referencing an unknown parent")
	}
}

func TestUnmarshalRejectsMalformedDocument(t *testing.T) {
	_, err := Unmarshal([]byte(`not json`))
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestEncodeDecodeTypeRoundTripsStructType(t *testing.T) {
	def := types.Value{Type: types.TInt32, Kind: types.ValInt, I: 42}
	want := types.StructType{
		Name: "Point",
		Fields: []types.StructField{
			{Name: "x", Type: types.TInt32, Default: &def},
			{Name: "y", Type: types.TInt32},
		},
	}

	doc, err := EncodeType(want)
	if err != nil {
		t.Fatalf("EncodeType: %v", err)
	}
	got, err := DecodeType(doc)
	if err != nil {
		t.Fatalf("DecodeType: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("struct type round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeTypeRoundTripsSubrangeType(t *testing.T) {
	want, err := types.NewSubrangeType("Percent", types.TInt32, 0, 100)
	if err != nil {
		t.Fatalf("NewSubrangeType: %v", err)
	}
	doc, err := EncodeType(want)
	if err != nil {
		t.Fatalf("EncodeType: %v", err)
	}
	got, err := DecodeType(doc)
	if err != nil {
		t.Fatalf("DecodeType: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subrange type round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckCompatibleAcceptsSameMajorDifferentMinor(t *testing.T) {
	if err := checkCompatible("v1.2.3"); err != nil {
		t.Errorf("v1.2.3 should be compatible with %s: %v", FormatVersion, err)
	}
}
