package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/mod/semver"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

// FormatVersion is the current persisted-document format version (spec
// §6.3). It is a semver string so golang.org/x/mod/semver can compare it
// against a loaded document's declared version.
const FormatVersion = "v1.0.0"

// DocumentFileName is the default file name cmd/plx looks for a project
// IR document under, analogous to config.ModuleFileName.
const DocumentFileName = "project.plxir"

// Document is the top-level envelope written to and read from disk: a
// format version stamp plus the project it carries (spec §6.3:
// "{ FormatVersion string, Project *ir.ProjectDoc }").
type Document struct {
	FormatVersion string       `json:"formatVersion"`
	Project       *ProjectDoc  `json:"project"`
}

// ProjectDoc is the serializable mirror of ir.Project.
type ProjectDoc struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Controller  *ControllerDoc     `json:"controller,omitempty"`
	Tasks       []*TaskDoc         `json:"tasks,omitempty"`
	POUs        []*POUDoc          `json:"pous"`
	DataTypes   []*TypeDoc         `json:"dataTypes,omitempty"`
	Globals     []GlobalBlockDoc   `json:"globals,omitempty"`
	Libraries   []LibraryRefDoc    `json:"libraries,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
}

// ControllerDoc mirrors ir.Controller.
type ControllerDoc struct {
	Name    string      `json:"name"`
	Model   string      `json:"model,omitempty"`
	Vendor  string      `json:"vendor,omitempty"`
	Modules []ModuleDoc `json:"modules,omitempty"`
}

// ModuleDoc mirrors ir.Module.
type ModuleDoc struct {
	Name        string       `json:"name"`
	ModuleType  string       `json:"moduleType,omitempty"`
	ModelNumber string       `json:"modelNumber,omitempty"`
	IOPoints    []IOPointDoc `json:"ioPoints,omitempty"`
}

// IOPointDoc mirrors ir.IOPoint.
type IOPointDoc struct {
	Address        string   `json:"address"`
	DataType       *TypeDoc `json:"dataType"`
	Direction      string   `json:"direction"`
	Description    string   `json:"description,omitempty"`
	MappedVariable string   `json:"mappedVariable,omitempty"`
}

// TaskDoc mirrors ir.Task.
type TaskDoc struct {
	Name     string       `json:"name"`
	Schedule ScheduleDoc  `json:"schedule"`
	Priority *int         `json:"priority,omitempty"`
	POURefs  []string     `json:"pouRefs,omitempty"`
	Watchdog *int64       `json:"watchdogNanos,omitempty"`
}

// ScheduleDoc mirrors ir.Schedule.
type ScheduleDoc struct {
	Kind            string `json:"kind"`
	PeriodNanos     int64  `json:"periodNanos,omitempty"`
	EventSource     string `json:"eventSource,omitempty"`
	TriggerVariable string `json:"triggerVariable,omitempty"`
}

// GlobalBlockDoc mirrors ir.GlobalBlock.
type GlobalBlockDoc struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Variables   []VariableDoc `json:"variables"`
}

// LibraryRefDoc mirrors ir.LibraryReference.
type LibraryRefDoc struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Vendor  string `json:"vendor,omitempty"`
}

// VariableDoc mirrors ir.Variable.
type VariableDoc struct {
	Name        string    `json:"name"`
	Type        *TypeDoc  `json:"type"`
	Initial     *ValueDoc `json:"initial,omitempty"`
	Description string    `json:"description,omitempty"`
	Retain      bool      `json:"retain,omitempty"`
	Persistent  bool      `json:"persistent,omitempty"`
	Address     string    `json:"address,omitempty"`
}

// DeclBlockDoc mirrors ir.DeclBlock.
type DeclBlockDoc struct {
	Role      string        `json:"role"`
	Variables []VariableDoc `json:"variables"`
}

// POUDoc mirrors ir.POU.
type POUDoc struct {
	Name       string                `json:"name"`
	Kind       string                `json:"kind"`
	Blocks     []DeclBlockDoc        `json:"blocks"`
	Body       []*StmtDoc            `json:"body,omitempty"`
	Chart      *ChartDoc             `json:"chart,omitempty"`
	Parent     string                `json:"parent,omitempty"` // parent POU name; resolved by LinkProject
	ReturnType *TypeDoc              `json:"returnType,omitempty"`
	Methods    []*POUDoc             `json:"methods,omitempty"`
	Actions    map[string][]*StmtDoc `json:"actions,omitempty"`
}

// ChartDoc mirrors ir.Chart.
type ChartDoc struct {
	Steps       []StepDoc       `json:"steps"`
	Transitions []TransitionDoc `json:"transitions"`
}

// StepActionDoc mirrors ir.StepAction.
type StepActionDoc struct {
	Qualifier  string     `json:"qualifier"`
	Body       []*StmtDoc `json:"body,omitempty"`
	ActionName string     `json:"actionName,omitempty"`
}

// StepDoc mirrors ir.Step.
type StepDoc struct {
	Name         string          `json:"name"`
	Initial      bool            `json:"initial,omitempty"`
	Actions      []StepActionDoc `json:"actions,omitempty"`
	EntryActions []StepActionDoc `json:"entryActions,omitempty"`
	ExitActions  []StepActionDoc `json:"exitActions,omitempty"`
}

// TransitionDoc mirrors ir.Transition.
type TransitionDoc struct {
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	Condition *ExprDoc `json:"condition"`
}

var roleNames = map[ir.VarRole]string{
	ir.RoleInput: "input", ir.RoleOutput: "output", ir.RoleInout: "inout",
	ir.RoleStatic: "static", ir.RoleTemp: "temp", ir.RoleConstant: "constant",
}

var qualifierNames = map[ir.ActionQualifier]string{
	ir.QualN: "N", ir.QualR: "R", ir.QualS: "S", ir.QualP: "P", ir.QualL: "L",
	ir.QualD: "D", ir.QualP0: "P0", ir.QualP1: "P1", ir.QualSD: "SD",
	ir.QualDS: "DS", ir.QualSL: "SL",
}

var scheduleKindNames = map[ir.ScheduleKind]string{
	ir.SchedulePeriodic: "periodic", ir.ScheduleEvent: "event",
	ir.ScheduleContinuous: "continuous", ir.ScheduleStartup: "startup",
}

var ioDirectionNames = map[ir.IODirection]string{ir.IOInput: "input", ir.IOOutput: "output"}

// Marshal encodes a project into the versioned document form and returns
// its JSON bytes.
func Marshal(p *ir.Project) ([]byte, error) {
	pd, err := encodeProject(p)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(&Document{FormatVersion: FormatVersion, Project: pd}, "", "  ")
}

// Unmarshal decodes a project document, rejecting it before any further
// deserialization if its FormatVersion is a newer major version than this
// compiler supports (spec §6.3: "a newer-major document is rejected before
// deserialization is attempted").
func Unmarshal(data []byte) (*ir.Project, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("persist: malformed document: %w", err)
	}
	if err := checkCompatible(doc.FormatVersion); err != nil {
		return nil, err
	}
	return decodeProject(doc.Project)
}

func checkCompatible(docVersion string) error {
	if !semver.IsValid(docVersion) {
		return fmt.Errorf("persist: document format version %q is not valid semver", docVersion)
	}
	if semver.Major(docVersion) != semver.Major(FormatVersion) {
		return fmt.Errorf("persist: document format %s is incompatible with supported major version %s",
			docVersion, semver.Major(FormatVersion))
	}
	return nil
}

func encodeProject(p *ir.Project) (*ProjectDoc, error) {
	pd := &ProjectDoc{Name: p.Name, Description: p.Description, Metadata: p.Metadata}

	if p.Controller != nil {
		cd, err := encodeController(p.Controller)
		if err != nil {
			return nil, err
		}
		pd.Controller = cd
	}

	for _, t := range p.Tasks {
		pd.Tasks = append(pd.Tasks, encodeTask(t))
	}
	for _, dt := range p.DataTypes {
		td, err := EncodeType(dt)
		if err != nil {
			return nil, err
		}
		pd.DataTypes = append(pd.DataTypes, td)
	}
	for _, gb := range p.Globals {
		gd, err := encodeGlobalBlock(gb)
		if err != nil {
			return nil, err
		}
		pd.Globals = append(pd.Globals, gd)
	}
	for _, lib := range p.Libraries {
		pd.Libraries = append(pd.Libraries, LibraryRefDoc{Name: lib.Name, Version: lib.Version, Vendor: lib.Vendor})
	}
	for _, pou := range p.POUs {
		pdoc, err := encodePOU(pou)
		if err != nil {
			return nil, err
		}
		pd.POUs = append(pd.POUs, pdoc)
	}
	return pd, nil
}

func encodeController(c *ir.Controller) (*ControllerDoc, error) {
	cd := &ControllerDoc{Name: c.Name, Model: c.Model, Vendor: c.Vendor}
	for _, m := range c.Modules {
		md := ModuleDoc{Name: m.Name, ModuleType: m.ModuleType, ModelNumber: m.ModelNumber}
		for _, io := range m.IOPoints {
			dt, err := EncodeType(io.DataType)
			if err != nil {
				return nil, err
			}
			md.IOPoints = append(md.IOPoints, IOPointDoc{
				Address: io.Address, DataType: dt, Direction: ioDirectionNames[io.Direction],
				Description: io.Description, MappedVariable: io.MappedVariable,
			})
		}
		cd.Modules = append(cd.Modules, md)
	}
	return cd, nil
}

func encodeTask(t *ir.Task) *TaskDoc {
	sd := ScheduleDoc{
		Kind: scheduleKindNames[t.Schedule.Kind], PeriodNanos: int64(t.Schedule.Period),
		EventSource: t.Schedule.EventSource, TriggerVariable: t.Schedule.TriggerVariable,
	}
	td := &TaskDoc{Name: t.Name, Schedule: sd, Priority: t.Priority, POURefs: t.POURefs}
	if t.Watchdog != nil {
		n := int64(*t.Watchdog)
		td.Watchdog = &n
	}
	return td
}

func encodeGlobalBlock(gb ir.GlobalBlock) (GlobalBlockDoc, error) {
	vars, err := encodeVariables(gb.Variables)
	if err != nil {
		return GlobalBlockDoc{}, err
	}
	return GlobalBlockDoc{Name: gb.Name, Description: gb.Description, Variables: vars}, nil
}

func encodeVariables(vs []ir.Variable) ([]VariableDoc, error) {
	out := make([]VariableDoc, len(vs))
	for i, v := range vs {
		td, err := EncodeType(v.Type)
		if err != nil {
			return nil, err
		}
		var init *ValueDoc
		if v.Initial != nil {
			vd, err := EncodeValue(*v.Initial)
			if err != nil {
				return nil, err
			}
			init = vd
		}
		out[i] = VariableDoc{
			Name: v.Name, Type: td, Initial: init, Description: v.Description,
			Retain: v.Retain, Persistent: v.Persistent, Address: v.Address,
		}
	}
	return out, nil
}

func encodeBlocks(bs ir.Blocks) ([]DeclBlockDoc, error) {
	out := make([]DeclBlockDoc, len(bs))
	for i, b := range bs {
		vars, err := encodeVariables(b.Variables)
		if err != nil {
			return nil, err
		}
		out[i] = DeclBlockDoc{Role: roleNames[b.Role], Variables: vars}
	}
	return out, nil
}

func encodePOU(p *ir.POU) (*POUDoc, error) {
	blocks, err := encodeBlocks(p.Blocks)
	if err != nil {
		return nil, err
	}
	body, err := EncodeStmts(p.Body)
	if err != nil {
		return nil, err
	}
	var chart *ChartDoc
	if p.Chart != nil {
		cd, err := encodeChart(p.Chart)
		if err != nil {
			return nil, err
		}
		chart = cd
	}
	var rt *TypeDoc
	if p.ReturnType != nil {
		rt, err = EncodeType(p.ReturnType)
		if err != nil {
			return nil, err
		}
	}
	var parent string
	if p.Parent != nil {
		parent = p.Parent.Name
	}
	var methods []*POUDoc
	for _, m := range p.Methods {
		md, err := encodePOU(m)
		if err != nil {
			return nil, err
		}
		methods = append(methods, md)
	}
	var actions map[string][]*StmtDoc
	if p.Actions != nil {
		actions = map[string][]*StmtDoc{}
		for name, stmts := range p.Actions {
			ad, err := EncodeStmts(stmts)
			if err != nil {
				return nil, err
			}
			actions[name] = ad
		}
	}

	return &POUDoc{
		Name: p.Name, Kind: pouKindName(p.Kind), Blocks: blocks, Body: body, Chart: chart,
		Parent: parent, ReturnType: rt, Methods: methods, Actions: actions,
	}, nil
}

func encodeChart(c *ir.Chart) (*ChartDoc, error) {
	cd := &ChartDoc{}
	for _, s := range c.Steps {
		sd, err := encodeStep(s)
		if err != nil {
			return nil, err
		}
		cd.Steps = append(cd.Steps, sd)
	}
	for _, t := range c.Transitions {
		cond, err := EncodeExpr(t.Condition)
		if err != nil {
			return nil, err
		}
		cd.Transitions = append(cd.Transitions, TransitionDoc{Source: t.Source, Target: t.Target, Condition: cond})
	}
	return cd, nil
}

func encodeStep(s ir.Step) (StepDoc, error) {
	actions, err := encodeStepActions(s.Actions)
	if err != nil {
		return StepDoc{}, err
	}
	entry, err := encodeStepActions(s.EntryActions)
	if err != nil {
		return StepDoc{}, err
	}
	exit, err := encodeStepActions(s.ExitActions)
	if err != nil {
		return StepDoc{}, err
	}
	return StepDoc{Name: s.Name, Initial: s.Initial, Actions: actions, EntryActions: entry, ExitActions: exit}, nil
}

func encodeStepActions(as []ir.StepAction) ([]StepActionDoc, error) {
	out := make([]StepActionDoc, len(as))
	for i, a := range as {
		body, err := EncodeStmts(a.Body)
		if err != nil {
			return nil, err
		}
		out[i] = StepActionDoc{Qualifier: qualifierNames[a.Qualifier], Body: body, ActionName: a.ActionName}
	}
	return out, nil
}

func pouKindName(k ir.POUKind) string {
	switch k {
	case ir.KindFunction:
		return "function"
	case ir.KindFunctionBlock:
		return "functionBlock"
	case ir.KindProgram:
		return "program"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Decoding

func decodeProject(pd *ProjectDoc) (*ir.Project, error) {
	if pd == nil {
		return nil, fmt.Errorf("persist: document has no project")
	}
	p := &ir.Project{Name: pd.Name, Description: pd.Description, Metadata: pd.Metadata}

	if pd.Controller != nil {
		c, err := decodeController(pd.Controller)
		if err != nil {
			return nil, err
		}
		p.Controller = c
	}
	for _, td := range pd.Tasks {
		t, err := decodeTask(td)
		if err != nil {
			return nil, err
		}
		p.Tasks = append(p.Tasks, t)
	}
	for _, dtd := range pd.DataTypes {
		dt, err := DecodeType(dtd)
		if err != nil {
			return nil, err
		}
		p.DataTypes = append(p.DataTypes, dt)
	}
	for _, gd := range pd.Globals {
		gb, err := decodeGlobalBlock(gd)
		if err != nil {
			return nil, err
		}
		p.Globals = append(p.Globals, gb)
	}
	for _, ld := range pd.Libraries {
		p.Libraries = append(p.Libraries, ir.LibraryReference{Name: ld.Name, Version: ld.Version, Vendor: ld.Vendor})
	}

	byName := map[string]*ir.POU{}
	parentOf := map[string]string{}
	for _, pdoc := range pd.POUs {
		pou, parent, err := decodePOU(pdoc)
		if err != nil {
			return nil, err
		}
		byName[pou.Name] = pou
		if parent != "" {
			parentOf[pou.Name] = parent
		}
		p.POUs = append(p.POUs, pou)
	}
	for name, parentName := range parentOf {
		parent, ok := byName[parentName]
		if !ok {
			return nil, fmt.Errorf("persist: POU %q references unknown parent %q", name, parentName)
		}
		byName[name].Parent = parent
	}
	return p, nil
}

func decodeController(cd *ControllerDoc) (*ir.Controller, error) {
	c := &ir.Controller{Name: cd.Name, Model: cd.Model, Vendor: cd.Vendor}
	for _, md := range cd.Modules {
		m := ir.Module{Name: md.Name, ModuleType: md.ModuleType, ModelNumber: md.ModelNumber}
		for _, iod := range md.IOPoints {
			dt, err := DecodeType(iod.DataType)
			if err != nil {
				return nil, err
			}
			dir, err := reverseLookup(ioDirectionNames, iod.Direction)
			if err != nil {
				return nil, err
			}
			m.IOPoints = append(m.IOPoints, ir.IOPoint{
				Address: iod.Address, DataType: dt, Direction: dir,
				Description: iod.Description, MappedVariable: iod.MappedVariable,
			})
		}
		c.Modules = append(c.Modules, m)
	}
	return c, nil
}

func decodeTask(td *TaskDoc) (*ir.Task, error) {
	kind, err := reverseLookup(scheduleKindNames, td.Schedule.Kind)
	if err != nil {
		return nil, err
	}
	sched := ir.Schedule{
		Kind: kind, Period: time.Duration(td.Schedule.PeriodNanos),
		EventSource: td.Schedule.EventSource, TriggerVariable: td.Schedule.TriggerVariable,
	}
	t, err := ir.NewTask(td.Name, sched, td.POURefs)
	if err != nil {
		return nil, err
	}
	t.Priority = td.Priority
	if td.Watchdog != nil {
		d := time.Duration(*td.Watchdog)
		t.Watchdog = &d
	}
	return t, nil
}

func decodeGlobalBlock(gd GlobalBlockDoc) (ir.GlobalBlock, error) {
	vars, err := decodeVariables(gd.Variables)
	if err != nil {
		return ir.GlobalBlock{}, err
	}
	return ir.GlobalBlock{Name: gd.Name, Description: gd.Description, Variables: vars}, nil
}

func decodeVariables(vds []VariableDoc) ([]ir.Variable, error) {
	out := make([]ir.Variable, len(vds))
	for i, vd := range vds {
		t, err := DecodeType(vd.Type)
		if err != nil {
			return nil, err
		}
		var init *types.Value
		if vd.Initial != nil {
			v, err := DecodeValue(vd.Initial)
			if err != nil {
				return nil, err
			}
			init = &v
		}
		out[i] = ir.Variable{
			Name: vd.Name, Type: t, Initial: init, Description: vd.Description,
			Retain: vd.Retain, Persistent: vd.Persistent, Address: vd.Address,
		}
	}
	return out, nil
}

func decodeBlocks(bds []DeclBlockDoc) (ir.Blocks, error) {
	out := make(ir.Blocks, len(bds))
	for i, bd := range bds {
		vars, err := decodeVariables(bd.Variables)
		if err != nil {
			return nil, err
		}
		role, err := reverseLookup(roleNames, bd.Role)
		if err != nil {
			return nil, err
		}
		out[i] = ir.DeclBlock{Role: role, Variables: vars}
	}
	return out, nil
}

// decodePOU decodes a POUDoc into an ir.POU, returning its declared
// parent's name separately since parent linkage happens only after every
// POU in a project has been decoded (a parent POU may appear later in
// document order than its child).
func decodePOU(pd *POUDoc) (*ir.POU, string, error) {
	blocks, err := decodeBlocks(pd.Blocks)
	if err != nil {
		return nil, "", err
	}
	body, err := DecodeStmts(pd.Body)
	if err != nil {
		return nil, "", err
	}
	var chart *ir.Chart
	if pd.Chart != nil {
		chart, err = decodeChart(pd.Chart)
		if err != nil {
			return nil, "", err
		}
	}
	var methods []*ir.POU
	for _, md := range pd.Methods {
		m, _, err := decodePOU(md)
		if err != nil {
			return nil, "", err
		}
		methods = append(methods, m)
	}
	var actions map[string][]ir.Stmt
	if pd.Actions != nil {
		actions = map[string][]ir.Stmt{}
		for name, ad := range pd.Actions {
			stmts, err := DecodeStmts(ad)
			if err != nil {
				return nil, "", err
			}
			actions[name] = stmts
		}
	}

	switch pd.Kind {
	case "function":
		rt, err := DecodeType(pd.ReturnType)
		if err != nil {
			return nil, "", err
		}
		pou, err := ir.NewFunction(pd.Name, blocks, rt, body)
		if err != nil {
			return nil, "", err
		}
		return pou, "", nil

	case "functionBlock":
		pou, err := ir.NewFunctionBlock(pd.Name, blocks, nil, body, chart, methods)
		if err != nil {
			return nil, "", err
		}
		pou.Actions = actions
		return pou, pd.Parent, nil

	case "program":
		pou, err := ir.NewProgram(pd.Name, blocks, body, chart)
		if err != nil {
			return nil, "", err
		}
		pou.Actions = actions
		return pou, "", nil

	default:
		return nil, "", fmt.Errorf("persist: unknown POU kind %q", pd.Kind)
	}
}

func decodeChart(cd *ChartDoc) (*ir.Chart, error) {
	steps := make([]ir.Step, len(cd.Steps))
	for i, sd := range cd.Steps {
		s, err := decodeStep(sd)
		if err != nil {
			return nil, err
		}
		steps[i] = s
	}
	transitions := make([]ir.Transition, len(cd.Transitions))
	for i, td := range cd.Transitions {
		cond, err := DecodeExpr(td.Condition)
		if err != nil {
			return nil, err
		}
		transitions[i] = ir.Transition{Source: td.Source, Target: td.Target, Condition: cond}
	}
	return ir.NewChart(steps, transitions)
}

func decodeStep(sd StepDoc) (ir.Step, error) {
	actions, err := decodeStepActions(sd.Actions)
	if err != nil {
		return ir.Step{}, err
	}
	entry, err := decodeStepActions(sd.EntryActions)
	if err != nil {
		return ir.Step{}, err
	}
	exit, err := decodeStepActions(sd.ExitActions)
	if err != nil {
		return ir.Step{}, err
	}
	return ir.Step{Name: sd.Name, Initial: sd.Initial, Actions: actions, EntryActions: entry, ExitActions: exit}, nil
}

func decodeStepActions(ads []StepActionDoc) ([]ir.StepAction, error) {
	out := make([]ir.StepAction, len(ads))
	for i, ad := range ads {
		body, err := DecodeStmts(ad.Body)
		if err != nil {
			return nil, err
		}
		q, err := reverseLookup(qualifierNames, ad.Qualifier)
		if err != nil {
			return nil, err
		}
		out[i] = ir.StepAction{Qualifier: q, Body: body, ActionName: ad.ActionName}
	}
	return out, nil
}
