// Package project implements project assembly and cross-reference
// validation (spec §4.5, component E): name uniqueness within each
// namespace, task POU-reference resolution, struct/inheritance cycle
// checks, and the hardware/library/watchdog validations SPEC_FULL.md §E
// adds. It is grounded on the teacher compiler's bootstrap/depm package —
// specifically infinite.go's three-color DFS, generalized here from a
// type-reference graph to plx's two graphs (struct field types,
// function-block inheritance).
package project

import (
	"go.uber.org/multierr"

	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/types"
)

// Compile validates a fully-lowered Project and returns it unchanged on
// success, or an aggregate error listing every violation found (spec §4.5:
// "best-effort multi-error reporting; compilation does not short-circuit on
// the first failure").
func Compile(p *ir.Project) (*ir.Project, error) {
	batch := &report.Batch{}

	checkNameUniqueness(p, batch)
	checkTaskReferences(p, batch)
	checkTypeReferences(p, batch)
	checkStructDependencyDAG(p, batch)
	checkInheritanceDAG(p, batch)
	checkHardware(p, batch)
	checkWatchdogs(p, batch)

	if err := batch.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// checkNameUniqueness validates name uniqueness within each namespace
// (POU, data type, global, task), spec §3.5/§4.5.
func checkNameUniqueness(p *ir.Project, batch *report.Batch) {
	pouNames := map[string]bool{}
	for _, pou := range p.POUs {
		if pouNames[pou.Name] {
			batch.Add(report.New(report.DuplicateName, nil, "duplicate POU name %q", pou.Name))
		}
		pouNames[pou.Name] = true
	}

	typeNames := map[string]bool{}
	for _, t := range p.DataTypes {
		name := typeName(t)
		if name == "" {
			continue
		}
		if typeNames[name] {
			batch.Add(report.New(report.DuplicateName, nil, "duplicate data type name %q", name))
		}
		typeNames[name] = true
	}

	globalNames := map[string]bool{}
	for _, gb := range p.Globals {
		for _, v := range gb.Variables {
			if globalNames[v.Name] {
				batch.Add(report.New(report.DuplicateName, nil, "duplicate global variable name %q", v.Name))
			}
			globalNames[v.Name] = true
		}
	}

	taskNames := map[string]bool{}
	for _, t := range p.Tasks {
		if taskNames[t.Name] {
			batch.Add(report.New(report.DuplicateName, nil, "duplicate task name %q", t.Name))
		}
		taskNames[t.Name] = true
	}
}

// typeName extracts the user-facing name of a named data type (struct,
// enum, alias, subrange); unnamed/structural types contribute nothing to
// the namespace.
func typeName(t types.Type) string {
	switch v := t.(type) {
	case types.StructType:
		return v.Name
	case types.EnumType:
		return v.Name
	case types.AliasType:
		return v.Name
	case types.SubrangeType:
		return v.Name
	default:
		return ""
	}
}

// checkTaskReferences validates that every task's POU references exist
// (spec §4.5).
func checkTaskReferences(p *ir.Project, batch *report.Batch) {
	for _, t := range p.Tasks {
		for _, ref := range t.POURefs {
			if _, ok := p.POUByName(ref); !ok {
				batch.Add(report.New(report.DanglingReference, nil, "task %q references undeclared POU %q", t.Name, ref))
			}
		}
		if t.Schedule.Kind == ir.ScheduleEvent && t.Schedule.TriggerVariable != "" {
			if _, _, ok := p.GlobalVariable(t.Schedule.TriggerVariable); !ok {
				batch.Add(report.New(report.DanglingReference, nil, "task %q trigger variable %q is not a declared global", t.Name, t.Schedule.TriggerVariable))
			}
		}
	}
}

// checkTypeReferences validates that every POU's variable types resolve:
// a named struct, enum, alias, or subrange type must be one of the
// project's own declared data types (spec §4.5: "every POU's type
// references resolve"). Each POU is checked independently and its
// violations combined with multierr before being folded into the shared
// batch, matching the teacher's composable per-unit error aggregation.
func checkTypeReferences(p *ir.Project, batch *report.Batch) {
	known := map[string]bool{}
	for _, t := range p.DataTypes {
		if name := typeName(t); name != "" {
			known[name] = true
		}
	}

	var combined error
	for _, pou := range p.POUs {
		combined = multierr.Append(combined, checkPOUTypeReferences(pou, known))
	}
	for _, err := range multierr.Errors(combined) {
		if ce, ok := err.(*report.CompileError); ok {
			batch.Add(ce)
		}
	}
}

func checkPOUTypeReferences(pou *ir.POU, known map[string]bool) error {
	var combined error
	for _, b := range pou.Blocks {
		for _, v := range b.Variables {
			if name := unresolvedNamedType(v.Type, known); name != "" {
				combined = multierr.Append(combined, report.New(report.DanglingReference, nil,
					"%s.%s references undeclared type %q", pou.Name, v.Name, name))
			}
		}
	}
	return combined
}

// unresolvedNamedType returns the referenced type name if t names a
// user-defined type not present in known, descending through arrays so an
// `ARRAY[0..9] OF Widget` with an undeclared Widget is also caught.
func unresolvedNamedType(t types.Type, known map[string]bool) string {
	switch v := types.Underlying(t).(type) {
	case types.StructType:
		if !known[v.Name] {
			return v.Name
		}
	case types.EnumType:
		if !known[v.Name] {
			return v.Name
		}
	case types.ArrayType:
		return unresolvedNamedType(v.Element, known)
	}
	return ""
}

// checkStructDependencyDAG verifies the struct field-type dependency graph
// is acyclic (spec §3.5, §4.5), using the teacher's three-color DFS
// (bootstrap/depm/infinite.go) over struct->struct field references.
func checkStructDependencyDAG(p *ir.Project, batch *report.Batch) {
	byName := map[string]types.StructType{}
	for _, t := range p.DataTypes {
		if st, ok := types.Underlying(t).(types.StructType); ok {
			byName[st.Name] = st
		}
	}

	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := map[string]int{}

	var visit func(name string) bool
	visit = func(name string) bool {
		switch color[name] {
		case black:
			return true
		case grey:
			color[name] = black
			return false
		}
		color[name] = grey
		st, ok := byName[name]
		if !ok {
			color[name] = black
			return true
		}
		for _, f := range st.Fields {
			if dep, ok := structDependency(f.Type, byName); ok {
				if !visit(dep) {
					return false
				}
			}
		}
		color[name] = black
		return true
	}

	for name := range byName {
		if color[name] != black {
			if !visit(name) {
				batch.Add(report.New(report.InheritanceCycle, nil, "struct field-type dependency cycle detected at %q", name))
			}
		}
	}
}

// structDependency reports the directly-referenced struct name of a field
// type, if any (pointers are not followed — a pointer to a struct is not a
// storage-containment dependency, matching the teacher's "pointers and
// primitives aren't searched").
func structDependency(t types.Type, known map[string]types.StructType) (string, bool) {
	switch v := types.Underlying(t).(type) {
	case types.StructType:
		if _, ok := known[v.Name]; ok {
			return v.Name, true
		}
	case types.ArrayType:
		return structDependency(v.Element, known)
	}
	return "", false
}

// checkInheritanceDAG verifies the function-block inheritance graph is
// acyclic (spec §3.5, §4.4, §4.5), reusing the same three-color DFS shape
// over Parent links rather than struct fields.
func checkInheritanceDAG(p *ir.Project, batch *report.Batch) {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := map[string]int{}

	var visit func(pou *ir.POU) bool
	visit = func(pou *ir.POU) bool {
		switch color[pou.Name] {
		case black:
			return true
		case grey:
			color[pou.Name] = black
			return false
		}
		color[pou.Name] = grey
		if pou.Parent != nil {
			if !visit(pou.Parent) {
				return false
			}
		}
		color[pou.Name] = black
		return true
	}

	for _, pou := range p.POUs {
		if pou.Kind != ir.KindFunctionBlock {
			continue
		}
		if color[pou.Name] != black {
			if !visit(pou) {
				batch.Add(report.New(report.InheritanceCycle, nil, "function-block inheritance cycle detected at %q", pou.Name))
			}
		}
	}
}

// checkHardware validates that every IOPoint's MappedVariable, if set,
// resolves to a declared global variable or a variable of some task-bound
// POU (SPEC_FULL.md §E/§H).
func checkHardware(p *ir.Project, batch *report.Batch) {
	if p.Controller == nil {
		return
	}

	taskBound := map[string]bool{}
	for _, t := range p.Tasks {
		for _, ref := range t.POURefs {
			taskBound[ref] = true
		}
	}

	resolves := func(name string) bool {
		if _, _, ok := p.GlobalVariable(name); ok {
			return true
		}
		for pouName := range taskBound {
			pou, ok := p.POUByName(pouName)
			if !ok {
				continue
			}
			if _, _, found := pou.Blocks.Find(name); found {
				return true
			}
		}
		return false
	}

	for _, m := range p.Controller.Modules {
		for _, io := range m.IOPoints {
			if io.MappedVariable == "" {
				continue
			}
			if !resolves(io.MappedVariable) {
				batch.Add(report.New(report.DanglingReference, nil, "I/O point %q on module %q maps to undeclared variable %q", io.Address, m.Name, io.MappedVariable))
			}
		}
	}
}

// checkWatchdogs validates that every task's watchdog, when present, is
// strictly positive (SPEC_FULL.md §E, same rule as InvalidSchedule for a
// task period).
func checkWatchdogs(p *ir.Project, batch *report.Batch) {
	for _, t := range p.Tasks {
		if t.Watchdog != nil && *t.Watchdog <= 0 {
			batch.Add(report.New(report.InvalidSchedule, nil, "task %q watchdog must be strictly positive", t.Name))
		}
	}
}
