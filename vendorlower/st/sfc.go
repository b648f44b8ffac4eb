package st

import (
	"fmt"

	"github.com/plx-lang/plx/ir"
)

var qualifierName = map[ir.ActionQualifier]string{
	ir.QualN: "N", ir.QualR: "R", ir.QualS: "S", ir.QualP: "P",
	ir.QualL: "L", ir.QualD: "D", ir.QualP0: "P0", ir.QualP1: "P1",
	ir.QualSD: "SD", ir.QualDS: "DS", ir.QualSL: "SL",
}

// inlineAction names a step action that carries its own statement body
// rather than referencing a POU-level named action (ir.StepAction.Body
// set, ActionName empty). IEC SFC associations always name an action, so
// this emitter synthesizes one and writes it as its own ACTION block
// after the enclosing POU's END_ line, preserving the body losslessly.
type inlineAction struct {
	name string
	body []ir.Stmt
}

func (w *writer) chart(chart *ir.Chart) []inlineAction {
	var inline []inlineAction

	for _, step := range chart.Steps {
		inline = append(inline, w.step(step)...)
		w.blank()
	}

	for _, t := range chart.Transitions {
		w.line(fmt.Sprintf("TRANSITION FROM %s TO %s", t.Source, t.Target))
		w.indentInc()
		w.line(fmt.Sprintf(":= %s;", w.expr(t.Condition, 0)))
		w.indentDec()
		w.line("END_TRANSITION")
		w.blank()
	}

	return inline
}

func (w *writer) step(step ir.Step) []inlineAction {
	var inline []inlineAction

	keyword := "STEP"
	if step.Initial {
		keyword = "INITIAL_STEP"
	}
	w.line(fmt.Sprintf("%s %s:", keyword, step.Name))
	w.indentInc()

	emit := func(actions []ir.StepAction, phase string, counter *int) {
		for _, a := range actions {
			name, synth := w.stepActionLabel(step.Name, phase, a, *counter)
			if synth != nil {
				inline = append(inline, *synth)
				*counter++
			}
			assoc := fmt.Sprintf("%s(%s);", name, qualifierName[a.Qualifier])
			if phase != "" {
				assoc += " // " + phase
			}
			w.line(assoc)
		}
	}

	entryCounter, mainCounter, exitCounter := 0, 0, 0
	emit(step.EntryActions, "entry", &entryCounter)
	emit(step.Actions, "", &mainCounter)
	emit(step.ExitActions, "exit", &exitCounter)

	w.indentDec()
	w.line("END_STEP")
	return inline
}

func (w *writer) stepActionLabel(stepName, phase string, a ir.StepAction, counter int) (string, *inlineAction) {
	if a.ActionName != "" {
		return a.ActionName, nil
	}
	tag := phase
	if tag == "" {
		tag = "main"
	}
	name := fmt.Sprintf("%s_%s_%d", stepName, tag, counter)
	return name, &inlineAction{name: name, body: a.Body}
}

func (w *writer) pouAction(pouName, actionName string, body []ir.Stmt) {
	w.line(fmt.Sprintf("ACTION %s.%s:", pouName, actionName))
	w.indentInc()
	w.stmts(body)
	w.indentDec()
	w.line("END_ACTION")
}
