package ir

import "fmt"

// ActionQualifier is an IEC 61131-3 SFC action qualifier (SPEC_FULL.md §3
// supplement, grounded on original_source/model/sfc.py). N and P are
// executed distinctly by the simulator (sim package); the rest are
// preserved losslessly for vendor emission but not separately simulated,
// consistent with spec §9's deferral of full parallel-branch SFC support.
type ActionQualifier int

const (
	QualN ActionQualifier = iota // non-stored: active while step is active
	QualR                        // reset
	QualS                        // set (stored)
	QualP                        // pulse: single execution on step entry
	QualL                        // time-limited
	QualD                        // time-delayed
	QualP0                       // pulse on deactivation
	QualP1                       // pulse on activation
	QualSD                       // stored and time-delayed
	QualDS                       // delayed and stored
	QualSL                       // stored and time-limited
)

// StepAction is one action attached to a Step, with its qualifier and
// either an inline body or a reference to a POU-level named action
// (SPEC_FULL.md §3, mirroring original_source's Action.action_name).
type StepAction struct {
	Qualifier  ActionQualifier
	Body       []Stmt
	ActionName string // set instead of Body to reference POU.Actions[ActionName]
}

// Step is one node of an SFC graph (spec §3.4).
type Step struct {
	Name          string
	Initial       bool
	Actions       []StepAction
	EntryActions  []StepAction // supplemental: run once on activation
	ExitActions   []StepAction // supplemental: run once on deactivation
}

// Transition is one edge of an SFC graph (spec §3.4). Exactly one source
// and one target step, matching spec.md's definition; parallel
// (multi-source/multi-target) transitions are an explicit Open Question
// deferral (spec §9) and are not represented here.
type Transition struct {
	Source    string
	Target    string
	Condition Expr
}

// Chart is a Sequential Function Chart: a directed graph of steps and
// transitions (spec §3.4).
type Chart struct {
	Steps       []Step
	Transitions []Transition
}

// NewChart validates the structural invariants spec §3.4 lists: every step
// has a unique name; exactly one step is initial; every transition
// references existing steps; the graph is weakly connected; the initial
// step reaches every other step.
func NewChart(steps []Step, transitions []Transition) (*Chart, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("chart must have at least one step")
	}

	byName := map[string]bool{}
	var initial string
	initialCount := 0
	for _, s := range steps {
		if byName[s.Name] {
			return nil, fmt.Errorf("duplicate step name %q", s.Name)
		}
		byName[s.Name] = true
		if s.Initial {
			initialCount++
			initial = s.Name
		}
	}
	if initialCount != 1 {
		return nil, fmt.Errorf("chart must have exactly one initial step, found %d", initialCount)
	}

	adjacency := map[string][]string{}
	undirected := map[string][]string{}
	for _, t := range transitions {
		if !byName[t.Source] {
			return nil, fmt.Errorf("transition references unknown source step %q", t.Source)
		}
		if !byName[t.Target] {
			return nil, fmt.Errorf("transition references unknown target step %q", t.Target)
		}
		adjacency[t.Source] = append(adjacency[t.Source], t.Target)
		undirected[t.Source] = append(undirected[t.Source], t.Target)
		undirected[t.Target] = append(undirected[t.Target], t.Source)
	}

	if len(steps) > 1 {
		visited := map[string]bool{initial: true}
		queue := []string{initial}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range undirected[cur] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		for name := range byName {
			if !visited[name] {
				return nil, fmt.Errorf("chart is not weakly connected: step %q is unreachable", name)
			}
		}

		reach := map[string]bool{initial: true}
		queue = []string{initial}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range adjacency[cur] {
				if !reach[n] {
					reach[n] = true
					queue = append(queue, n)
				}
			}
		}
		for name := range byName {
			if !reach[name] {
				return nil, fmt.Errorf("initial step %q cannot reach step %q", initial, name)
			}
		}
	}

	return &Chart{Steps: steps, Transitions: transitions}, nil
}

// InitialStep returns the chart's unique initial step.
func (c *Chart) InitialStep() Step {
	for _, s := range c.Steps {
		if s.Initial {
			return s
		}
	}
	return Step{}
}

// StepByName looks up a step by name.
func (c *Chart) StepByName(name string) (Step, bool) {
	for _, s := range c.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// OutgoingTransitions returns transitions leaving a step, in declaration
// order (spec §4.6: "Simultaneous firings resolved by transition
// declaration order").
func (c *Chart) OutgoingTransitions(step string) []Transition {
	var out []Transition
	for _, t := range c.Transitions {
		if t.Source == step {
			out = append(out, t)
		}
	}
	return out
}
