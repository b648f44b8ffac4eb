package sim

import "github.com/plx-lang/plx/ir"

// Runtime indexes a project's POUs by name so a running instance can call a
// plain function, invoke a self method ("POU.method"-qualified per
// lower/call.go), or instantiate another function-block it references,
// without the instance record itself needing to carry project-wide
// knowledge.
type Runtime struct {
	project *ir.Project
	pous    map[string]*ir.POU
}

// NewRuntime indexes every POU in p for lookup during simulation.
func NewRuntime(p *ir.Project) *Runtime {
	rt := &Runtime{project: p, pous: map[string]*ir.POU{}}
	if p == nil {
		return rt
	}
	for _, pou := range p.POUs {
		rt.pous[pou.Name] = pou
	}
	return rt
}

// POU looks up a project POU by its bare name.
func (rt *Runtime) POU(name string) (*ir.POU, bool) {
	pou, ok := rt.pous[name]
	return pou, ok
}
