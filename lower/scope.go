package lower

import (
	"github.com/plx-lang/plx/ast"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/types"
)

// Scope carries the name-resolution context for one POU method (spec §4.2
// step 3): the enclosing POU's declared variables (reachable only through
// `self.X`, per spec.md's literal wording), loop-induction locals
// introduced by `for`, the POU's method children (reachable via
// `self.method_name()`), the nearest ancestor's unlowered logic body (for
// `super().logic()`), and the enum types visible for qualified
// variant references (`Color.Red`).
type Scope struct {
	POUName string

	varTypes map[string]types.Type
	locals   []map[string]types.Type

	Methods    map[string]*ast.Block
	ParentBody *ast.Block

	KnownEnums map[string]types.EnumType

	// FuncReturnTypes maps a qualified callee name ("POU.method" for
	// methods, or a bare function POU's name) to its declared return type,
	// supplied by the caller (project/) which has visibility across every
	// POU in the project — a single method's lowering cannot otherwise know
	// another POU's signature.
	FuncReturnTypes map[string]types.Type
}

// NewScope builds a Scope from a POU's declaration blocks and method/parent
// references.
func NewScope(pouName string, blocks ir.Blocks, methods map[string]*ast.Block, parentBody *ast.Block, knownEnums map[string]types.EnumType, funcReturnTypes map[string]types.Type) *Scope {
	vt := map[string]types.Type{}
	for name, role := range blocks.AllNames() {
		v, _, _ := blocks.Find(name)
		_ = role
		vt[name] = v.Type
	}
	return &Scope{
		POUName:         pouName,
		varTypes:        vt,
		Methods:         methods,
		ParentBody:      parentBody,
		KnownEnums:      knownEnums,
		FuncReturnTypes: funcReturnTypes,
	}
}

// PushLocal introduces a local binding (a for-loop induction variable) that
// shadows any self-variable of the same bare name for the duration of the
// loop body.
func (s *Scope) PushLocal(name string, t types.Type) {
	s.locals = append(s.locals, map[string]types.Type{name: t})
}

// PopLocal removes the most recently pushed local binding.
func (s *Scope) PopLocal() {
	s.locals = s.locals[:len(s.locals)-1]
}

// LookupLocal resolves a bare identifier against the local-binding stack
// only (used for `for`-loop induction variables, which are referenced
// without a `self.` prefix).
func (s *Scope) LookupLocal(name string) (types.Type, bool) {
	for i := len(s.locals) - 1; i >= 0; i-- {
		if t, ok := s.locals[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// LookupSelf resolves `self.name` against the enclosing POU's declared
// variables (spec §4.2 step 3).
func (s *Scope) LookupSelf(name string) (types.Type, bool) {
	t, ok := s.varTypes[name]
	return t, ok
}
