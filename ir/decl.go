package ir

import "github.com/plx-lang/plx/types"

// VarRole mirrors descriptor.Role but lives in ir so the IR package has no
// dependency on the descriptor builder layer (POUs can also be built
// directly from ir.Variable without going through descriptors, e.g. when
// the inheritance-flattening pass merges a parent's declaration blocks).
type VarRole int

const (
	RoleInput VarRole = iota
	RoleOutput
	RoleInout
	RoleStatic
	RoleTemp
	RoleConstant
)

// Variable is a single, typed, named declaration (spec §3.3). Direction is
// not stored on the Variable itself — it is given only by which DeclBlock
// holds it.
type Variable struct {
	Name        string
	Type        types.Type
	Initial     *types.Value
	Description string
	Retain      bool
	Persistent  bool
	Address     string
}

// DeclBlock is an ordered, role-tagged group of variables (spec §3.3: "an
// ordered sequence of declaration blocks, each block tagged with its
// role... within a block, variables are ordered, uniquely named, and
// typed").
type DeclBlock struct {
	Role      VarRole
	Variables []Variable
}

// IndexOf returns the index of a variable by name within the block, or -1.
func (b DeclBlock) IndexOf(name string) int {
	for i, v := range b.Variables {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// Blocks is the ordered sequence of a POU's declaration blocks.
type Blocks []DeclBlock

// Find looks up a variable by name across every block, returning the
// owning block's role alongside the variable. The boolean result is false
// if no block declares that name.
func (bs Blocks) Find(name string) (Variable, VarRole, bool) {
	for _, b := range bs {
		if i := b.IndexOf(name); i >= 0 {
			return b.Variables[i], b.Role, true
		}
	}
	return Variable{}, 0, false
}

// Block returns the block with the given role, or a zero-value block with
// no variables if none exists.
func (bs Blocks) Block(role VarRole) DeclBlock {
	for _, b := range bs {
		if b.Role == role {
			return b
		}
	}
	return DeclBlock{Role: role}
}

// AppendVariable returns a new Blocks with v appended to the block of the
// given role (creating the block if absent), preserving immutability of
// the receiver (spec §3.6, §4.3: "modifications produce new nodes").
func (bs Blocks) AppendVariable(role VarRole, v Variable) Blocks {
	out := make(Blocks, 0, len(bs)+1)
	found := false
	for _, b := range bs {
		if b.Role == role {
			nb := DeclBlock{Role: role, Variables: append(append([]Variable{}, b.Variables...), v)}
			out = append(out, nb)
			found = true
		} else {
			out = append(out, b)
		}
	}
	if !found {
		out = append(out, DeclBlock{Role: role, Variables: []Variable{v}})
	}
	return out
}

// AllNames returns every declared variable name across all blocks, used by
// duplicate-name and shadowing checks.
func (bs Blocks) AllNames() map[string]VarRole {
	out := map[string]VarRole{}
	for _, b := range bs {
		for _, v := range b.Variables {
			out[v.Name] = b.Role
		}
	}
	return out
}
