// Package descriptor implements the variable descriptor layer (spec §3.3,
// §4.1, component C): the compile-time record of a POU's declared
// inputs/outputs/locals, consumed by the POU builder when it groups
// descriptors into ordered declaration blocks.
//
// It is grounded on two teacher patterns: the marker-object builder
// functions of original_source/framework/_descriptors.py (input_var,
// output_var, ...) and the lightweight record shape of the teacher
// compiler's depm.Symbol (name/type/definition-kind/attributes, no
// behavior).
package descriptor

import "github.com/plx-lang/plx/types"

// Role is the declaration-block role a descriptor belongs to (spec §3.3:
// "Direction/scope is not an attribute of a variable — it is determined by
// which block contains it").
type Role int

const (
	RoleInput Role = iota
	RoleOutput
	RoleInout
	RoleStatic
	RoleTemp
	RoleConstant
)

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	case RoleInout:
		return "inout"
	case RoleStatic:
		return "static"
	case RoleTemp:
		return "temp"
	case RoleConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Descriptor is the lightweight record spec §4.1 describes: "{ role, type,
// initial?, description? }". It is discarded once the POU builder groups
// descriptors into declaration blocks — it carries no behavior of its own.
type Descriptor struct {
	Name        string
	Role        Role
	Type        types.Type
	Initial     *types.Value
	Description string
	Retain      bool
	Persistent  bool
	Address     string // optional vendor I/O address, e.g. "%IX0.0"
}

func new_(name string, role Role, t types.Type, opts []Option) Descriptor {
	d := Descriptor{Name: name, Role: role, Type: t}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Option configures optional descriptor attributes.
type Option func(*Descriptor)

// Initial sets the descriptor's compile-time-constant initial value. POU
// construction rejects a descriptor whose Initial is not assignable to its
// declared Type (spec §4.1).
func Initial(v types.Value) Option {
	return func(d *Descriptor) { d.Initial = &v }
}

// Description attaches documentation text to the descriptor.
func Description(s string) Option {
	return func(d *Descriptor) { d.Description = s }
}

// Retain marks the descriptor as retained across power cycles (vendor
// attribute, SPEC_FULL.md §B supplement).
func Retain() Option {
	return func(d *Descriptor) { d.Retain = true }
}

// Persistent marks the descriptor as persistent storage (vendor attribute,
// SPEC_FULL.md §B supplement).
func Persistent() Option {
	return func(d *Descriptor) { d.Persistent = true }
}

// Address attaches a vendor I/O address to the descriptor.
func Address(addr string) Option {
	return func(d *Descriptor) { d.Address = addr }
}

// Input declares an input-block variable.
func Input(name string, t types.Type, opts ...Option) Descriptor {
	return new_(name, RoleInput, t, opts)
}

// Output declares an output-block variable.
func Output(name string, t types.Type, opts ...Option) Descriptor {
	return new_(name, RoleOutput, t, opts)
}

// Inout declares an inout-block variable (a reference, spec §3.3).
func Inout(name string, t types.Type, opts ...Option) Descriptor {
	return new_(name, RoleInout, t, opts)
}

// Static declares a static-local-block variable (persists across scans).
func Static(name string, t types.Type, opts ...Option) Descriptor {
	return new_(name, RoleStatic, t, opts)
}

// Temp declares a temp-block variable (scan-scratch, not persisted).
func Temp(name string, t types.Type, opts ...Option) Descriptor {
	return new_(name, RoleTemp, t, opts)
}

// Constant declares a constant-block variable; its Initial must be set.
func Constant(name string, t types.Type, opts ...Option) Descriptor {
	return new_(name, RoleConstant, t, opts)
}

// Set is an ordered collection of descriptors captured in declaration
// order (spec §4.1: "captured in declaration order"), as produced by a POU
// class body or builder call sequence before being grouped by role.
type Set []Descriptor

// GroupByRole splits the set into per-role ordered slices, preserving
// within-role declaration order, ready for ir.NewPOU's declaration blocks.
func (s Set) GroupByRole() map[Role][]Descriptor {
	out := map[Role][]Descriptor{}
	for _, d := range s {
		out[d.Role] = append(out[d.Role], d)
	}
	return out
}
