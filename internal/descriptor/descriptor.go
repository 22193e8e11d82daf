// Package descriptor defines the normalized, language-neutral view of
// candidate types and the contracts they implement.
//
// Descriptors are plain data built once per pass by a host adapter
// (internal/gopkg, internal/protodesc, or synthetic tables in tests);
// the matching and closing algorithms never touch live reflection.
package descriptor

import (
	"fmt"
	"strings"

	"github.com/prashanthbabu07/mediabind/internal/typesystem"
)

// Identity uniquely names a type: its declared name plus the module
// that defines it.
type Identity struct {
	Name   string
	Module string
}

func (id Identity) String() string {
	if id.Module != "" {
		return id.Module + "." + id.Name
	}
	return id.Name
}

// Root is the identity of the universal root type. It terminates every
// base chain and never implements anything.
var Root = Identity{Name: "Object", Module: "core"}

// TemplateKind distinguishes how a contract is declared by its
// implementers.
type TemplateKind int

const (
	// KindInterface contracts appear in a type's declared contract list.
	KindInterface TemplateKind = iota
	// KindBase contracts are satisfied through a type's generic parent.
	KindBase
)

// ContractTemplate is the unparameterized shape of a capability
// contract (e.g. RequestHandler over 2 parameters).
type ContractTemplate struct {
	Name  string
	Arity int
	Kind  TemplateKind
}

func (t *ContractTemplate) String() string {
	if t.Arity == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s/%d", t.Name, t.Arity)
}

// ContractInstantiation is a contract template applied to type
// arguments. Arguments may still contain free type variables when the
// declaring type is itself open.
type ContractInstantiation struct {
	Template *ContractTemplate
	Args     []typesystem.Type
}

func (c ContractInstantiation) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", c.Template.Name, strings.Join(args, ", "))
}

// Equal reports whether two instantiations denote the same contract:
// same template and pairwise-equal type arguments.
func (c ContractInstantiation) Equal(other ContractInstantiation) bool {
	if c.Template.Name != other.Template.Name {
		return false
	}
	if len(c.Args) != len(other.Args) {
		return false
	}
	for i := range c.Args {
		if !typesystem.Equal(c.Args[i], other.Args[i]) {
			return false
		}
	}
	return true
}

// Closed reports whether all type arguments are fully concrete.
func (c ContractInstantiation) Closed() bool {
	for _, a := range c.Args {
		if !typesystem.Closed(a) {
			return false
		}
	}
	return true
}

// Malformed reports an argument count that disagrees with the template
// arity. Malformed instantiations are treated as no-match, not errors.
func (c ContractInstantiation) Malformed() bool {
	return len(c.Args) != c.Template.Arity
}

// Apply returns the instantiation with the substitution applied to
// every type argument.
func (c ContractInstantiation) Apply(s typesystem.Subst) ContractInstantiation {
	args := make([]typesystem.Type, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Apply(s)
	}
	return ContractInstantiation{Template: c.Template, Args: args}
}

// TypeDescriptor is the read-only snapshot of a candidate type.
type TypeDescriptor struct {
	Identity Identity

	// Concrete is true iff the type is neither abstract nor itself a
	// contract, i.e. eligible for direct instantiation.
	Concrete bool

	// TypeParams are the type's own free type parameters, in
	// declaration order. A non-empty list marks the type as open.
	TypeParams []typesystem.TVar

	// Contracts lists the contract instantiations the type declares
	// directly, in declaration order.
	Contracts []ContractInstantiation

	// Base names the single parent type, nil when the parent is the
	// universal root. It is a weak reference resolved through a Set.
	Base *Identity

	// BaseContract records how the type instantiates a generic parent,
	// nil when the parent is not a contract template.
	BaseContract *ContractInstantiation
}

// OpenGeneric reports whether the type still has unbound parameters.
func (d *TypeDescriptor) OpenGeneric() bool {
	return len(d.TypeParams) > 0
}
