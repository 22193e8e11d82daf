// Package registry defines the binding sink the registration engine
// emits into, plus two concrete stores: an in-memory registry with
// lookup-by-contract and a sqlite-backed snapshot for external tooling.
package registry

import (
	"strings"

	"github.com/prashanthbabu07/mediabind/internal/descriptor"
	"github.com/prashanthbabu07/mediabind/internal/typesystem"
)

// Lifetime describes how the container instantiates an implementation
// on resolution. The scanning pass only ever registers Transient.
type Lifetime string

const (
	Transient Lifetime = "transient"
	Singleton Lifetime = "singleton"
)

// Binding associates a contract with an implementation identity.
// Args nil marks a collector binding: the implementation is registered
// against the bare template, ignoring type arguments.
type Binding struct {
	Template       *descriptor.ContractTemplate
	Args           []typesystem.Type
	Implementation descriptor.Identity
}

// Collector reports whether the binding targets the unparameterized
// template.
func (b Binding) Collector() bool {
	return b.Args == nil
}

// ContractKey is the lookup key for the bound contract: the template
// name for collector bindings, the full instantiation otherwise.
func (b Binding) ContractKey() string {
	if b.Collector() {
		return b.Template.Name
	}
	args := make([]string, len(b.Args))
	for i, a := range b.Args {
		args[i] = a.String()
	}
	return b.Template.Name + "[" + strings.Join(args, ", ") + "]"
}

func (b Binding) String() string {
	return b.ContractKey() + " -> " + b.Implementation.String()
}

// Binder accepts binding requests from the registration engine. An
// error from Bind is fatal for the pass: the engine neither retries
// nor swallows it.
type Binder interface {
	Bind(b Binding, lifetime Lifetime) error
}
