package registry

import (
	"fmt"

	"github.com/google/uuid"
)

// Entry is a registered binding together with its registry metadata.
type Entry struct {
	ID       string
	Binding  Binding
	Lifetime Lifetime
}

// bindingKey identifies a (contract, implementation) pair without
// relying on any separator character that could appear in either part.
type bindingKey struct {
	contract       string
	implementation string
}

// InMemory is an append-only registry populated single-threaded during
// the scanning pass and read afterwards. A second Bind of the same
// (contract, implementation) pair is rejected.
type InMemory struct {
	entries []Entry
	byKey   map[string][]Entry
	seen    map[bindingKey]bool
}

func NewInMemory() *InMemory {
	return &InMemory{
		byKey: make(map[string][]Entry),
		seen:  make(map[bindingKey]bool),
	}
}

func (r *InMemory) Bind(b Binding, lifetime Lifetime) error {
	key := b.ContractKey()
	pair := bindingKey{contract: key, implementation: b.Implementation.String()}
	if r.seen[pair] {
		return fmt.Errorf("duplicate binding: %s", b)
	}
	r.seen[pair] = true

	entry := Entry{ID: uuid.NewString(), Binding: b, Lifetime: lifetime}
	r.entries = append(r.entries, entry)
	r.byKey[key] = append(r.byKey[key], entry)
	return nil
}

// Lookup returns all entries bound to the contract key, in
// registration order. Resolution order among multiple implementations
// is the caller's concern; the registry only preserves insertion.
func (r *InMemory) Lookup(contractKey string) []Entry {
	return r.byKey[contractKey]
}

// Entries returns every registered entry in registration order.
func (r *InMemory) Entries() []Entry {
	return r.entries
}

// Len returns the number of registered bindings.
func (r *InMemory) Len() int {
	return len(r.entries)
}
