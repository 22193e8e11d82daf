// Package resolve implements contract matching and the speculative
// closing of open generic candidates against closed contract
// instantiations.
package resolve

import (
	"github.com/prashanthbabu07/mediabind/internal/descriptor"
)

// Matcher answers which contract instantiations a candidate type
// implements for a given template. It resolves base-chain links
// through the descriptor set it was built with.
type Matcher struct {
	set *descriptor.Set
}

func NewMatcher(set *descriptor.Set) *Matcher {
	return &Matcher{set: set}
}

// FindClosingContracts returns every instantiation of tmpl the
// candidate implements, in discovery order: the candidate's own
// declarations first, then each ancestor's, walking the single
// base chain up to the universal root.
//
// A type may implement the same template several times with different
// type arguments; all of them are yielded. Duplicates are preserved
// here and collapsed by the caller. Malformed instantiations (argument
// count disagreeing with the template arity) are skipped.
func (m *Matcher) FindClosingContracts(cand *descriptor.TypeDescriptor, tmpl *descriptor.ContractTemplate) []descriptor.ContractInstantiation {
	if cand == nil || cand.Identity == descriptor.Root {
		return nil
	}

	var found []descriptor.ContractInstantiation
	visited := make(map[descriptor.Identity]bool)
	for cur := cand; cur != nil; {
		// A base chain that loops back on itself is malformed input;
		// stop at the revisit and keep what was found so far.
		if visited[cur.Identity] {
			break
		}
		visited[cur.Identity] = true

		switch tmpl.Kind {
		case descriptor.KindInterface:
			for _, inst := range cur.Contracts {
				if inst.Template.Name == tmpl.Name && !inst.Malformed() {
					found = append(found, inst)
				}
			}
		case descriptor.KindBase:
			if bc := cur.BaseContract; bc != nil && bc.Template.Name == tmpl.Name && !bc.Malformed() {
				found = append(found, *bc)
			}
		}

		if cur.Base == nil {
			break
		}
		next, ok := m.set.Lookup(*cur.Base)
		if !ok || next.Identity == descriptor.Root {
			break
		}
		cur = next
	}
	return found
}
