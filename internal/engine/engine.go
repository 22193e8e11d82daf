// Package engine orchestrates a registration pass: it scans the
// candidate descriptor set once per contract template, finds exact and
// closable implementations, and forwards the resulting bindings to the
// registry.
package engine

import (
	"github.com/prashanthbabu07/mediabind/internal/descriptor"
	"github.com/prashanthbabu07/mediabind/internal/resolve"
	"github.com/prashanthbabu07/mediabind/internal/registry"
)

// Engine runs registration passes over a fixed candidate set. Apart
// from the per-pass swallowed count, it holds no state across calls;
// every invocation is a pure function of its inputs plus the bindings
// forwarded to the binder.
type Engine struct {
	set     *descriptor.Set
	matcher *resolve.Matcher
	binder  registry.Binder

	swallowed int
}

func New(set *descriptor.Set, binder registry.Binder) *Engine {
	return &Engine{
		set:     set,
		matcher: resolve.NewMatcher(set),
		binder:  binder,
	}
}

// Register scans the candidate set for every single-implementation
// template and every collector template, emitting bindings in
// discovery order. Speculative closing failures are swallowed; binder
// errors abort the pass and propagate.
func (e *Engine) Register(templates, collectors []*descriptor.ContractTemplate) ([]registry.Binding, error) {
	e.swallowed = 0
	var emitted []registry.Binding

	emit := func(b registry.Binding) error {
		if err := e.binder.Bind(b, registry.Transient); err != nil {
			return err
		}
		emitted = append(emitted, b)
		return nil
	}

	for _, tmpl := range templates {
		if err := e.registerTemplate(tmpl, emit); err != nil {
			return nil, err
		}
	}
	for _, tmpl := range collectors {
		if err := e.registerCollector(tmpl, emit); err != nil {
			return nil, err
		}
	}
	return emitted, nil
}

// Swallowed reports how many closing attempts the most recent pass
// rejected. Failed closings are expected; the count exists for scan
// diagnostics only.
func (e *Engine) Swallowed() int {
	return e.swallowed
}

// scan partitions the candidate set for one template: concrete
// implementers (deduplicated by identity) and the distinct contract
// instantiations discovered on any candidate (deduplicated by
// equality, first occurrence wins).
func (e *Engine) scan(tmpl *descriptor.ContractTemplate) ([]*descriptor.TypeDescriptor, []descriptor.ContractInstantiation, map[descriptor.Identity][]descriptor.ContractInstantiation) {
	var concretions []*descriptor.TypeDescriptor
	var instantiations []descriptor.ContractInstantiation
	matches := make(map[descriptor.Identity][]descriptor.ContractInstantiation)
	seenConcrete := make(map[descriptor.Identity]bool)

	for _, cand := range e.set.All() {
		found := e.matcher.FindClosingContracts(cand, tmpl)
		if len(found) == 0 {
			continue
		}
		matches[cand.Identity] = found

		if cand.Concrete && !seenConcrete[cand.Identity] {
			seenConcrete[cand.Identity] = true
			concretions = append(concretions, cand)
		}
		for _, inst := range found {
			if !containsInstantiation(instantiations, inst) {
				instantiations = append(instantiations, inst)
			}
		}
	}
	return concretions, instantiations, matches
}

func (e *Engine) registerTemplate(tmpl *descriptor.ContractTemplate, emit func(registry.Binding) error) error {
	concretions, instantiations, matches := e.scan(tmpl)

	for _, inst := range instantiations {
		// Exact matches: closed concretions structurally satisfying the
		// instantiation. Multiple implementations of the same contract
		// are all registered; resolution order is the registry's call.
		for _, c := range concretions {
			if c.OpenGeneric() {
				continue
			}
			if containsInstantiation(matches[c.Identity], inst) {
				if err := emit(binding(inst, c.Identity)); err != nil {
					return err
				}
			}
		}

		// Closing attempts: only fully closed instantiations can close
		// an open concretion. Failed attempts are expected and skipped.
		if !inst.Closed() {
			continue
		}
		for _, c := range concretions {
			if !c.OpenGeneric() || !e.matcher.CouldClose(c, inst) {
				continue
			}
			closed, err := e.matcher.Close(c, inst)
			if err != nil {
				e.swallowed++
				continue
			}
			if err := emit(binding(inst, closed.Identity)); err != nil {
				return err
			}
		}
	}
	return nil
}

// registerCollector binds every concrete implementer of the template
// against its unparameterized form, one binding per implementation.
// Type-argument distinctions are ignored and there is no closing phase.
func (e *Engine) registerCollector(tmpl *descriptor.ContractTemplate, emit func(registry.Binding) error) error {
	seen := make(map[descriptor.Identity]bool)
	for _, cand := range e.set.All() {
		if !cand.Concrete || seen[cand.Identity] {
			continue
		}
		if len(e.matcher.FindClosingContracts(cand, tmpl)) == 0 {
			continue
		}
		seen[cand.Identity] = true
		if err := emit(registry.Binding{Template: tmpl, Implementation: cand.Identity}); err != nil {
			return err
		}
	}
	return nil
}

func binding(inst descriptor.ContractInstantiation, impl descriptor.Identity) registry.Binding {
	return registry.Binding{
		Template:       inst.Template,
		Args:           inst.Args,
		Implementation: impl,
	}
}

func containsInstantiation(insts []descriptor.ContractInstantiation, inst descriptor.ContractInstantiation) bool {
	for _, have := range insts {
		if have.Equal(inst) {
			return true
		}
	}
	return false
}
