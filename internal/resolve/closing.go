package resolve

import (
	"fmt"
	"strings"

	"github.com/prashanthbabu07/mediabind/internal/descriptor"
	"github.com/prashanthbabu07/mediabind/internal/typesystem"
)

// CouldClose reports whether the open candidate might be closed over
// the given closed contract. The check is deliberately cheap and
// permissive: the candidate must be structurally assignable to the
// open form of the contract, and the contract must supply at least as
// many type arguments as the candidate has free parameters. It does
// not prove that the arguments line up positionally; Close rejects
// the combinations that do not.
func (m *Matcher) CouldClose(cand *descriptor.TypeDescriptor, contract descriptor.ContractInstantiation) bool {
	if !cand.OpenGeneric() || !contract.Closed() {
		return false
	}
	if len(cand.TypeParams) > len(contract.Args) {
		return false
	}
	return len(m.FindClosingContracts(cand, contract.Template)) > 0
}

// Close attempts to bind the candidate's free parameters so that it
// satisfies the closed contract, returning the closed descriptor.
//
// Each declared instantiation of the contract's template is tried in
// discovery order: its arguments are unified pairwise against the
// contract's arguments, and the resulting substitution must bind every
// free parameter of the candidate to a closed type. Declared
// constraints are enforced during unification. The first declaration
// that closes wins; if none does, the last failure is returned for the
// caller to swallow.
func (m *Matcher) Close(cand *descriptor.TypeDescriptor, contract descriptor.ContractInstantiation) (*descriptor.TypeDescriptor, error) {
	declared := m.FindClosingContracts(cand, contract.Template)
	if len(declared) == 0 {
		return nil, fmt.Errorf("%s does not implement %s", cand.Identity, contract.Template)
	}

	var lastErr error
	for _, decl := range declared {
		closed, err := closeWith(cand, decl, contract)
		if err != nil {
			lastErr = err
			continue
		}
		return closed, nil
	}
	return nil, lastErr
}

func closeWith(cand *descriptor.TypeDescriptor, decl, contract descriptor.ContractInstantiation) (*descriptor.TypeDescriptor, error) {
	if len(decl.Args) != len(contract.Args) {
		return nil, fmt.Errorf("argument count mismatch: %s vs %s", decl, contract)
	}

	subst := typesystem.Subst{}
	for i := range decl.Args {
		s, err := typesystem.Unify(decl.Args[i].Apply(subst), contract.Args[i])
		if err != nil {
			return nil, err
		}
		subst = subst.Compose(s)
	}

	// Every free parameter must come out fully bound; a parameter that
	// does not occur in the declaration cannot be inferred.
	bound := make([]typesystem.Type, len(cand.TypeParams))
	for i, p := range cand.TypeParams {
		replacement, ok := subst[p.Name]
		if !ok {
			return nil, fmt.Errorf("parameter %s of %s is not determined by %s", p.Name, cand.Identity, contract)
		}
		if !typesystem.Closed(replacement) {
			return nil, fmt.Errorf("parameter %s of %s remains open after closing over %s", p.Name, cand.Identity, contract)
		}
		bound[i] = replacement
	}

	contracts := make([]descriptor.ContractInstantiation, len(cand.Contracts))
	for i, c := range cand.Contracts {
		contracts[i] = c.Apply(subst)
	}
	var baseContract *descriptor.ContractInstantiation
	if cand.BaseContract != nil {
		bc := cand.BaseContract.Apply(subst)
		baseContract = &bc
	}

	return &descriptor.TypeDescriptor{
		Identity:     closedIdentity(cand.Identity, bound),
		Concrete:     cand.Concrete,
		Contracts:    contracts,
		Base:         cand.Base,
		BaseContract: baseContract,
	}, nil
}

func closedIdentity(id descriptor.Identity, args []typesystem.Type) descriptor.Identity {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.String()
	}
	return descriptor.Identity{
		Name:   fmt.Sprintf("%s[%s]", id.Name, strings.Join(names, ", ")),
		Module: id.Module,
	}
}
