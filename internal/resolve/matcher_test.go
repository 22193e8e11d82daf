package resolve

import (
	"reflect"
	"testing"

	"github.com/prashanthbabu07/mediabind/internal/descriptor"
	"github.com/prashanthbabu07/mediabind/internal/typesystem"
)

var (
	handlerTmpl = &descriptor.ContractTemplate{Name: "RequestHandler", Arity: 2}
	baseTmpl    = &descriptor.ContractTemplate{Name: "HandlerBase", Arity: 1, Kind: descriptor.KindBase}

	ping = typesystem.TCon{Name: "Ping"}
	pong = typesystem.TCon{Name: "Pong"}
	echo = typesystem.TCon{Name: "Echo"}
)

func handlerInst(args ...typesystem.Type) descriptor.ContractInstantiation {
	return descriptor.ContractInstantiation{Template: handlerTmpl, Args: args}
}

func TestFindClosingContractsSelf(t *testing.T) {
	cand := &descriptor.TypeDescriptor{
		Identity:  descriptor.Identity{Name: "PingHandler", Module: "app"},
		Concrete:  true,
		Contracts: []descriptor.ContractInstantiation{handlerInst(ping, pong)},
	}
	m := NewMatcher(descriptor.NewSet(cand))

	got := m.FindClosingContracts(cand, handlerTmpl)
	if len(got) != 1 || !got[0].Equal(handlerInst(ping, pong)) {
		t.Fatalf("FindClosingContracts = %v, want [RequestHandler[Ping, Pong]]", got)
	}
}

func TestFindClosingContractsMultipleInstantiations(t *testing.T) {
	// One type may implement the same template several times.
	cand := &descriptor.TypeDescriptor{
		Identity: descriptor.Identity{Name: "MultiHandler", Module: "app"},
		Concrete: true,
		Contracts: []descriptor.ContractInstantiation{
			handlerInst(ping, pong),
			handlerInst(echo, pong),
		},
	}
	m := NewMatcher(descriptor.NewSet(cand))

	got := m.FindClosingContracts(cand, handlerTmpl)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if !got[0].Equal(handlerInst(ping, pong)) || !got[1].Equal(handlerInst(echo, pong)) {
		t.Errorf("matches out of declaration order: %v", got)
	}
}

func TestFindClosingContractsBaseChain(t *testing.T) {
	parentID := descriptor.Identity{Name: "BaseHandler", Module: "app"}
	parent := &descriptor.TypeDescriptor{
		Identity:  parentID,
		Contracts: []descriptor.ContractInstantiation{handlerInst(echo, pong)},
	}
	child := &descriptor.TypeDescriptor{
		Identity:  descriptor.Identity{Name: "ChildHandler", Module: "app"},
		Concrete:  true,
		Contracts: []descriptor.ContractInstantiation{handlerInst(ping, pong)},
		Base:      &parentID,
	}
	m := NewMatcher(descriptor.NewSet(parent, child))

	got := m.FindClosingContracts(child, handlerTmpl)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2 (self and ancestor)", len(got))
	}
	// Self before ancestors.
	if !got[0].Equal(handlerInst(ping, pong)) || !got[1].Equal(handlerInst(echo, pong)) {
		t.Errorf("matches = %v, want self first", got)
	}
}

func TestFindClosingContractsBaseKind(t *testing.T) {
	baseInst := descriptor.ContractInstantiation{Template: baseTmpl, Args: []typesystem.Type{ping}}
	cand := &descriptor.TypeDescriptor{
		Identity:     descriptor.Identity{Name: "DerivedHandler", Module: "app"},
		Concrete:     true,
		BaseContract: &baseInst,
	}
	m := NewMatcher(descriptor.NewSet(cand))

	got := m.FindClosingContracts(cand, baseTmpl)
	if len(got) != 1 || !got[0].Equal(baseInst) {
		t.Fatalf("FindClosingContracts = %v, want [HandlerBase[Ping]]", got)
	}
}

func TestFindClosingContractsSkipsRoot(t *testing.T) {
	root := &descriptor.TypeDescriptor{
		Identity:  descriptor.Root,
		Contracts: []descriptor.ContractInstantiation{handlerInst(ping, pong)},
	}
	m := NewMatcher(descriptor.NewSet(root))

	if got := m.FindClosingContracts(root, handlerTmpl); got != nil {
		t.Errorf("root type matched contracts: %v", got)
	}
	if got := m.FindClosingContracts(nil, handlerTmpl); got != nil {
		t.Errorf("nil candidate matched contracts: %v", got)
	}
}

func TestFindClosingContractsSkipsMalformed(t *testing.T) {
	cand := &descriptor.TypeDescriptor{
		Identity: descriptor.Identity{Name: "BrokenHandler", Module: "app"},
		Concrete: true,
		Contracts: []descriptor.ContractInstantiation{
			handlerInst(ping), // arity 2 template with a single argument
			handlerInst(ping, pong),
		},
	}
	m := NewMatcher(descriptor.NewSet(cand))

	got := m.FindClosingContracts(cand, handlerTmpl)
	if len(got) != 1 || !got[0].Equal(handlerInst(ping, pong)) {
		t.Fatalf("malformed instantiation not excluded: %v", got)
	}
}

func TestFindClosingContractsCyclicBaseChain(t *testing.T) {
	// A descriptor table whose base links form a cycle is malformed
	// input; the walk must terminate with the contracts found before
	// the revisit.
	aID := descriptor.Identity{Name: "AHandler", Module: "app"}
	bID := descriptor.Identity{Name: "BHandler", Module: "app"}
	a := &descriptor.TypeDescriptor{
		Identity:  aID,
		Concrete:  true,
		Contracts: []descriptor.ContractInstantiation{handlerInst(ping, pong)},
		Base:      &bID,
	}
	b := &descriptor.TypeDescriptor{
		Identity:  bID,
		Contracts: []descriptor.ContractInstantiation{handlerInst(echo, pong)},
		Base:      &aID,
	}
	m := NewMatcher(descriptor.NewSet(a, b))

	got := m.FindClosingContracts(a, handlerTmpl)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2 (one visit per chain member)", len(got))
	}
	if !got[0].Equal(handlerInst(ping, pong)) || !got[1].Equal(handlerInst(echo, pong)) {
		t.Errorf("matches = %v, want self first then ancestor", got)
	}

	selfID := descriptor.Identity{Name: "SelfHandler", Module: "app"}
	self := &descriptor.TypeDescriptor{
		Identity:  selfID,
		Concrete:  true,
		Contracts: []descriptor.ContractInstantiation{handlerInst(ping, pong)},
		Base:      &selfID,
	}
	m = NewMatcher(descriptor.NewSet(self))
	if got := m.FindClosingContracts(self, handlerTmpl); len(got) != 1 {
		t.Errorf("self-referential base yielded %d matches, want 1", len(got))
	}
}

func TestFindClosingContractsIdempotent(t *testing.T) {
	parentID := descriptor.Identity{Name: "BaseHandler", Module: "app"}
	parent := &descriptor.TypeDescriptor{
		Identity:  parentID,
		Contracts: []descriptor.ContractInstantiation{handlerInst(echo, pong)},
	}
	child := &descriptor.TypeDescriptor{
		Identity:  descriptor.Identity{Name: "ChildHandler", Module: "app"},
		Concrete:  true,
		Contracts: []descriptor.ContractInstantiation{handlerInst(ping, pong)},
		Base:      &parentID,
	}
	m := NewMatcher(descriptor.NewSet(parent, child))

	first := m.FindClosingContracts(child, handlerTmpl)
	second := m.FindClosingContracts(child, handlerTmpl)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("matching is not idempotent: %v vs %v", first, second)
	}
}
