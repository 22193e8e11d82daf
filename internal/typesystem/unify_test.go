package typesystem

import (
	"testing"
)

func TestUnify(t *testing.T) {
	ping := TCon{Name: "Ping"}
	pong := TCon{Name: "Pong"}
	list := TCon{Name: "List"}
	tVar := TVar{Name: "T"}

	tests := []struct {
		name    string
		t1      Type
		t2      Type
		want    Subst
		wantErr bool
	}{
		{
			name: "identical constants",
			t1:   ping,
			t2:   ping,
			want: Subst{},
		},
		{
			name:    "distinct constants",
			t1:      ping,
			t2:      pong,
			wantErr: true,
		},
		{
			name: "variable binds to constant",
			t1:   tVar,
			t2:   ping,
			want: Subst{"T": ping},
		},
		{
			name: "constant binds variable on the right",
			t1:   ping,
			t2:   tVar,
			want: Subst{"T": ping},
		},
		{
			name: "application args unify pairwise",
			t1:   TApp{Constructor: list, Args: []Type{tVar}},
			t2:   TApp{Constructor: list, Args: []Type{pong}},
			want: Subst{"T": pong},
		},
		{
			name:    "application arity mismatch",
			t1:      TApp{Constructor: list, Args: []Type{ping, pong}},
			t2:      TApp{Constructor: list, Args: []Type{ping}},
			wantErr: true,
		},
		{
			name:    "constructor mismatch",
			t1:      TApp{Constructor: list, Args: []Type{ping}},
			t2:      TApp{Constructor: pong, Args: []Type{ping}},
			wantErr: true,
		},
		{
			name:    "occurs check",
			t1:      tVar,
			t2:      TApp{Constructor: list, Args: []Type{tVar}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unify(tt.t1, tt.t2)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unify(%s, %s) succeeded, want error", tt.t1, tt.t2)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unify(%s, %s) returned error: %v", tt.t1, tt.t2, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Unify substitution = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if !Equal(got[k], v) {
					t.Errorf("subst[%s] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestUnifyConstraints(t *testing.T) {
	ordered := TVar{Name: "T", Constraint: "Ordered"}

	// A constant that lists the constraint binds fine.
	good := TCon{Name: "Score", Satisfies: []string{"Ordered"}}
	if _, err := Unify(ordered, good); err != nil {
		t.Errorf("constrained bind to satisfying type failed: %v", err)
	}

	// A constant that does not list it must be rejected.
	bad := TCon{Name: "Blob"}
	if _, err := Unify(ordered, bad); err == nil {
		t.Errorf("constrained bind to non-satisfying type succeeded")
	}

	// Binding to another variable defers the check.
	if _, err := Unify(ordered, TVar{Name: "U"}); err != nil {
		t.Errorf("constrained bind to variable failed: %v", err)
	}
}

func TestApplyAndCompose(t *testing.T) {
	ping := TCon{Name: "Ping"}
	list := TCon{Name: "List"}

	app := TApp{Constructor: list, Args: []Type{TVar{Name: "T"}}}
	applied := app.Apply(Subst{"T": ping})
	want := TApp{Constructor: list, Args: []Type{Type(ping)}}
	if !Equal(applied, want) {
		t.Errorf("Apply = %s, want %s", applied, want)
	}

	// Compose applies s2 to s1's replacements.
	s1 := Subst{"A": TVar{Name: "B"}}
	s2 := Subst{"B": ping}
	composed := s1.Compose(s2)
	if !Equal(composed["A"], Type(ping)) {
		t.Errorf("composed[A] = %v, want Ping", composed["A"])
	}
	if !Equal(composed["B"], Type(ping)) {
		t.Errorf("composed[B] = %v, want Ping", composed["B"])
	}
}

func TestClosed(t *testing.T) {
	ping := TCon{Name: "Ping"}
	open := TApp{Constructor: TCon{Name: "List"}, Args: []Type{TVar{Name: "T"}}}

	if !Closed(ping) {
		t.Errorf("Closed(Ping) = false, want true")
	}
	if Closed(open) {
		t.Errorf("Closed(List[T]) = true, want false")
	}
	if Closed(TVar{Name: "T"}) {
		t.Errorf("Closed(T) = true, want false")
	}
}
