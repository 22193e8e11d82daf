package typesystem

import "fmt"

// Unify attempts to find a substitution that makes t1 and t2 equal.
// It enforces strict equality (invariant): no subtyping, no implicit
// conversions. This is the instantiation mechanism the closing step
// defers to; callers treat failure as "does not close", never as a
// fatal condition.
func Unify(t1, t2 Type) (Subst, error) {
	if Equal(t1, t2) {
		return Subst{}, nil
	}

	switch t1 := t1.(type) {
	case TVar:
		return Bind(t1, t2)
	case TCon:
		switch t2 := t2.(type) {
		case TVar:
			return Bind(t2, t1)
		case TCon:
			if t1.Name == t2.Name && t1.Module == t2.Module {
				return Subst{}, nil
			}
			return nil, errUnifyMsg(t1, t2, "type constant mismatch")
		default:
			return nil, errUnify(t1, t2)
		}
	case TApp:
		switch t2 := t2.(type) {
		case TVar:
			return Bind(t2, t1)
		case TApp:
			s1, err := Unify(t1.Constructor, t2.Constructor)
			if err != nil {
				return nil, err
			}
			if len(t1.Args) != len(t2.Args) {
				return nil, errMismatch(fmt.Sprintf("type arguments length mismatch: %d vs %d", len(t1.Args), len(t2.Args)))
			}
			for i := range t1.Args {
				s2, err := Unify(t1.Args[i].Apply(s1), t2.Args[i].Apply(s1))
				if err != nil {
					return nil, err
				}
				s1 = s1.Compose(s2)
			}
			return s1, nil
		default:
			return nil, errUnify(t1, t2)
		}
	default:
		return nil, errMismatch(fmt.Sprintf("unknown type kind: %T", t1))
	}
}

// Bind binds a type variable to a type, performing the occurs check
// and enforcing the variable's constraint.
func Bind(tv TVar, t Type) (Subst, error) {
	if tVal, ok := t.(TVar); ok && tVal.Name == tv.Name {
		return Subst{}, nil
	}

	// Occurs check: avoid infinite types like a = List<a>.
	if OccursCheck(tv, t) {
		return nil, errMismatch(fmt.Sprintf("infinite type detected: %s in %s", tv, t))
	}

	if err := checkConstraint(tv, t); err != nil {
		return nil, err
	}

	return Subst{tv.Name: t}, nil
}

// OccursCheck returns true if tv appears free in t.
func OccursCheck(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}

// checkConstraint verifies that t can stand in for the constrained
// variable tv. Binding a constrained variable to another variable is
// allowed; the constraint travels with the remaining placeholder.
func checkConstraint(tv TVar, t Type) error {
	if tv.Constraint == "" {
		return nil
	}
	switch t := t.(type) {
	case TVar:
		return nil
	case TCon:
		if !t.SatisfiesConstraint(tv.Constraint) {
			return errMismatch(fmt.Sprintf("type %s does not satisfy constraint %s", t, tv.Constraint))
		}
		return nil
	case TApp:
		// An applied generic satisfies a constraint through its constructor.
		if con, ok := t.Constructor.(TCon); ok {
			if !con.SatisfiesConstraint(tv.Constraint) {
				return errMismatch(fmt.Sprintf("type %s does not satisfy constraint %s", t, tv.Constraint))
			}
			return nil
		}
		return nil
	default:
		return errMismatch(fmt.Sprintf("cannot check constraint %s against %s", tv.Constraint, t))
	}
}

func errUnify(t1, t2 Type) error {
	return fmt.Errorf("cannot unify %s with %s", t1, t2)
}

func errUnifyMsg(t1, t2 Type, msg string) error {
	return fmt.Errorf("%s: %s vs %s", msg, t1, t2)
}

func errMismatch(msg string) error {
	return fmt.Errorf("type mismatch: %s", msg)
}
