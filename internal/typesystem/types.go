package typesystem

import (
	"fmt"
	"reflect"
	"strings"
)

// Type is the interface for all type arguments in the system.
// A type argument is either a placeholder (TVar), a concrete type
// constant (TCon), or an application of a generic constructor to
// further arguments (TApp).
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar represents a free type parameter of an open generic type
// (e.g. the T in Handler<T, Pong>).
type TVar struct {
	Name string

	// Constraint optionally names a capability the concrete type
	// bound to this variable must satisfy. Empty means unconstrained.
	Constraint string
}

func (t TVar) String() string {
	if t.Constraint != "" {
		return t.Name + ": " + t.Constraint
	}
	return t.Name
}

func (t TVar) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		// Direct self-reference would loop forever.
		if tv, ok := replacement.(TVar); ok && tv.Name == t.Name {
			return t
		}
		return replacement
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// TCon represents a fully concrete type (e.g. Ping, Pong).
type TCon struct {
	Name   string
	Module string // optional defining module for imported types

	// Satisfies lists the constraint names this type fulfills.
	Satisfies []string
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) Apply(s Subst) Type { return t }

func (t TCon) FreeTypeVariables() []TVar { return nil }

// SatisfiesConstraint reports whether the constant fulfills the named
// constraint. The empty constraint is fulfilled by every type.
func (t TCon) SatisfiesConstraint(name string) bool {
	if name == "" {
		return true
	}
	for _, c := range t.Satisfies {
		if c == name {
			return true
		}
	}
	return false
}

// TApp represents an applied generic constructor (e.g. List<Ping>).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s[%s]", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	newArgs := make([]Type, len(t.Args))
	for i, arg := range t.Args {
		newArgs[i] = arg.Apply(s)
	}
	return TApp{Constructor: t.Constructor.Apply(s), Args: newArgs}
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := t.Constructor.FreeTypeVariables()
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// Subst is a mapping from type variable names to types.
type Subst map[string]Type

// Compose combines two substitutions. Bindings in s1 win over s2 after
// s2 has been applied to s1's replacements.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

// Equal reports structural equality of two types.
func Equal(t1, t2 Type) bool {
	return reflect.DeepEqual(t1, t2)
}

// Closed reports whether t has no free type variables.
func Closed(t Type) bool {
	return len(t.FreeTypeVariables()) == 0
}

func uniqueTVars(vars []TVar) []TVar {
	unique := make([]TVar, 0, len(vars))
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}
