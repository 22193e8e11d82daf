package gopkg

import (
	"go/types"

	"github.com/prashanthbabu07/mediabind/internal/typesystem"
)

// termFor converts a Go type to its type-argument representation.
// Named types keep their defining package as the module; anything
// without a better mapping falls back to its printed form.
func termFor(t types.Type) typesystem.Type {
	switch t := t.(type) {
	case *types.Basic:
		return typesystem.TCon{Name: t.Name()}
	case *types.TypeParam:
		return typeParamTerm(t)
	case *types.Pointer:
		return typesystem.TApp{
			Constructor: typesystem.TCon{Name: "Ptr"},
			Args:        []typesystem.Type{termFor(t.Elem())},
		}
	case *types.Slice:
		return typesystem.TApp{
			Constructor: typesystem.TCon{Name: "List"},
			Args:        []typesystem.Type{termFor(t.Elem())},
		}
	case *types.Named:
		obj := t.Obj()
		module := ""
		if obj.Pkg() != nil {
			module = obj.Pkg().Path()
		}
		con := typesystem.TCon{Name: obj.Name(), Module: module}
		if t.TypeArgs().Len() == 0 {
			return con
		}
		args := make([]typesystem.Type, t.TypeArgs().Len())
		for i := range args {
			args[i] = termFor(t.TypeArgs().At(i))
		}
		return typesystem.TApp{Constructor: con, Args: args}
	default:
		return typesystem.TCon{Name: types.TypeString(t, nil)}
	}
}

func termsFor(args []types.Type) []typesystem.Type {
	out := make([]typesystem.Type, len(args))
	for i, a := range args {
		out[i] = termFor(a)
	}
	return out
}

// typeParamTerm maps a Go type parameter to a placeholder variable.
// A constraint other than any is carried by name.
func typeParamTerm(tp *types.TypeParam) typesystem.TVar {
	v := typesystem.TVar{Name: tp.Obj().Name()}
	constraint := types.TypeString(tp.Constraint(), nil)
	if constraint != "any" && constraint != "interface{}" {
		v.Constraint = constraint
	}
	return v
}
