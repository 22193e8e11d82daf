// Package gopkg builds candidate descriptors from compiled Go
// packages via go/packages, so a host can point the scanner at its own
// source tree instead of hand-writing a descriptor table.
//
// Contract templates are matched to generic Go interfaces by name and
// arity. Closed Go types are checked against every closed interface
// instantiation referenced anywhere in the loaded packages. Open
// generic Go types are probed by instantiating the contract interface
// with the candidate's own type parameters, which recognizes the
// common case where the candidate's parameters map one-to-one onto the
// contract's; other parameter arrangements are left to the closing
// step downstream.
package gopkg

import (
	"fmt"
	"go/ast"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/prashanthbabu07/mediabind/internal/descriptor"
)

// Inspector loads Go packages and extracts candidate descriptors.
type Inspector struct {
	// Dir is the working directory for package loading.
	Dir string

	// Templates are the interface-kind contract templates to look for.
	Templates []*descriptor.ContractTemplate
}

// contractIface pairs a template with the Go interface declaring it.
type contractIface struct {
	tmpl  *descriptor.ContractTemplate
	named *types.Named
}

// closedTarget is a fully instantiated contract interface discovered
// in the loaded packages.
type closedTarget struct {
	tmpl  *descriptor.ContractTemplate
	iface *types.Interface
	args  []types.Type
}

// Inspect loads the given package patterns and returns a descriptor
// per candidate named type, in package load order.
func (ins *Inspector) Inspect(patterns ...string) ([]*descriptor.TypeDescriptor, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedSyntax |
			packages.NeedImports |
			packages.NeedDeps,
		Dir: ins.Dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	var errs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}

	ifaces := ins.contractInterfaces(pkgs)
	targets := closedTargets(pkgs, ifaces)

	var out []*descriptor.TypeDescriptor
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !obj.Exported() || obj.IsAlias() {
				continue
			}
			named, ok := obj.Type().(*types.Named)
			if !ok || isContractInterface(named, ifaces) {
				continue
			}
			if d := ins.describe(named, pkg.PkgPath, ifaces, targets); d != nil {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

// contractInterfaces finds, across all loaded packages, the generic Go
// interfaces whose name and parameter count match a configured
// template.
func (ins *Inspector) contractInterfaces(pkgs []*packages.Package) []contractIface {
	var out []contractIface
	seen := make(map[*types.TypeName]bool)
	visit := func(pkg *types.Package) {
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if ok && !seen[obj] {
				seen[obj] = true
				named, ok := obj.Type().(*types.Named)
				if !ok {
					continue
				}
				if _, isIface := named.Underlying().(*types.Interface); !isIface {
					continue
				}
				for _, tmpl := range ins.Templates {
					if tmpl.Name == obj.Name() && tmpl.Arity == named.TypeParams().Len() {
						out = append(out, contractIface{tmpl: tmpl, named: named})
					}
				}
			}
		}
	}
	for _, pkg := range pkgs {
		visit(pkg.Types)
		for _, imp := range pkg.Types.Imports() {
			visit(imp)
		}
	}
	return out
}

// closedTargets collects every fully concrete instantiation of a
// contract interface that appears in the loaded sources.
func closedTargets(pkgs []*packages.Package, ifaces []contractIface) []closedTarget {
	ctx := types.NewContext()
	var out []closedTarget
	seen := make(map[string]bool)
	for _, pkg := range pkgs {
		if pkg.TypesInfo == nil {
			continue
		}
		// Instances is a map; walk it in source order so descriptor
		// contract order is stable across runs.
		idents := make([]*ast.Ident, 0, len(pkg.TypesInfo.Instances))
		for ident := range pkg.TypesInfo.Instances {
			idents = append(idents, ident)
		}
		sort.Slice(idents, func(i, j int) bool { return idents[i].Pos() < idents[j].Pos() })
		for _, ident := range idents {
			inst := pkg.TypesInfo.Instances[ident]
			obj, ok := pkg.TypesInfo.Uses[ident].(*types.TypeName)
			if !ok {
				continue
			}
			for _, ci := range ifaces {
				if ci.named.Obj() != obj {
					continue
				}
				args := make([]types.Type, inst.TypeArgs.Len())
				concrete := true
				for i := 0; i < inst.TypeArgs.Len(); i++ {
					args[i] = inst.TypeArgs.At(i)
					if _, isParam := args[i].(*types.TypeParam); isParam {
						concrete = false
					}
				}
				if !concrete {
					continue
				}
				instantiated, err := types.Instantiate(ctx, ci.named, args, true)
				if err != nil {
					continue
				}
				iface, ok := instantiated.Underlying().(*types.Interface)
				if !ok {
					continue
				}
				key := types.TypeString(instantiated, nil)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, closedTarget{tmpl: ci.tmpl, iface: iface, args: args})
			}
		}
	}
	return out
}

// describe builds the descriptor for one named type, or nil when it
// implements none of the contract interfaces.
func (ins *Inspector) describe(named *types.Named, pkgPath string, ifaces []contractIface, targets []closedTarget) *descriptor.TypeDescriptor {
	obj := named.Obj()
	d := &descriptor.TypeDescriptor{
		Identity: descriptor.Identity{Name: obj.Name(), Module: pkgPath},
	}
	_, isIface := named.Underlying().(*types.Interface)
	d.Concrete = !isIface

	params := named.TypeParams()
	for i := 0; i < params.Len(); i++ {
		d.TypeParams = append(d.TypeParams, typeParamTerm(params.At(i)))
	}

	if params.Len() == 0 {
		for _, target := range targets {
			if implements(named, target.iface) {
				d.Contracts = append(d.Contracts, descriptor.ContractInstantiation{
					Template: target.tmpl,
					Args:     termsFor(target.args),
				})
			}
		}
	} else {
		d.Contracts = append(d.Contracts, probeOpenContracts(named, ifaces)...)
	}

	if len(d.Contracts) == 0 {
		return nil
	}
	return d
}

// probeOpenContracts checks whether an open generic type satisfies a
// contract interface instantiated with the type's own parameters.
func probeOpenContracts(named *types.Named, ifaces []contractIface) []descriptor.ContractInstantiation {
	ctx := types.NewContext()
	params := named.TypeParams()

	ownArgs := make([]types.Type, params.Len())
	for i := range ownArgs {
		ownArgs[i] = params.At(i)
	}
	self, err := types.Instantiate(ctx, named, ownArgs, true)
	if err != nil {
		return nil
	}
	selfNamed, ok := self.(*types.Named)
	if !ok {
		return nil
	}

	var out []descriptor.ContractInstantiation
	for _, ci := range ifaces {
		if ci.named.TypeParams().Len() != params.Len() {
			continue
		}
		instantiated, err := types.Instantiate(ctx, ci.named, ownArgs, true)
		if err != nil {
			continue
		}
		iface, ok := instantiated.Underlying().(*types.Interface)
		if !ok || !implements(selfNamed, iface) {
			continue
		}
		out = append(out, descriptor.ContractInstantiation{
			Template: ci.tmpl,
			Args:     termsFor(ownArgs),
		})
	}
	return out
}

func implements(named *types.Named, iface *types.Interface) bool {
	return types.Implements(named, iface) || types.Implements(types.NewPointer(named), iface)
}

func isContractInterface(named *types.Named, ifaces []contractIface) bool {
	for _, ci := range ifaces {
		if ci.named.Obj() == named.Obj() {
			return true
		}
	}
	return false
}
