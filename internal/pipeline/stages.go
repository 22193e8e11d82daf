package pipeline

import (
	"fmt"

	"github.com/prashanthbabu07/mediabind/internal/config"
	"github.com/prashanthbabu07/mediabind/internal/descriptor"
	"github.com/prashanthbabu07/mediabind/internal/engine"
	"github.com/prashanthbabu07/mediabind/internal/gopkg"
	"github.com/prashanthbabu07/mediabind/internal/protodesc"
)

// TemplateStage resolves the active template set from configuration.
type TemplateStage struct{}

func (TemplateStage) Process(ctx *Context) *Context {
	cfg := ctx.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	ctx.Templates, ctx.Collectors = cfg.TemplateSet()
	return ctx
}

// LoadStage materializes the candidate descriptor set from the
// configured host adapters. An adapter failure is diagnosed and the
// remaining sources still load; a pass over a partial candidate set is
// preferable to none when the host only wants a report.
type LoadStage struct {
	// Dir is the working directory for Go package loading.
	Dir string
}

func (s LoadStage) Process(ctx *Context) *Context {
	if ctx.Set == nil {
		ctx.Set = descriptor.NewSet()
	}
	cfg := ctx.Config
	if cfg == nil {
		return ctx
	}

	if len(cfg.Packages) > 0 {
		ins := &gopkg.Inspector{Dir: s.Dir, Templates: interfaceTemplates(ctx)}
		found, err := ins.Inspect(cfg.Packages...)
		if err != nil {
			ctx.diag("load", fmt.Sprintf("go packages: %v", err))
		}
		for _, d := range found {
			ctx.Set.Add(d)
		}
	}

	if len(cfg.Protos) > 0 {
		loader := &protodesc.Loader{
			ImportPaths: cfg.ProtoImportPaths,
			Handler:     findTemplate(ctx.Templates, config.RequestHandlerName),
			Stream:      findTemplate(ctx.Templates, config.StreamRequestHandlerName),
		}
		found, err := loader.Load(cfg.Protos...)
		if err != nil {
			ctx.diag("load", fmt.Sprintf("protos: %v", err))
		}
		for _, d := range found {
			ctx.Set.Add(d)
		}
	}
	return ctx
}

// ScanStage runs the registration engine over the loaded candidates.
type ScanStage struct{}

func (ScanStage) Process(ctx *Context) *Context {
	if ctx.Fatal != nil || ctx.Set == nil || ctx.Binder == nil {
		return ctx
	}
	eng := engine.New(ctx.Set, ctx.Binder)
	bindings, err := eng.Register(ctx.Templates, ctx.Collectors)
	if err != nil {
		ctx.Fatal = err
		ctx.diag("scan", err.Error())
		return ctx
	}
	if n := eng.Swallowed(); n > 0 {
		ctx.diag("scan", fmt.Sprintf("%d closing attempts did not unify", n))
	}
	ctx.Bindings = bindings
	return ctx
}

func interfaceTemplates(ctx *Context) []*descriptor.ContractTemplate {
	var out []*descriptor.ContractTemplate
	for _, lists := range [][]*descriptor.ContractTemplate{ctx.Templates, ctx.Collectors} {
		for _, tmpl := range lists {
			if tmpl.Kind == descriptor.KindInterface {
				out = append(out, tmpl)
			}
		}
	}
	return out
}

func findTemplate(templates []*descriptor.ContractTemplate, name string) *descriptor.ContractTemplate {
	for _, tmpl := range templates {
		if tmpl.Name == name {
			return tmpl
		}
	}
	return nil
}
