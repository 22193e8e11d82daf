// Package pipeline runs a registration pass as a sequence of stages:
// resolve the template set, load candidates through the host adapters,
// then scan and register.
package pipeline

import (
	"github.com/prashanthbabu07/mediabind/internal/config"
	"github.com/prashanthbabu07/mediabind/internal/descriptor"
	"github.com/prashanthbabu07/mediabind/internal/registry"
)

// Diagnostic records a non-fatal problem observed by a stage.
type Diagnostic struct {
	Stage   string
	Message string
}

// Context carries the state of one registration pass between stages.
type Context struct {
	Config *config.Config

	Templates  []*descriptor.ContractTemplate
	Collectors []*descriptor.ContractTemplate

	Set    *descriptor.Set
	Binder registry.Binder

	Bindings    []registry.Binding
	Diagnostics []Diagnostic

	// Fatal is set when a stage hit an error the pass cannot recover
	// from (a binder rejection); later stages are still run so their
	// diagnostics are collected.
	Fatal error
}

func (c *Context) diag(stage, message string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Stage: stage, Message: message})
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(*Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages.
	}
	return ctx
}
