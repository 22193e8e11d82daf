package config

import "github.com/prashanthbabu07/mediabind/internal/descriptor"

// ConfigFileName is the default scan configuration file.
const ConfigFileName = "mediabind.yaml"

// Built-in contract template names.
const (
	RequestHandlerName       = "RequestHandler"
	NotificationHandlerName  = "NotificationHandler"
	StreamRequestHandlerName = "StreamRequestHandler"
	PreProcessorName         = "RequestPreProcessor"
	PostProcessorName        = "RequestPostProcessor"
	PipelineBehaviorName     = "PipelineBehavior"
)

// Single-implementation contract templates registered by default.
var (
	RequestHandler       = &descriptor.ContractTemplate{Name: RequestHandlerName, Arity: 2}
	NotificationHandler  = &descriptor.ContractTemplate{Name: NotificationHandlerName, Arity: 1}
	StreamRequestHandler = &descriptor.ContractTemplate{Name: StreamRequestHandlerName, Arity: 2}
)

// Collector contract templates registered by default: many
// implementations may coexist and all are registered.
var (
	RequestPreProcessor  = &descriptor.ContractTemplate{Name: PreProcessorName, Arity: 1}
	RequestPostProcessor = &descriptor.ContractTemplate{Name: PostProcessorName, Arity: 2}
	PipelineBehavior     = &descriptor.ContractTemplate{Name: PipelineBehaviorName, Arity: 2}
)

// DefaultTemplates returns the fixed single-implementation template
// set, in registration order.
func DefaultTemplates() []*descriptor.ContractTemplate {
	return []*descriptor.ContractTemplate{
		RequestHandler,
		NotificationHandler,
		StreamRequestHandler,
	}
}

// DefaultCollectors returns the fixed collector template set.
func DefaultCollectors() []*descriptor.ContractTemplate {
	return []*descriptor.ContractTemplate{
		RequestPreProcessor,
		RequestPostProcessor,
		PipelineBehavior,
	}
}
