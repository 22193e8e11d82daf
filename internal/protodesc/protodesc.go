// Package protodesc builds candidate descriptors from protobuf
// service definitions: every service method becomes a closed handler
// candidate for its request and response message types.
package protodesc

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"

	"github.com/prashanthbabu07/mediabind/internal/descriptor"
	"github.com/prashanthbabu07/mediabind/internal/typesystem"
)

// Loader parses proto files and maps their services onto contract
// templates.
type Loader struct {
	// ImportPaths are the include directories for proto resolution.
	ImportPaths []string

	// Accessor optionally overrides file access, mainly for tests.
	Accessor protoparse.FileAccessor

	// Handler receives unary methods, Stream the methods that stream
	// in either direction.
	Handler *descriptor.ContractTemplate
	Stream  *descriptor.ContractTemplate
}

// Load parses the given proto files and returns one closed concrete
// descriptor per service method, in declaration order.
func (l *Loader) Load(files ...string) ([]*descriptor.TypeDescriptor, error) {
	if l.Handler == nil {
		return nil, fmt.Errorf("protodesc: no handler template configured")
	}

	parser := protoparse.Parser{
		ImportPaths: l.ImportPaths,
		Accessor:    l.Accessor,
	}
	fds, err := parser.ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("parse protos: %w", err)
	}

	var out []*descriptor.TypeDescriptor
	for _, fd := range fds {
		out = append(out, l.fromFile(fd)...)
	}
	return out, nil
}

func (l *Loader) fromFile(fd *desc.FileDescriptor) []*descriptor.TypeDescriptor {
	var out []*descriptor.TypeDescriptor
	for _, svc := range fd.GetServices() {
		for _, method := range svc.GetMethods() {
			tmpl := l.Handler
			if method.IsClientStreaming() || method.IsServerStreaming() {
				if l.Stream == nil {
					continue
				}
				tmpl = l.Stream
			}

			out = append(out, &descriptor.TypeDescriptor{
				Identity: descriptor.Identity{
					Name:   svc.GetName() + "." + method.GetName() + "Handler",
					Module: fd.GetPackage(),
				},
				Concrete: true,
				Contracts: []descriptor.ContractInstantiation{{
					Template: tmpl,
					Args: []typesystem.Type{
						messageTerm(method.GetInputType()),
						messageTerm(method.GetOutputType()),
					},
				}},
			})
		}
	}
	return out
}

func messageTerm(msg *desc.MessageDescriptor) typesystem.Type {
	return typesystem.TCon{
		Name:   msg.GetName(),
		Module: msg.GetFile().GetPackage(),
	}
}
