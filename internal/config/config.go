// Package config holds the fixed contract template set and the YAML
// scan configuration.
//
// The template set is static configuration, not discovery: hosts opt
// into additional templates through mediabind.yaml, they are never
// inferred from the candidate types themselves.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prashanthbabu07/mediabind/internal/descriptor"
)

// Config represents the top-level mediabind.yaml configuration.
type Config struct {
	// Templates lists additional contract templates beyond the
	// built-in set.
	Templates []TemplateSpec `yaml:"templates,omitempty"`

	// Packages are Go package patterns to scan for candidates
	// (go/packages syntax, e.g. "./...").
	Packages []string `yaml:"packages,omitempty"`

	// Protos are protobuf files whose service definitions yield
	// handler candidates.
	Protos []string `yaml:"protos,omitempty"`

	// ProtoImportPaths are the include directories for proto parsing.
	ProtoImportPaths []string `yaml:"protoImportPaths,omitempty"`

	// Registry is the path of the sqlite registry snapshot. Empty
	// keeps the pass in memory only.
	Registry string `yaml:"registry,omitempty"`
}

// TemplateSpec declares one contract template in YAML form.
type TemplateSpec struct {
	Name string `yaml:"name"`

	Arity int `yaml:"arity"`

	// Kind is "interface" (default) or "base".
	Kind string `yaml:"kind,omitempty"`

	// Collector marks a one-to-many template registered against its
	// unparameterized form.
	Collector bool `yaml:"collector,omitempty"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for i, t := range c.Templates {
		if t.Name == "" {
			return fmt.Errorf("templates[%d]: missing name", i)
		}
		if t.Arity < 1 {
			return fmt.Errorf("templates[%d] (%s): arity must be at least 1", i, t.Name)
		}
		switch t.Kind {
		case "", "interface", "base":
		default:
			return fmt.Errorf("templates[%d] (%s): unknown kind %q", i, t.Name, t.Kind)
		}
	}
	return nil
}

// TemplateSet resolves the active templates: the built-in set plus any
// configured extras, split into single-implementation and collector
// templates. Names are unique across both lists, first occurrence
// wins, so redeclaring a built-in (or repeating an extra) never makes
// the engine scan the same template twice in one pass.
func (c *Config) TemplateSet() (templates, collectors []*descriptor.ContractTemplate) {
	templates = DefaultTemplates()
	collectors = DefaultCollectors()

	seen := make(map[string]bool)
	for _, tmpl := range templates {
		seen[tmpl.Name] = true
	}
	for _, tmpl := range collectors {
		seen[tmpl.Name] = true
	}

	for _, spec := range c.Templates {
		if seen[spec.Name] {
			continue
		}
		seen[spec.Name] = true
		tmpl := &descriptor.ContractTemplate{Name: spec.Name, Arity: spec.Arity}
		if spec.Kind == "base" {
			tmpl.Kind = descriptor.KindBase
		}
		if spec.Collector {
			collectors = append(collectors, tmpl)
		} else {
			templates = append(templates, tmpl)
		}
	}
	return templates, collectors
}
