// Package rule evaluates import edges against the layer and usecases slice rule tables.
package rule

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viant/archgate/analyzer/layer"
)

// Policy represents the immutable rule configuration of a run
type Policy struct {
	// Layers maps a source layer to its permitted target patterns
	Layers map[string][]string `yaml:"layers" json:"layers"`
	Slices *layer.Config       `yaml:"slices" json:"slices"`
	// Modules maps a source module (and its submodules) to forbidden target patterns
	Modules map[string][]string `yaml:"modules,omitempty" json:"modules,omitempty"`
	// Exports maps a module to the only top-level definitions it may have
	Exports map[string]*Exports `yaml:"exports,omitempty" json:"exports,omitempty"`
}

// Exports represents the exact set of top-level functions and classes of a module
type Exports struct {
	Functions []string `yaml:"functions" json:"functions"`
	Classes   []string `yaml:"classes" json:"classes"`
}

// DefaultPolicy returns the concentric layer policy
func DefaultPolicy() *Policy {
	return &Policy{
		Layers: map[string][]string{
			layer.Domain.String():         {"domain"},
			layer.Usecases.String():       {"domain", "usecases"},
			layer.Adapters.String():       {"adapters", "usecases"},
			layer.Infrastructure.String(): {"infrastructure", "domain", "usecases/**/ports"},
			layer.App.String():            {AnyPattern},
		},
		Slices: layer.DefaultConfig(),
	}
}

// Validate checks that every layer has rules and every pattern parses
func (p *Policy) Validate() error {
	if err := validation.ValidateStruct(p,
		validation.Field(&p.Layers, validation.Required),
		validation.Field(&p.Slices, validation.Required),
	); err != nil {
		return err
	}
	for _, aLayer := range layer.Layers() {
		if _, ok := p.Layers[aLayer.String()]; !ok {
			return fmt.Errorf("layer table has no entry for %v", aLayer)
		}
	}
	for name, patterns := range p.Layers {
		if _, ok := layer.Parse(name); !ok {
			return fmt.Errorf("layer table has unknown source layer %q", name)
		}
		for _, raw := range patterns {
			if _, err := ParsePattern(raw); err != nil {
				return fmt.Errorf("invalid %v rule: %w", name, err)
			}
		}
	}
	for id, patterns := range p.Modules {
		if err := validateModuleID(id); err != nil {
			return fmt.Errorf("module table: %w", err)
		}
		if len(patterns) == 0 {
			return fmt.Errorf("module table: %v has no patterns", id)
		}
		for _, raw := range patterns {
			if _, err := ParsePattern(raw); err != nil {
				return fmt.Errorf("invalid %v rule: %w", id, err)
			}
		}
	}
	for id, exports := range p.Exports {
		if err := validateModuleID(id); err != nil {
			return fmt.Errorf("exports table: %w", err)
		}
		if exports == nil {
			return fmt.Errorf("exports table: %v has no definitions", id)
		}
	}
	return nil
}

func validateModuleID(id string) error {
	parts := strings.Split(id, ".")
	if _, ok := layer.Parse(parts[0]); !ok {
		return fmt.Errorf("module %q: unknown layer %q", id, parts[0])
	}
	for _, part := range parts[1:] {
		if part == "" {
			return fmt.Errorf("module %q: empty component", id)
		}
	}
	return nil
}
