package layer

import (
	"fmt"
	"strings"
)

// Classifier assigns layer, slice and segment to module identifiers
type Classifier struct {
	config *Config
}

// NewClassifier creates a classifier, nil config uses defaults
func NewClassifier(config *Config) *Classifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &Classifier{config: config}
}

// Shared returns the reserved slice name
func (c *Classifier) Shared() string {
	return c.config.Shared
}

// Classify returns the classification of a canonical dotted module identifier
func (c *Classifier) Classify(id string) (Class, error) {
	if id == "" {
		return Class{}, &UnclassifiableModuleError{Module: id, Reason: "empty module identifier"}
	}
	parts := strings.Split(id, ".")
	aLayer, ok := Parse(parts[0])
	if !ok {
		return Class{}, &UnclassifiableModuleError{Module: id, Reason: fmt.Sprintf("top-level package %q is not one of %s", parts[0], strings.Join(Names(), ", "))}
	}
	if aLayer != Usecases {
		return Class{Layer: aLayer}, nil
	}
	if len(parts) == 1 {
		return Class{Layer: Usecases, Slice: c.config.Shared, Segment: Internal}, nil
	}
	slice := parts[1]
	ret := Class{Layer: Usecases, Slice: slice, Segment: Internal}
	if strings.Join(parts[2:], ".") == c.config.SliceEntryPoint(slice) {
		ret.Segment = API
		return ret, nil
	}
	for _, part := range parts[1:] {
		if part == PortsComponent {
			ret.Segment = Ports
			break
		}
	}
	return ret, nil
}
