// Package layer classifies dotted module identifiers into architectural layers, slices and segments.
package layer

import "fmt"

// Layer represents one of the concentric architectural layers
type Layer int

const (
	Domain Layer = iota
	Usecases
	Adapters
	Infrastructure
	App
)

var layerNames = [...]string{"domain", "usecases", "adapters", "infrastructure", "app"}

// String returns layer name
func (l Layer) String() string {
	if l < Domain || l > App {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// MarshalText encodes layer as its name
func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes layer name
func (l *Layer) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("unknown layer: %q", text)
	}
	*l = parsed
	return nil
}

// Layers returns all layers, innermost first
func Layers() []Layer {
	return []Layer{Domain, Usecases, Adapters, Infrastructure, App}
}

// Names returns all layer names, innermost first
func Names() []string {
	return layerNames[:]
}

// Parse returns the layer with the given name
func Parse(name string) (Layer, bool) {
	for i, candidate := range layerNames {
		if candidate == name {
			return Layer(i), true
		}
	}
	return 0, false
}

// Segment classifies a usecases module within its slice
type Segment int

const (
	Internal Segment = iota
	API
	Ports
)

var segmentNames = [...]string{"internal", "api", "ports"}

func (s Segment) String() string {
	if s < Internal || s > Ports {
		return fmt.Sprintf("segment(%d)", int(s))
	}
	return segmentNames[s]
}

// ParseSegment returns the segment with the given name
func ParseSegment(name string) (Segment, bool) {
	for i, candidate := range segmentNames {
		if candidate == name {
			return Segment(i), true
		}
	}
	return 0, false
}

// MarshalText encodes segment as its name
func (s Segment) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Class represents module classification, Slice and Segment are only set for usecases modules
type Class struct {
	Layer   Layer   `json:"layer" yaml:"layer"`
	Slice   string  `json:"slice,omitempty" yaml:"slice,omitempty"`
	Segment Segment `json:"segment" yaml:"segment"`
}

func (c Class) String() string {
	if c.Layer != Usecases {
		return c.Layer.String()
	}
	return c.Layer.String() + "/" + c.Slice + "/" + c.Segment.String()
}
