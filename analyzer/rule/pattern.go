package rule

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/archgate/analyzer/layer"
)

// AnyPattern permits every target layer
const AnyPattern = "*"

const depthWildcard = "/**/"

// Pattern represents a target predicate: any layer, exact layer, layer/**/segment, or a dotted module
type Pattern struct {
	Raw     string
	Any     bool
	Layer   layer.Layer
	Segment *layer.Segment // Set for depth wildcard patterns
	Module  string         // Set for module patterns, matches the module and its submodules
}

// ParsePattern parses a target pattern
func ParsePattern(raw string) (*Pattern, error) {
	if raw == AnyPattern {
		return &Pattern{Raw: raw, Any: true}, nil
	}
	if strings.Contains(raw, ".") && !strings.Contains(raw, "/") {
		return parseModulePattern(raw)
	}
	head, tail, isWildcard := strings.Cut(raw, depthWildcard)
	if !isWildcard && strings.Contains(raw, "/") {
		return nil, fmt.Errorf("pattern %q: expected <layer>%s<segment>", raw, depthWildcard)
	}
	aLayer, ok := layer.Parse(head)
	if !ok {
		return nil, fmt.Errorf("pattern %q: unknown layer %q", raw, head)
	}
	ret := &Pattern{Raw: raw, Layer: aLayer}
	if !isWildcard {
		return ret, nil
	}
	segment, ok := layer.ParseSegment(tail)
	if !ok || !doublestar.ValidatePattern(raw) {
		return nil, fmt.Errorf("pattern %q: unknown segment %q", raw, tail)
	}
	if aLayer != layer.Usecases {
		return nil, fmt.Errorf("pattern %q: segments exist only under %v", raw, layer.Usecases)
	}
	ret.Segment = &segment
	return ret, nil
}

func parseModulePattern(raw string) (*Pattern, error) {
	parts := strings.Split(raw, ".")
	aLayer, ok := layer.Parse(parts[0])
	if !ok {
		return nil, fmt.Errorf("pattern %q: unknown layer %q", raw, parts[0])
	}
	for _, part := range parts[1:] {
		if part == "" {
			return nil, fmt.Errorf("pattern %q: empty module component", raw)
		}
	}
	return &Pattern{Raw: raw, Layer: aLayer, Module: raw}, nil
}

// IsWildcard returns true for depth wildcard patterns
func (p *Pattern) IsWildcard() bool {
	return p.Segment != nil
}

// Matches reports whether the classified target satisfies the pattern
func (p *Pattern) Matches(target layer.Class, targetID string) bool {
	if p.Any {
		return true
	}
	if target.Layer != p.Layer {
		return false
	}
	if p.Module != "" {
		return targetID == p.Module || strings.HasPrefix(targetID, p.Module+".")
	}
	return p.Segment == nil || *p.Segment == target.Segment
}
