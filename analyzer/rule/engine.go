package rule

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/viant/archgate/analyzer/layer"
	"github.com/viant/archgate/inspector/info"
)

const (
	layerRulePrefix   = "layer:"
	sliceRulePrefix   = "slice:"
	moduleRulePrefix  = "module:"
	exportsRulePrefix = "exports:"
)

// Verdict represents the outcome of evaluating one edge
type Verdict struct {
	Permitted bool
	Rule      string
	Reason    string
}

// DefinitionVerdict represents a denied top-level definition, Line is 0 for a missing one
type DefinitionVerdict struct {
	Definition info.Definition
	Verdict
}

type moduleRule struct {
	id       string
	patterns []*Pattern
}

// Engine evaluates edges against an immutable policy
type Engine struct {
	classifier *layer.Classifier
	shared     string
	layers     map[layer.Layer][]*Pattern
	modules    []*moduleRule
	exports    map[string]*Exports
}

// NewEngine validates policy and creates a rule engine, nil classifier is built from policy slices
func NewEngine(policy *Policy, classifier *layer.Classifier) (*Engine, error) {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	if classifier == nil {
		classifier = layer.NewClassifier(policy.Slices)
	}
	ret := &Engine{classifier: classifier, shared: classifier.Shared(), layers: map[layer.Layer][]*Pattern{}}
	for _, aLayer := range layer.Layers() {
		for _, raw := range policy.Layers[aLayer.String()] {
			pattern, err := ParsePattern(raw)
			if err != nil {
				return nil, err
			}
			ret.layers[aLayer] = append(ret.layers[aLayer], pattern)
		}
	}
	for id, raws := range policy.Modules {
		aRule := &moduleRule{id: id}
		for _, raw := range raws {
			pattern, err := ParsePattern(raw)
			if err != nil {
				return nil, err
			}
			aRule.patterns = append(aRule.patterns, pattern)
		}
		ret.modules = append(ret.modules, aRule)
	}
	sort.Slice(ret.modules, func(i, j int) bool { return ret.modules[i].id < ret.modules[j].id })
	ret.exports = policy.Exports
	return ret, nil
}

// Classifier returns the classifier the engine was built with
func (e *Engine) Classifier() *layer.Classifier {
	return e.classifier
}

// Evaluate applies the layer table, the module table, then the usecases slice table when both endpoints are usecases
func (e *Engine) Evaluate(sourceID, targetID string, source, target layer.Class) Verdict {
	if verdict := e.evaluateLayer(source, target, targetID); !verdict.Permitted {
		return verdict
	}
	if verdict := e.evaluateModule(sourceID, target, targetID); !verdict.Permitted {
		return verdict
	}
	if source.Layer == layer.Usecases && target.Layer == layer.Usecases {
		return e.evaluateSlice(source, target)
	}
	return Verdict{Permitted: true}
}

// Permits classifies both endpoints of an edge and evaluates it, external edges are always permitted
func (e *Engine) Permits(edge *info.Import) (bool, string) {
	if edge.External {
		return true, ""
	}
	source, err := e.classifier.Classify(edge.Source)
	if err != nil {
		return false, err.Error()
	}
	target, err := e.classifier.Classify(edge.Target)
	if err != nil {
		return false, err.Error()
	}
	verdict := e.Evaluate(edge.Source, edge.Target, source, target)
	return verdict.Permitted, verdict.Reason
}

func (e *Engine) evaluateLayer(source, target layer.Class, targetID string) Verdict {
	patterns := e.layers[source.Layer]
	var via *Pattern
	for _, pattern := range patterns {
		if pattern.Matches(target, targetID) {
			return Verdict{Permitted: true}
		}
		if pattern.IsWildcard() && pattern.Layer == target.Layer && via == nil {
			via = pattern
		}
	}
	ret := Verdict{Rule: layerRulePrefix + source.Layer.String()}
	if via != nil {
		ret.Reason = fmt.Sprintf("%v may depend on %v only via %v", source.Layer, target.Layer, via.Raw)
		return ret
	}
	raws := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		raws = append(raws, pattern.Raw)
	}
	ret.Reason = fmt.Sprintf("%v may only depend on %v", source.Layer, strings.Join(raws, "/"))
	return ret
}

func (e *Engine) evaluateModule(sourceID string, target layer.Class, targetID string) Verdict {
	for _, aRule := range e.modules {
		if sourceID != aRule.id && !strings.HasPrefix(sourceID, aRule.id+".") {
			continue
		}
		for _, pattern := range aRule.patterns {
			if pattern.Matches(target, targetID) {
				return Verdict{
					Rule:   moduleRulePrefix + aRule.id,
					Reason: fmt.Sprintf("%v must not depend on %v", aRule.id, pattern.Raw),
				}
			}
		}
	}
	return Verdict{Permitted: true}
}

// HasExports returns true when the module's top-level definitions are restricted
func (e *Engine) HasExports(moduleID string) bool {
	_, ok := e.exports[moduleID]
	return ok
}

// CheckDefinitions compares top-level definitions with the module's exports, in definition order then missing names
func (e *Engine) CheckDefinitions(moduleID string, definitions []info.Definition) []*DefinitionVerdict {
	exports, ok := e.exports[moduleID]
	if !ok {
		return nil
	}
	allowed := map[info.DefinitionKind][]string{
		info.DefinitionFunction: exports.Functions,
		info.DefinitionClass:    exports.Classes,
	}
	aRule := exportsRulePrefix + moduleID
	reason := fmt.Sprintf("%v may only define %v", moduleID, describeExports(exports))
	var ret []*DefinitionVerdict
	defined := map[info.DefinitionKind]map[string]bool{}
	for _, definition := range definitions {
		if defined[definition.Kind] == nil {
			defined[definition.Kind] = map[string]bool{}
		}
		defined[definition.Kind][definition.Name] = true
		if slices.Contains(allowed[definition.Kind], definition.Name) {
			continue
		}
		ret = append(ret, &DefinitionVerdict{Definition: definition, Verdict: Verdict{Rule: aRule, Reason: reason}})
	}
	for _, kind := range []info.DefinitionKind{info.DefinitionFunction, info.DefinitionClass} {
		for _, name := range allowed[kind] {
			if defined[kind][name] {
				continue
			}
			ret = append(ret, &DefinitionVerdict{
				Definition: info.Definition{Name: name, Kind: kind},
				Verdict:    Verdict{Rule: aRule, Reason: fmt.Sprintf("%v must define %v %v", moduleID, kind, name)},
			})
		}
	}
	return ret
}

func describeExports(exports *Exports) string {
	describe := func(kind string, names []string) string {
		if len(names) == 0 {
			return "no " + kind
		}
		return kind + " " + strings.Join(names, ", ")
	}
	return describe("functions", exports.Functions) + " and " + describe("classes", exports.Classes)
}

func (e *Engine) evaluateSlice(source, target layer.Class) Verdict {
	switch {
	case source.Slice == target.Slice:
		return Verdict{Permitted: true}
	case target.Slice == e.shared:
		return Verdict{Permitted: true}
	case source.Slice == e.shared:
		return Verdict{
			Rule:   sliceRulePrefix + source.Slice,
			Reason: fmt.Sprintf("%v may only depend on %v and domain", e.shared, e.shared),
		}
	case target.Segment == layer.API:
		return Verdict{Permitted: true}
	}
	return Verdict{
		Rule:   sliceRulePrefix + source.Slice,
		Reason: fmt.Sprintf("cross-slice import of internal module; use the slice's api or %v", e.shared),
	}
}
