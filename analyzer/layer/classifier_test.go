package layer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/archgate/analyzer/layer"
)

func TestClassifier_Classify(t *testing.T) {
	var testCases = []struct {
		description string
		config      *layer.Config
		id          string
		expect      layer.Class
		expectErr   bool
	}{
		{description: "domain module", id: "domain.order", expect: layer.Class{Layer: layer.Domain}},
		{description: "layer package", id: "adapters", expect: layer.Class{Layer: layer.Adapters}},
		{description: "app module", id: "app.bootstrap.main", expect: layer.Class{Layer: layer.App}},
		{description: "usecases internal", id: "usecases.scene.service", expect: layer.Class{Layer: layer.Usecases, Slice: "scene", Segment: layer.Internal}},
		{description: "usecases slice package", id: "usecases.scene", expect: layer.Class{Layer: layer.Usecases, Slice: "scene", Segment: layer.Internal}},
		{description: "usecases api", id: "usecases.scene.api", expect: layer.Class{Layer: layer.Usecases, Slice: "scene", Segment: layer.API}},
		{description: "api submodule is not entry point", id: "usecases.scene.api.helpers", expect: layer.Class{Layer: layer.Usecases, Slice: "scene", Segment: layer.Internal}},
		{description: "usecases ports", id: "usecases.control.ports.vehicle_gateway", expect: layer.Class{Layer: layer.Usecases, Slice: "control", Segment: layer.Ports}},
		{description: "nested ports", id: "usecases.control.a.b.ports.x", expect: layer.Class{Layer: layer.Usecases, Slice: "control", Segment: layer.Ports}},
		{description: "bare usecases package is shared", id: "usecases", expect: layer.Class{Layer: layer.Usecases, Slice: "shared", Segment: layer.Internal}},
		{description: "shared slice", id: "usecases.shared.dto", expect: layer.Class{Layer: layer.Usecases, Slice: "shared", Segment: layer.Internal}},
		{description: "new slice without code change", id: "usecases.telemetry.api", expect: layer.Class{Layer: layer.Usecases, Slice: "telemetry", Segment: layer.API}},
		{
			description: "per slice entry point",
			config:      &layer.Config{Shared: "common", EntryPoint: "api", EntryPoints: map[string]string{"cli": "facade.public"}},
			id:          "usecases.cli.facade.public",
			expect:      layer.Class{Layer: layer.Usecases, Slice: "cli", Segment: layer.API},
		},
		{
			description: "custom shared slice",
			config:      &layer.Config{Shared: "common", EntryPoint: "api"},
			id:          "usecases",
			expect:      layer.Class{Layer: layer.Usecases, Slice: "common", Segment: layer.Internal},
		},
		{description: "unknown top-level package", id: "utils.strings", expectErr: true},
		{description: "empty identifier", id: "", expectErr: true},
	}

	for _, testCase := range testCases {
		classifier := layer.NewClassifier(testCase.config)
		actual, err := classifier.Classify(testCase.id)
		if testCase.expectErr {
			unclassifiable := &layer.UnclassifiableModuleError{}
			assert.True(t, errors.As(err, &unclassifiable), testCase.description)
			assert.Equal(t, testCase.id, unclassifiable.Module, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	classifier := layer.NewClassifier(nil)
	ids := []string{"domain.a", "usecases.x.api", "usecases.y.ports.z", "infrastructure.db"}
	for _, id := range ids {
		first, err := classifier.Classify(id)
		assert.Nil(t, err, id)
		second, err := classifier.Classify(id)
		assert.Nil(t, err, id)
		assert.Equal(t, first, second, id)
	}
}

func TestParse(t *testing.T) {
	for _, aLayer := range layer.Layers() {
		parsed, ok := layer.Parse(aLayer.String())
		assert.True(t, ok, aLayer.String())
		assert.Equal(t, aLayer, parsed)
	}
	_, ok := layer.Parse("shared")
	assert.False(t, ok)
	assert.Equal(t, "usecases/scene/api", layer.Class{Layer: layer.Usecases, Slice: "scene", Segment: layer.API}.String())
	assert.Equal(t, "domain", layer.Class{Layer: layer.Domain}.String())
}

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		config      *layer.Config
		expectErr   bool
	}{
		{description: "default", config: layer.DefaultConfig()},
		{description: "dotted entry point", config: &layer.Config{Shared: "shared", EntryPoint: "public.api"}},
		{description: "missing shared", config: &layer.Config{EntryPoint: "api"}, expectErr: true},
		{description: "invalid entry point", config: &layer.Config{Shared: "shared", EntryPoint: "api/v1"}, expectErr: true},
		{description: "invalid override", config: &layer.Config{Shared: "shared", EntryPoint: "api", EntryPoints: map[string]string{"cli": ""}}, expectErr: true},
	}
	for _, testCase := range testCases {
		err := testCase.config.Validate()
		assert.Equal(t, testCase.expectErr, err != nil, testCase.description)
	}
}
