package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/viant/archgate/analyzer"
	"github.com/viant/archgate/metrics"
)

func TestMetrics_Observe(t *testing.T) {
	failed := &analyzer.Report{
		Modules:           7,
		TotalEdgesChecked: 12,
		ExternalEdges:     3,
		Violations: []*analyzer.Violation{
			{Source: "domain.a", Rule: "layer:domain"},
			{Source: "domain.b", Rule: "layer:domain"},
			{Source: "usecases.x.y", Rule: "slice:x"},
		},
		ParseErrors: []*analyzer.ModuleError{{Module: "domain.c", Kind: analyzer.KindParse}},
	}
	aMetrics := metrics.New()
	aMetrics.Observe(failed)

	expect := `
# HELP archgate_violations Violations of the last run by rule.
# TYPE archgate_violations gauge
archgate_violations{rule="layer:domain"} 2
archgate_violations{rule="slice:x"} 1
`
	assert.Nil(t, testutil.GatherAndCompare(aMetrics.Registry(), strings.NewReader(expect), "archgate_violations"))
	expect = `
# HELP archgate_passed 1 when the last run passed, 0 otherwise.
# TYPE archgate_passed gauge
archgate_passed 0
`
	assert.Nil(t, testutil.GatherAndCompare(aMetrics.Registry(), strings.NewReader(expect), "archgate_passed"))
	count, err := testutil.GatherAndCount(aMetrics.Registry(), "archgate_edges")
	assert.Nil(t, err)
	assert.Equal(t, 3, count)

	aMetrics.Observe(&analyzer.Report{Modules: 7, TotalEdgesChecked: 12})
	assert.Nil(t, testutil.GatherAndCompare(aMetrics.Registry(), strings.NewReader(""), "archgate_violations"))
	expect = `
# HELP archgate_runs_total Completed gate runs by result.
# TYPE archgate_runs_total counter
archgate_runs_total{result="failed"} 1
archgate_runs_total{result="passed"} 1
`
	assert.Nil(t, testutil.GatherAndCompare(aMetrics.Registry(), strings.NewReader(expect), "archgate_runs_total"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	aMetrics := metrics.New()
	aMetrics.Observe(&analyzer.Report{Modules: 2, TotalEdgesChecked: 1, ExternalEdges: 4})
	location := filepath.Join(t.TempDir(), "archgate.prom")
	if !assert.Nil(t, aMetrics.WriteTextfile(location)) {
		return
	}
	data, err := os.ReadFile(location)
	assert.Nil(t, err)
	assert.Contains(t, string(data), "archgate_passed 1")
	assert.Contains(t, string(data), `archgate_edges{kind="external"} 4`)
	assert.Contains(t, string(data), "archgate_modules 2")
}
