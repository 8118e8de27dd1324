package analyzer

import (
	"fmt"

	"github.com/viant/archgate/inspector/info"
	"gopkg.in/yaml.v3"
)

// ErrorKind classifies a per-module finding
type ErrorKind string

const (
	KindParse          ErrorKind = "parse"
	KindUnclassifiable ErrorKind = "unclassifiable"
	KindImport         ErrorKind = "import"
	KindRead           ErrorKind = "read"
)

// ViolationKind classifies what a violation denies, empty means an import edge
type ViolationKind string

const (
	ViolationImport     ViolationKind = ""
	ViolationDefinition ViolationKind = "definition"
)

// Violation represents an import edge or a top-level definition denied by the policy
type Violation struct {
	Kind   ViolationKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Source string        `json:"source" yaml:"source"`
	Path   string        `json:"path" yaml:"path"`
	Line   int           `json:"line" yaml:"line"`
	Target string        `json:"target" yaml:"target"`
	Raw    string        `json:"raw" yaml:"raw"`
	Rule   string        `json:"rule" yaml:"rule"`
	Reason string        `json:"reason" yaml:"reason"`
}

// ModuleError represents a non-fatal per-module finding
type ModuleError struct {
	Module  string    `json:"module" yaml:"module"`
	Path    string    `json:"path" yaml:"path"`
	Line    int       `json:"line,omitempty" yaml:"line,omitempty"`
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
}

// Report represents the outcome of one gate run
type Report struct {
	Root              string         `json:"root" yaml:"root"`
	Modules           int            `json:"modules" yaml:"modules"`
	TotalEdgesChecked int            `json:"totalEdgesChecked" yaml:"totalEdgesChecked"`
	ExternalEdges     int            `json:"externalEdges" yaml:"externalEdges"`
	UnresolvedEdges   int            `json:"unresolvedEdges" yaml:"unresolvedEdges"`
	Violations        []*Violation   `json:"violations" yaml:"violations"`
	ParseErrors       []*ModuleError `json:"parseErrors" yaml:"parseErrors"`
	Fingerprint       string         `json:"fingerprint" yaml:"fingerprint"`
}

// Passed returns true when there are no violations and no parse errors
func (r *Report) Passed() bool {
	return len(r.Violations) == 0 && len(r.ParseErrors) == 0
}

type sourceDigest struct {
	ID   string
	Hash uint64
}

// fingerprint hashes report content and module source digests, root location excluded
func (r *Report) fingerprint(modules []*info.Module) (string, error) {
	sources := make([]sourceDigest, 0, len(modules))
	for _, module := range modules {
		sources = append(sources, sourceDigest{ID: module.ID, Hash: module.Hash})
	}
	content := struct {
		Modules           int
		TotalEdgesChecked int
		ExternalEdges     int
		UnresolvedEdges   int
		Violations        []*Violation
		ParseErrors       []*ModuleError
		Sources           []sourceDigest
	}{r.Modules, r.TotalEdgesChecked, r.ExternalEdges, r.UnresolvedEdges, r.Violations, r.ParseErrors, sources}
	data, err := yaml.Marshal(content)
	if err != nil {
		return "", err
	}
	hash, err := info.Hash(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", hash), nil
}
