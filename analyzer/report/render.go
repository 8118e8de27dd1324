// Package report renders gate reports for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/viant/archgate/analyzer"
	"gopkg.in/yaml.v3"
)

// Format represents report output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats returns supported formats
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// ParseFormat returns the format with the given name, empty name means text
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	for _, candidate := range Formats() {
		if string(candidate) == strings.ToLower(name) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %q", name)
}

// Render writes report in the given format
func Render(w io.Writer, aReport *analyzer.Report, format Format) error {
	switch format {
	case FormatText, "":
		return renderText(w, aReport)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(aReport)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(aReport); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unsupported format: %q", format)
}

func renderText(w io.Writer, aReport *analyzer.Report) error {
	builder := &strings.Builder{}
	for _, violation := range aReport.Violations {
		subject := "import"
		if violation.Kind == analyzer.ViolationDefinition {
			subject = "definition"
		}
		fmt.Fprintf(builder, "%s:%d: %s of %s violates %s (%s)\n", violation.Source, violation.Line, subject, violation.Target, violation.Rule, violation.Reason)
	}
	for _, parseErr := range aReport.ParseErrors {
		fmt.Fprintf(builder, "%s:%d: %s error: %s\n", parseErr.Module, parseErr.Line, parseErr.Kind, parseErr.Message)
	}
	verdict := "PASSED"
	if !aReport.Passed() {
		verdict = "FAILED"
	}
	fmt.Fprintf(builder, "%s: %d modules, %d edges checked, %d external, %d violations, %d parse errors\n",
		verdict, aReport.Modules, aReport.TotalEdgesChecked, aReport.ExternalEdges, len(aReport.Violations), len(aReport.ParseErrors))
	_, err := io.WriteString(w, builder.String())
	return err
}
