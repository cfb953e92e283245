// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ampel360/utcs/internal/scanner"
)

const (
	// FormatText is the styled terminal output.
	FormatText Format = "text"
	// FormatJSON is the JSON run report.
	FormatJSON Format = "json"
	// FormatYAML is the YAML run report.
	FormatYAML Format = "yaml"
	// FormatMarkdown is the markdown summary.
	FormatMarkdown Format = "markdown"

	// ToolName identifies the producer in run reports.
	ToolName = "utcs"
)

// ErrInvalidFormat is the sentinel for an unknown output format.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects how results are written.
	Format string

	// InvalidFormatError reports a format outside the accepted set.
	InvalidFormatError struct {
		Value   Format
		Allowed []Format
	}

	// Meta describes the run that produced a summary.
	Meta struct {
		Version string
		// Registry names the registry source, e.g. "default_registry.cue".
		Registry string
		// Time is converted to UTC. Zero means now.
		Time           time.Time
		FailOnWarnings bool
	}

	// Run is the machine-readable report of one scan.
	Run struct {
		Tool           string           `json:"tool" yaml:"tool"`
		Version        string           `json:"version" yaml:"version"`
		Timestamp      string           `json:"timestamp" yaml:"timestamp"`
		Registry       string           `json:"registry" yaml:"registry"`
		Passed         bool             `json:"passed" yaml:"passed"`
		FailOnWarnings bool             `json:"fail_on_warnings" yaml:"fail_on_warnings"`
		Summary        *scanner.Summary `json:"summary" yaml:"summary"`
	}
)

// Formats returns the formats accepted by scan.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown}
}

// IsValid reports whether f is one of allowed. An empty allowed list means
// every known format.
func (f Format) IsValid(allowed ...Format) (bool, []error) {
	if len(allowed) == 0 {
		allowed = Formats()
	}
	for _, a := range allowed {
		if f == a {
			return true, nil
		}
	}
	return false, []error{&InvalidFormatError{Value: f, Allowed: allowed}}
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (allowed: %v)", e.Value, e.Allowed)
}

// Unwrap returns ErrInvalidFormat.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// New builds the run report for sum.
func New(sum *scanner.Summary, meta Meta) Run {
	ts := meta.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	if sum == nil {
		sum = scanner.Summarize(nil)
	}
	return Run{
		Tool:           ToolName,
		Version:        meta.Version,
		Timestamp:      ts.UTC().Format(time.RFC3339),
		Registry:       meta.Registry,
		Passed:         sum.Passed(meta.FailOnWarnings),
		FailOnWarnings: meta.FailOnWarnings,
		Summary:        sum,
	}
}

// WriteJSON writes run as indented JSON.
func WriteJSON(w io.Writer, run Run) error {
	return EncodeJSON(w, run)
}

// WriteYAML writes run as YAML.
func WriteYAML(w io.Writer, run Run) error {
	return EncodeYAML(w, run)
}

// EncodeJSON writes any value as indented JSON followed by a newline.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// EncodeYAML writes any value as YAML with two-space indentation.
func EncodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}
