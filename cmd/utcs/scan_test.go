// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ampel360/utcs/internal/config"
	"github.com/ampel360/utcs/internal/issue"
	"github.com/ampel360/utcs/internal/report"
	"github.com/ampel360/utcs/internal/testutil"
)

func TestScanCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    map[string]string
		flags    []string
		wantExit bool
		contains []string
	}{
		{
			name:     "all valid",
			files:    map[string]string{"a.md": "See " + validCode + ".\n"},
			contains: []string{"All UTCS codes are valid!", "Files scanned:     1", "Valid codes:       1"},
		},
		{
			name:     "invalid code fails",
			files:    map[string]string{"a.md": validCode + "\n", "b.md": invalidCode + "\n"},
			wantExit: true,
			contains: []string{"Validation failed! Found invalid UTCS codes.", "Files with invalid codes:", "(1 errors)", "Unknown UTCS domain/category: 999999"},
		},
		{
			name:     "warnings tolerated",
			files:    map[string]string{"a.md": warningCode},
			contains: []string{"All UTCS codes are valid!", "Codes w/ warnings: 1"},
		},
		{
			name:     "warnings fail on request",
			files:    map[string]string{"a.md": warningCode},
			flags:    []string{"--fail-on-warnings"},
			wantExit: true,
			contains: []string{"Found UTCS codes with warnings"},
		},
		{
			name:     "extension filter",
			files:    map[string]string{"a.md": validCode, "b.rst": invalidCode},
			contains: []string{"Files scanned:     1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.WriteTree(t, tt.files)
			args := append([]string{"scan", dir}, tt.flags...)
			res := runCLI(t, Dependencies{}, "", args...)
			if tt.wantExit {
				wantExitCode(t, res.err, 1)
			} else if res.err != nil {
				t.Fatalf("unexpected error: %v", res.err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(res.stdout, want) {
					t.Errorf("stdout missing %q:\n%s", want, res.stdout)
				}
			}
		})
	}
}

func TestScanCommand_JSON(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"docs/a.md": validCode + " and " + invalidCode,
		"docs/b.md": "nothing",
	})
	res := runCLI(t, Dependencies{}, "", "scan", "--format", "json", filepath.Join(dir, "docs", "*.md"))
	wantExitCode(t, res.err, 1)

	var run report.Run
	if err := json.Unmarshal([]byte(res.stdout), &run); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, res.stdout)
	}
	if run.Tool != report.ToolName || run.Passed || run.Registry == "" {
		t.Errorf("run = %+v", run)
	}
	if run.Summary == nil || run.Summary.FilesScanned != 2 || run.Summary.TotalCodes != 2 || run.Summary.InvalidCodes != 1 {
		t.Fatalf("summary = %+v", run.Summary)
	}
	if got := filepath.Base(run.Summary.Results[0].File); got != "a.md" {
		t.Errorf("first result = %s, want a.md", got)
	}
}

func TestScanCommand_Markdown(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"a.md": validCode})
	res := runCLI(t, Dependencies{}, "", "scan", "-f", "markdown", dir)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "UTCS Scan Summary") || !strings.Contains(res.stdout, "passed") {
		t.Errorf("stdout:\n%s", res.stdout)
	}
}

func TestScanCommand_JUnit(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"a.md": validCode + "\n" + invalidCode})
	out := filepath.Join(t.TempDir(), "reports", "utcs.xml")

	res := runCLI(t, Dependencies{}, "", "scan", "--junit", out, dir)
	wantExitCode(t, res.err, 1)
	if !strings.Contains(res.stderr, "JUnit report written to "+out) {
		t.Errorf("stderr:\n%s", res.stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var suites report.JUnitSuites
	if err := xml.Unmarshal(data, &suites); err != nil {
		t.Fatalf("invalid XML: %v", err)
	}
	if suites.Tests != 2 || suites.Failures != 1 {
		t.Errorf("tests/failures = %d/%d, want 2/1", suites.Tests, suites.Failures)
	}
}

func TestScanCommand_ConfigDefaults(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"a.md": warningCode, "notes.txt": invalidCode})
	junit := filepath.Join(t.TempDir(), "junit.xml")

	cfg := config.DefaultConfig()
	cfg.Scan.Patterns = []config.GlobPattern{config.GlobPattern(filepath.Join(dir, "*.md"))}
	cfg.Scan.JUnitOutput = config.FilePath(junit)
	cfg.Scan.FailOnWarnings = true
	deps := Dependencies{Config: config.StaticProvider{Config: cfg}}

	res := runCLI(t, deps, "", "scan")
	wantExitCode(t, res.err, 1)
	if _, err := os.Stat(junit); err != nil {
		t.Errorf("junit_output from config not honored: %v", err)
	}

	// Flags override the configuration.
	res = runCLI(t, deps, "", "scan", "--fail-on-warnings=false")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
}

func TestScanCommand_NoFiles(t *testing.T) {
	t.Parallel()

	res := runCLI(t, Dependencies{}, "", "scan", t.TempDir())
	wantIssue(t, res.err, issue.NoFilesMatchedId)
}

func TestScanCommand_InvalidFormat(t *testing.T) {
	t.Parallel()

	res := runCLI(t, Dependencies{}, "", "scan", "--format", "html", t.TempDir())
	wantIssue(t, res.err, issue.InvalidOutputFormatId)
}

func TestWatchPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		targets []string
		want    []string
	}{
		{[]string{"**/*.md", "docs/*.txt"}, []string{"**/*.md", "docs/*.txt"}},
		{[]string{"**/*.md", "README.md"}, nil},
		{[]string{"."}, nil},
		{[]string{"/abs/**/*.md"}, nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, watchPatterns(tt.targets)); diff != "" {
			t.Errorf("watchPatterns(%v) mismatch (-want +got):\n%s", tt.targets, diff)
		}
	}
}
