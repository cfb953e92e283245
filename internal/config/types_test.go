// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		want    bool
		wantErr bool
	}{
		{ColorSchemeAuto, true, false},
		{ColorSchemeDark, true, false},
		{ColorSchemeLight, true, false},
		{"", false, true},
		{"solarized", false, true},
		{"DARK", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors, want error", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("ColorScheme(%q).IsValid() returned unexpected errors: %v", tt.scheme, errs)
			}
		})
	}
}

func TestFieldTypes_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		isValid  func() (bool, []error)
		want     bool
		sentinel error
	}{
		{"empty file path", FilePath("").IsValid, true, nil},
		{"file path", FilePath("reports/junit.xml").IsValid, true, nil},
		{"blank file path", FilePath("  ").IsValid, false, ErrInvalidFilePath},
		{"glob", GlobPattern("docs/**/*.md").IsValid, true, nil},
		{"brace glob", GlobPattern("src/**/*.{ts,tsx}").IsValid, true, nil},
		{"empty glob", GlobPattern("").IsValid, false, ErrInvalidGlobPattern},
		{"unclosed class", GlobPattern("docs/[a-").IsValid, false, ErrInvalidGlobPattern},
		{"extension", FileExtension(".md").IsValid, true, nil},
		{"no dot", FileExtension("md").IsValid, false, ErrInvalidFileExtension},
		{"bare dot", FileExtension(".").IsValid, false, ErrInvalidFileExtension},
		{"path in extension", FileExtension(".a/b").IsValid, false, ErrInvalidFileExtension},
		{"one job", JobCount(1).IsValid, true, nil},
		{"max jobs", JobCount(MaxJobs).IsValid, true, nil},
		{"zero jobs", JobCount(0).IsValid, false, ErrInvalidJobCount},
		{"too many jobs", JobCount(MaxJobs + 1).IsValid, false, ErrInvalidJobCount},
		{"limit", SuggestionLimit(5).IsValid, true, nil},
		{"zero limit", SuggestionLimit(0).IsValid, false, ErrInvalidSuggestionLimit},
		{"limit too high", SuggestionLimit(MaxSuggestionLimit + 1).IsValid, false, ErrInvalidSuggestionLimit},
		{"range threshold", RangeThreshold(1).IsValid, true, nil},
		{"zero range threshold", RangeThreshold(0).IsValid, false, ErrInvalidRangeThreshold},
		{"negative range threshold", RangeThreshold(-5).IsValid, false, ErrInvalidRangeThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, errs := tt.isValid()
			if got != tt.want {
				t.Fatalf("IsValid() = %v, want %v (errs: %v)", got, tt.want, errs)
			}
			if tt.sentinel != nil && (len(errs) != 1 || !errors.Is(errs[0], tt.sentinel)) {
				t.Errorf("errors = %v, want one wrapping %v", errs, tt.sentinel)
			}
			if tt.sentinel == nil && len(errs) != 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("DefaultConfig() is invalid: %v", errs)
	}
}

func TestConfig_IsValid_CollectsNestedErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Scan.Jobs = 0
	cfg.Scan.Extensions = append(cfg.Scan.Extensions, "md")
	cfg.UI.ColorScheme = "neon"
	cfg.Suggest.Limit = 99
	cfg.Validate.LargeRangeThreshold = 0

	valid, errs := cfg.IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", valid, errs)
	}

	err := errs[0]
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", err)
	}

	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got %T", err)
	}
	if len(cfgErr.FieldErrors) != 4 {
		t.Errorf("FieldErrors = %d, want 4 (scan, ui, suggest, validate)", len(cfgErr.FieldErrors))
	}

	var scanErr *InvalidScanConfigError
	if !errors.As(cfgErr.FieldErrors[0], &scanErr) || len(scanErr.FieldErrors) != 2 {
		t.Errorf("scan section errors = %v", cfgErr.FieldErrors[0])
	}

	msg := err.Error()
	for _, want := range []string{`"md"`, "job count 0", `"neon"`, "suggestion limit 99", "large range threshold 0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %q: %s", want, msg)
		}
	}
}
