// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MaxJobs bounds the scan worker count.
	MaxJobs = 64
	// MaxSuggestionLimit bounds the number of completions per suggest call.
	MaxSuggestionLimit = 50
	// DefaultLargeRangeThreshold is the unit count above which a range draws a warning.
	DefaultLargeRangeThreshold = 100
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidFilePath is returned when a FilePath value is whitespace-only.
	ErrInvalidFilePath = errors.New("invalid file path")
	// ErrInvalidGlobPattern is returned when a GlobPattern is empty or malformed.
	ErrInvalidGlobPattern = errors.New("invalid glob pattern")
	// ErrInvalidFileExtension is returned when a FileExtension is not of the form ".ext".
	ErrInvalidFileExtension = errors.New("invalid file extension")
	// ErrInvalidJobCount is returned when a JobCount is outside 1..MaxJobs.
	ErrInvalidJobCount = errors.New("invalid job count")
	// ErrInvalidSuggestionLimit is returned when a SuggestionLimit is outside 1..MaxSuggestionLimit.
	ErrInvalidSuggestionLimit = errors.New("invalid suggestion limit")
	// ErrInvalidRangeThreshold is returned when a RangeThreshold is not positive.
	ErrInvalidRangeThreshold = errors.New("invalid range threshold")
	// ErrInvalidScanConfig is the sentinel error wrapped by InvalidScanConfigError.
	ErrInvalidScanConfig = errors.New("invalid scan config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidSuggestConfig is the sentinel error wrapped by InvalidSuggestConfigError.
	ErrInvalidSuggestConfig = errors.New("invalid suggest config")
	// ErrInvalidValidateConfig is the sentinel error wrapped by InvalidValidateConfigError.
	ErrInvalidValidateConfig = errors.New("invalid validate config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// FilePath is an optional filesystem path.
	// The zero value ("") is valid and means "not set".
	FilePath string

	// InvalidFilePathError is returned when a FilePath value is
	// non-empty but whitespace-only.
	InvalidFilePathError struct {
		Value FilePath
	}

	// GlobPattern is a doublestar pattern such as "docs/**/*.md".
	GlobPattern string

	// InvalidGlobPatternError is returned when a GlobPattern is empty or
	// cannot be parsed.
	InvalidGlobPatternError struct {
		Value GlobPattern
	}

	// FileExtension is a file name suffix including the leading dot.
	FileExtension string

	// InvalidFileExtensionError is returned when a FileExtension is malformed.
	InvalidFileExtensionError struct {
		Value FileExtension
	}

	// JobCount is the number of files scanned in parallel.
	JobCount int

	// InvalidJobCountError is returned when a JobCount is out of range.
	InvalidJobCountError struct {
		Value JobCount
	}

	// SuggestionLimit caps the completions returned for a partial code.
	SuggestionLimit int

	// InvalidSuggestionLimitError is returned when a SuggestionLimit is out of range.
	InvalidSuggestionLimitError struct {
		Value SuggestionLimit
	}

	// InvalidScanConfigError is returned when a ScanConfig has invalid fields.
	// It wraps ErrInvalidScanConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidScanConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// RangeThreshold is the unit count above which an installation range draws a warning.
	RangeThreshold int

	// InvalidRangeThresholdError is returned when a RangeThreshold is not positive.
	InvalidRangeThresholdError struct {
		Value RangeThreshold
	}

	// InvalidValidateConfigError is returned when a ValidateConfig has invalid fields.
	InvalidValidateConfigError struct {
		FieldErrors []error
	}

	// InvalidSuggestConfigError is returned when a SuggestConfig has invalid fields.
	InvalidSuggestConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Registry is a CUE or TOML registry file; empty uses the built-in registry.
		Registry FilePath `json:"registry" yaml:"registry" mapstructure:"registry"`
		// Scan configures `utcs scan`.
		Scan ScanConfig `json:"scan" yaml:"scan" mapstructure:"scan"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" yaml:"ui" mapstructure:"ui"`
		// Suggest configures `utcs suggest`.
		Suggest SuggestConfig `json:"suggest" yaml:"suggest" mapstructure:"suggest"`
		// Validate tunes the checks shared by validate, scan and parse.
		Validate ValidateConfig `json:"validate" yaml:"validate" mapstructure:"validate"`

		// Source is the file the configuration was read from, empty for defaults.
		Source string `json:"-" yaml:"-" mapstructure:"-"`
	}

	// ScanConfig configures batch scanning.
	ScanConfig struct {
		// Patterns are scanned when no arguments are given.
		Patterns []GlobPattern `json:"patterns" yaml:"patterns" mapstructure:"patterns"`
		// Ignore excludes matching paths from every scan.
		Ignore []GlobPattern `json:"ignore" yaml:"ignore" mapstructure:"ignore"`
		// Extensions filters files found by walking directories.
		Extensions []FileExtension `json:"extensions" yaml:"extensions" mapstructure:"extensions"`
		// Jobs is the number of files scanned in parallel.
		Jobs JobCount `json:"jobs" yaml:"jobs" mapstructure:"jobs"`
		// JUnitOutput writes a JUnit XML report when set.
		JUnitOutput FilePath `json:"junit_output" yaml:"junit_output" mapstructure:"junit_output"`
		// FailOnWarnings makes codes with warnings fail the scan.
		FailOnWarnings bool `json:"fail_on_warnings" yaml:"fail_on_warnings" mapstructure:"fail_on_warnings"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	}

	// SuggestConfig configures code completion.
	SuggestConfig struct {
		Limit SuggestionLimit `json:"limit" yaml:"limit" mapstructure:"limit"`
	}

	// ValidateConfig configures code validation.
	ValidateConfig struct {
		LargeRangeThreshold RangeThreshold `json:"large_range_threshold" yaml:"large_range_threshold" mapstructure:"large_range_threshold"`
	}
)

// IsValid returns whether the ScanConfig has valid fields.
func (c ScanConfig) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.Patterns {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, p := range c.Ignore {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, ext := range c.Extensions {
		if valid, fieldErrs := ext.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Jobs.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.JUnitOutput.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidScanConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScanConfigError.
func (e *InvalidScanConfigError) Error() string {
	return fmt.Sprintf("invalid scan config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidScanConfig for errors.Is() compatibility.
func (e *InvalidScanConfigError) Unwrap() error { return ErrInvalidScanConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the SuggestConfig has valid fields.
func (c SuggestConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.Limit.IsValid(); !valid {
		return false, []error{&InvalidSuggestConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSuggestConfigError.
func (e *InvalidSuggestConfigError) Error() string {
	return fmt.Sprintf("invalid suggest config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidSuggestConfig for errors.Is() compatibility.
func (e *InvalidSuggestConfigError) Unwrap() error { return ErrInvalidSuggestConfig }

// IsValid returns whether the ValidateConfig has valid fields.
func (c ValidateConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.LargeRangeThreshold.IsValid(); !valid {
		return false, []error{&InvalidValidateConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidValidateConfigError.
func (e *InvalidValidateConfigError) Error() string {
	return fmt.Sprintf("invalid validate config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidValidateConfig for errors.Is() compatibility.
func (e *InvalidValidateConfigError) Unwrap() error { return ErrInvalidValidateConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Registry, Scan, UI, Suggest and Validate.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Registry.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Scan.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Suggest.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Validate.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, leafMessages(err)...)
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// leafMessages flattens nested section errors into their field messages.
func leafMessages(err error) []string {
	var fields []error
	switch e := err.(type) {
	case *InvalidScanConfigError:
		fields = e.FieldErrors
	case *InvalidUIConfigError:
		fields = e.FieldErrors
	case *InvalidSuggestConfigError:
		fields = e.FieldErrors
	case *InvalidValidateConfigError:
		fields = e.FieldErrors
	default:
		return []string{err.Error()}
	}
	var out []string
	for _, f := range fields {
		out = append(out, leafMessages(f)...)
	}
	return out
}

// String returns the string representation of the FilePath.
func (p FilePath) String() string { return string(p) }

// IsValid returns whether the FilePath is valid.
// The zero value ("") is valid. Non-zero values must not be whitespace-only.
func (p FilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFilePathError.
func (e *InvalidFilePathError) Error() string {
	return fmt.Sprintf("invalid file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidFilePath for errors.Is() compatibility.
func (e *InvalidFilePathError) Unwrap() error { return ErrInvalidFilePath }

// String returns the string representation of the GlobPattern.
func (g GlobPattern) String() string { return string(g) }

// IsValid returns whether the pattern is non-empty and parses as a doublestar glob.
func (g GlobPattern) IsValid() (bool, []error) {
	if strings.TrimSpace(string(g)) == "" || !doublestar.ValidatePattern(filepath.ToSlash(string(g))) {
		return false, []error{&InvalidGlobPatternError{Value: g}}
	}
	return true, nil
}

// Error implements the error interface for InvalidGlobPatternError.
func (e *InvalidGlobPatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q", e.Value)
}

// Unwrap returns ErrInvalidGlobPattern for errors.Is() compatibility.
func (e *InvalidGlobPatternError) Unwrap() error { return ErrInvalidGlobPattern }

// String returns the string representation of the FileExtension.
func (x FileExtension) String() string { return string(x) }

// IsValid returns whether the extension is a dot followed by letters or digits.
func (x FileExtension) IsValid() (bool, []error) {
	s := string(x)
	if len(s) < 2 || s[0] != '.' {
		return false, []error{&InvalidFileExtensionError{Value: x}}
	}
	for _, r := range s[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false, []error{&InvalidFileExtensionError{Value: x}}
		}
	}
	return true, nil
}

// Error implements the error interface for InvalidFileExtensionError.
func (e *InvalidFileExtensionError) Error() string {
	return fmt.Sprintf("invalid file extension %q (expected e.g. \".md\")", e.Value)
}

// Unwrap returns ErrInvalidFileExtension for errors.Is() compatibility.
func (e *InvalidFileExtensionError) Unwrap() error { return ErrInvalidFileExtension }

// IsValid returns whether the job count is within 1..MaxJobs.
func (n JobCount) IsValid() (bool, []error) {
	if n < 1 || n > MaxJobs {
		return false, []error{&InvalidJobCountError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidJobCountError.
func (e *InvalidJobCountError) Error() string {
	return fmt.Sprintf("invalid job count %d (valid: 1-%d)", e.Value, MaxJobs)
}

// Unwrap returns ErrInvalidJobCount for errors.Is() compatibility.
func (e *InvalidJobCountError) Unwrap() error { return ErrInvalidJobCount }

// IsValid returns whether the limit is within 1..MaxSuggestionLimit.
func (n SuggestionLimit) IsValid() (bool, []error) {
	if n < 1 || n > MaxSuggestionLimit {
		return false, []error{&InvalidSuggestionLimitError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSuggestionLimitError.
func (e *InvalidSuggestionLimitError) Error() string {
	return fmt.Sprintf("invalid suggestion limit %d (valid: 1-%d)", e.Value, MaxSuggestionLimit)
}

// Unwrap returns ErrInvalidSuggestionLimit for errors.Is() compatibility.
func (e *InvalidSuggestionLimitError) Unwrap() error { return ErrInvalidSuggestionLimit }

// IsValid returns whether the threshold is positive.
func (n RangeThreshold) IsValid() (bool, []error) {
	if n < 1 {
		return false, []error{&InvalidRangeThresholdError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRangeThresholdError.
func (e *InvalidRangeThresholdError) Error() string {
	return fmt.Sprintf("invalid large range threshold %d (must be at least 1)", e.Value)
}

// Unwrap returns ErrInvalidRangeThreshold for errors.Is() compatibility.
func (e *InvalidRangeThresholdError) Unwrap() error { return ErrInvalidRangeThreshold }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultIgnore lists the paths every scan skips unless configured otherwise.
func DefaultIgnore() []GlobPattern {
	return []GlobPattern{"node_modules/**", "dist/**", "build/**", ".git/**"}
}

// DefaultExtensions lists the file types considered when walking directories.
func DefaultExtensions() []FileExtension {
	return []FileExtension{
		".md", ".mdx", ".txt", ".html", ".htm",
		".ts", ".tsx", ".js", ".jsx", ".go",
		".cue", ".toml", ".yaml", ".yml", ".json", ".csv",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Registry: "",
		Scan: ScanConfig{
			Patterns:       []GlobPattern{},
			Ignore:         DefaultIgnore(),
			Extensions:     DefaultExtensions(),
			Jobs:           4,
			JUnitOutput:    "",
			FailOnWarnings: false,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Suggest: SuggestConfig{
			Limit: 5,
		},
		Validate: ValidateConfig{
			LargeRangeThreshold: DefaultLargeRangeThreshold,
		},
	}
}
