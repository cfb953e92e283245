// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/ampel360/utcs/internal/issue"
	"github.com/ampel360/utcs/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "utcs"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "utcs"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. UTCS_SCAN_JOBS.
	EnvPrefix = "UTCS"
	// JUnitOutputEnv is the CI variable that also sets scan.junit_output.
	JUnitOutputEnv = "JUNIT_OUTPUT"
)

// ErrConfigExists is returned by CreateDefaultConfig when the target file
// already exists and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema []byte

// Schema returns the CUE schema configuration files are validated against.
func Schema() []byte {
	return append([]byte(nil), configSchema...)
}

// ConfigDir returns the utcs configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath returns where `utcs config init` writes the config file.
func DefaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath := ""

	// A path given with --config is used exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'utcs config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		for _, candidate := range []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			ConfigFileName + "." + ConfigFileExt,
		} {
			if fileExists(candidate) {
				resolvedPath = candidate
				break
			}
		}
		// No config file means defaults plus environment.
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", loadError(resolvedPath, err)
		}
		slog.Debug("loaded configuration", "path", resolvedPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", loadError(resolvedPath, fmt.Errorf("failed to parse config: %w", err))
	}
	cfg.Source = resolvedPath

	// Environment overrides bypass the CUE schema, so check the merged result.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check UTCS_* and JUNIT_OUTPUT environment variables").
			WithSuggestion("Run 'utcs config dump' to see the effective values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a viper instance carrying defaults and environment bindings.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("registry", defaults.Registry)
	v.SetDefault("scan.patterns", defaults.Scan.Patterns)
	v.SetDefault("scan.ignore", defaults.Scan.Ignore)
	v.SetDefault("scan.extensions", defaults.Scan.Extensions)
	v.SetDefault("scan.jobs", defaults.Scan.Jobs)
	v.SetDefault("scan.junit_output", defaults.Scan.JUnitOutput)
	v.SetDefault("scan.fail_on_warnings", defaults.Scan.FailOnWarnings)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("suggest.limit", defaults.Suggest.Limit)
	v.SetDefault("validate.large_range_threshold", defaults.Validate.LargeRangeThreshold)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The first name wins when both are set.
	_ = v.BindEnv("scan.junit_output", EnvPrefix+"_SCAN_JUNIT_OUTPUT", JUnitOutputEnv)

	return v
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'utcs config --help' for configuration options").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Fields are optional, so validation is not concrete, and the result is
// decoded into a map so that viper keeps defaults for unset keys.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Unify(configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig writes the default configuration to path, or to
// DefaultConfigPath when path is empty, and returns the path written.
// An existing file is kept unless force is set.
func CreateDefaultConfig(path string, force bool) (string, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if !force && fileExists(path) {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	return path, Save(DefaultConfig(), path)
}

// Save writes cfg as CUE to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// utcs configuration file\n")
	sb.WriteString("// See https://github.com/ampel360/utcs/blob/main/docs/configuration.md\n\n")

	fmt.Fprintf(&sb, "registry: %q\n", cfg.Registry)

	sb.WriteString("\nscan: {\n")
	writeList(&sb, "patterns", cfg.Scan.Patterns)
	writeList(&sb, "ignore", cfg.Scan.Ignore)
	writeList(&sb, "extensions", cfg.Scan.Extensions)
	fmt.Fprintf(&sb, "\tjobs: %d\n", cfg.Scan.Jobs)
	if cfg.Scan.JUnitOutput != "" {
		fmt.Fprintf(&sb, "\tjunit_output: %q\n", cfg.Scan.JUnitOutput)
	}
	fmt.Fprintf(&sb, "\tfail_on_warnings: %v\n", cfg.Scan.FailOnWarnings)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	sb.WriteString("\nsuggest: {\n")
	fmt.Fprintf(&sb, "\tlimit: %d\n", cfg.Suggest.Limit)
	sb.WriteString("}\n")

	sb.WriteString("\nvalidate: {\n")
	fmt.Fprintf(&sb, "\tlarge_range_threshold: %d\n", cfg.Validate.LargeRangeThreshold)
	sb.WriteString("}\n")

	return sb.String()
}

func writeList[S ~string](sb *strings.Builder, key string, items []S) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "\t%s: []\n", key)
		return
	}
	fmt.Fprintf(sb, "\t%s: [", key)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%q", string(item))
	}
	sb.WriteString("]\n")
}
