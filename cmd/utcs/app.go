// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/ampel360/utcs/internal/config"
	"github.com/ampel360/utcs/internal/issue"
	"github.com/ampel360/utcs/pkg/registry"
	"github.com/ampel360/utcs/pkg/utcs"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: all Cobra command handlers receive an App reference and load
	// configuration and registries through its service interfaces.
	App struct {
		Config     ConfigProvider
		Registries RegistryLoader
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		Registries RegistryLoader
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RegistryLoader resolves the registries codes are validated against. An
	// empty path selects the built-in registry. The returned name identifies
	// the source in reports.
	RegistryLoader interface {
		Load(ctx context.Context, path string) (*utcs.Registries, string, error)
	}

	fileRegistryLoader struct{}

	// session is the per-invocation state shared by a command's handler: the
	// merged configuration and the engine built over the selected registry.
	session struct {
		cfg     *config.Config
		reg     *utcs.Registries
		engine  *utcs.Engine
		source  string
		verbose bool
		glamour string
		stdout  io.Writer
		stderr  io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Registries == nil {
		deps.Registries = fileRegistryLoader{}
	}

	return &App{
		Config:     deps.Config,
		Registries: deps.Registries,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}, nil
}

// Load reads the registry file at path, or returns the built-in registry.
func (fileRegistryLoader) Load(ctx context.Context, path string) (*utcs.Registries, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if path == "" {
		reg, err := registry.Default()
		return reg, registry.DefaultName, err
	}

	reg, err := registry.LoadFile(path)
	if err == nil {
		return reg, path, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load registry").
			WithResource(path).
			WithSuggestion("Check the --registry flag or the registry key in your config").
			WithSuggestion("Remove the setting to use the built-in registry").
			WithIssue(issue.RegistryNotFoundId).
			Wrap(err).
			BuildError()
	}
	return nil, "", issue.NewErrorContext().
		WithOperation("load registry").
		WithResource(path).
		WithSuggestion("Registry files must be .cue or .toml and match the registry schema").
		WithSuggestion("Run 'utcs registry export' to see a valid registry").
		WithIssue(issue.RegistryParseErrorId).
		Wrap(err).
		BuildError()
}

// newSession loads configuration and registries for one command invocation.
// Flag values take precedence over configuration values, and opts are applied
// after the configured engine options.
func (app *App) newSession(ctx context.Context, flags *rootFlagValues, opts ...utcs.Option) (*session, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	if verbose && !flags.verbose {
		configureLogging(app.stderr, true)
	}
	if cfg.Source != "" {
		slog.Debug("configuration loaded", "path", cfg.Source)
	}

	regPath := flags.registryPath
	if regPath == "" {
		regPath = string(cfg.Registry)
	}
	reg, source, err := app.Registries.Load(ctx, regPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("registry loaded", "source", source,
		"domains", reg.Domains.Len(), "variants", reg.Variants.Len(), "trigrams", reg.Trigrams.Len())

	return &session{
		cfg:     cfg,
		reg:     reg,
		engine:  utcs.NewEngine(reg, slices.Concat(configOptions(cfg), opts)...),
		source:  source,
		verbose: verbose,
		glamour: glamourStyle(cfg.UI.ColorScheme, app.stdout),
		stdout:  app.stdout,
		stderr:  app.stderr,
	}, nil
}

// configOptions turns engine settings from cfg into options. Explicit options
// passed after them win.
func configOptions(cfg *config.Config) []utcs.Option {
	return []utcs.Option{
		utcs.WithSuggestionLimit(int(cfg.Suggest.Limit)),
		utcs.WithLargeRangeThreshold(int(cfg.Validate.LargeRangeThreshold)),
	}
}

// glamourStyle maps the configured color scheme to a glamour style. The auto
// scheme renders plain text when stdout is not a terminal.
func glamourStyle(scheme config.ColorScheme, w io.Writer) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	}
	if isTerminal(w) {
		if lipgloss.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
	return "notty"
}

// isTerminal reports whether stream is a character device, such as an
// interactive stdin or stdout.
func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
