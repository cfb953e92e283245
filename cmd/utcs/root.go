// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ampel360/utcs/internal/config"
	"github.com/ampel360/utcs/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every command.
type rootFlagValues struct {
	verbose      bool
	configPath   string
	registryPath string
}

// NewRootCommand builds the utcs command tree over app.
func NewRootCommand(app *App) *cobra.Command {
	return newRootCommand(app, &rootFlagValues{})
}

func newRootCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "utcs",
		Short: "Validate, complete, and scan UTCS component codes",
		Long: TitleStyle.Render("utcs") + SubtitleStyle.Render(" - Universal Technical Classification System codes") + `

utcs checks component codes of the form

  AAAAAA-BBBBBBB-CCC-[DDD]

against the domain table, the product variant catalogue, and the
system/technology trigram registry. It parses and expands codes, offers
completions, enforces immutability between revisions, and scans
documentation trees for codes in CI.

` + SubtitleStyle.Render("Examples:") + `
  utcs validate 090101-BWBQ100-QNS-[1-10,17,54]
  utcs suggest 090101-BWBQ100
  utcs scan '**/*.md' --junit reports/utcs.xml
  utcs registry trigrams --family quantum`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(app.stderr, flags.verbose)
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/utcs/utcs.cue)")
	pf.StringVar(&flags.registryPath, "registry", "", "registry file (.cue or .toml); the built-in registry is used when unset")

	rootCmd.AddCommand(
		newValidateCommand(app, flags),
		newParseCommand(app, flags),
		newExpandCommand(),
		newSuggestCommand(app, flags),
		newImmutableCommand(),
		newScanCommand(app, flags),
		newRegistryCommand(app, flags),
		newConfigCommand(app, flags),
		newCompletionCommand(),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the command's status.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flags := &rootFlagValues{}
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app, flags),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(flags)),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// errorHandler renders command errors through fang. Silent exit errors print
// nothing; actionable errors print their suggestions, and in verbose mode the
// matching issue catalog entry.
func errorHandler(flags *rootFlagValues) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		fang.DefaultErrorHandler(w, styles, errors.New(formatErrorForDisplay(err, flags.verbose)))

		var ae *issue.ActionableError
		if !flags.verbose || !errors.As(err, &ae) {
			return
		}
		if entry := ae.CatalogEntry(); entry != nil {
			rendered, renderErr := entry.Render("notty")
			if renderErr != nil {
				slog.Warn("failed to render issue catalog entry", "issueID", entry.Id(), "error", renderErr)
				return
			}
			fmt.Fprint(w, rendered)
		}
	}
}

// configureLogging installs a charm logger as the slog default handler.
func configureLogging(w io.Writer, verbose bool) {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// silentFailure marks cmd as having reported its own failure and returns the
// exit error for status 1.
func silentFailure(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1}
}
