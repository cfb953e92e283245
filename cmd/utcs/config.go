// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ampel360/utcs/internal/config"
	"github.com/ampel360/utcs/internal/issue"
	"github.com/ampel360/utcs/internal/report"
)

// newConfigCommand creates the `utcs config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage utcs configuration",
		Long: `Manage utcs configuration.

Configuration is read from the --config file, or else from:
  - Linux: $XDG_CONFIG_HOME/utcs/utcs.cue (default ~/.config/utcs/utcs.cue)
  - macOS: ~/Library/Application Support/utcs/utcs.cue
  - Windows: %APPDATA%\utcs\utcs.cue
falling back to ./utcs.cue. Environment variables prefixed with UTCS_
override file values, e.g. UTCS_SCAN_JOBS=8. JUNIT_OUTPUT sets
scan.junit_output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var showFormat string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(showFormat, codeFormats...)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, app, flags)
			if err != nil {
				return err
			}
			if f != report.FormatText {
				return writeStructured(app.stdout, f, cfg)
			}
			showConfig(app.stdout, cfg)
			return nil
		},
	}
	addFormatFlag(showCmd, &showFormat, codeFormats...)

	var (
		initPath  string
		initForce bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(initPath, initForce)
			if errors.Is(err, config.ErrConfigExists) {
				return issue.NewErrorContext().
					WithOperation("create configuration").
					WithResource(path).
					WithSuggestion("Use --force to overwrite the existing file").
					WithSuggestion("Use 'utcs config show' to inspect the current configuration").
					Wrap(err).
					BuildError()
			}
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initPath, "path", "", "write to this file instead of the user config directory")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			cfgPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
			return nil
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, app, flags)
			if err != nil {
				return err
			}
			_, err = io.WriteString(app.stdout, config.GenerateCUE(cfg))
			return err
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema configuration files must satisfy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.stdout.Write(config.Schema())
			return err
		},
	}

	cfgCmd.AddCommand(showCmd, initCmd, pathCmd, dumpCmd, schemaCmd)
	return cfgCmd
}

func loadConfig(cmd *cobra.Command, app *App, flags *rootFlagValues) (*config.Config, error) {
	return app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	none := SubtitleStyle.Render("(none)")

	list := func(items []string) string {
		if len(items) == 0 {
			return none
		}
		return valueStyle.Render(strings.Join(items, ", "))
	}
	value := func(s string) string {
		if s == "" {
			return none
		}
		return valueStyle.Render(s)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	registryPath := string(cfg.Registry)
	if registryPath == "" {
		registryPath = "(built-in)"
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("registry"), valueStyle.Render(registryPath))

	exts := make([]string, len(cfg.Scan.Extensions))
	for i, e := range cfg.Scan.Extensions {
		exts[i] = string(e)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("scan"))
	fmt.Fprintf(w, "  patterns: %s\n", list(patternStrings(cfg.Scan.Patterns)))
	fmt.Fprintf(w, "  ignore: %s\n", list(patternStrings(cfg.Scan.Ignore)))
	fmt.Fprintf(w, "  extensions: %s\n", list(exts))
	fmt.Fprintf(w, "  jobs: %s\n", valueStyle.Render(fmt.Sprint(cfg.Scan.Jobs)))
	fmt.Fprintf(w, "  junit_output: %s\n", value(string(cfg.Scan.JUnitOutput)))
	fmt.Fprintf(w, "  fail_on_warnings: %s\n", valueStyle.Render(fmt.Sprint(cfg.Scan.FailOnWarnings)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("suggest"))
	fmt.Fprintf(w, "  limit: %s\n", valueStyle.Render(fmt.Sprint(cfg.Suggest.Limit)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("validate"))
	fmt.Fprintf(w, "  large_range_threshold: %s\n", valueStyle.Render(fmt.Sprint(cfg.Validate.LargeRangeThreshold)))
}
