// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ampel360/utcs/internal/issue"
	"github.com/ampel360/utcs/internal/report"
	"github.com/ampel360/utcs/pkg/registry"
	"github.com/ampel360/utcs/pkg/utcs"
)

// newRegistryCommand creates the `utcs registry` command tree.
func newRegistryCommand(app *App, flags *rootFlagValues) *cobra.Command {
	regCmd := &cobra.Command{
		Use:   "registry",
		Short: "Browse and check the code registries",
		Long: `Browse and check the code registries.

The built-in registry holds the domain table, the product variant
catalogue, and the system/technology trigram registry. Use --registry or
the registry config key to work with a custom .cue or .toml registry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	regCmd.AddCommand(
		newRegistryDomainsCommand(app, flags),
		newRegistryVariantsCommand(app, flags),
		newRegistryTrigramsCommand(app, flags),
		newRegistryLintCommand(app, flags),
		newRegistryExportCommand(),
	)
	return regCmd
}

func newRegistryDomainsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format, search, area string

	cmd := &cobra.Command{
		Use:     "domains",
		Short:   "List classification domains",
		Example: `  utcs registry domains --area Quantum`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			domains := sess.reg.Domains.Values()
			if area != "" {
				domains = sess.reg.DomainsByArea(area)
			}
			if search != "" {
				domains = keepIn(domains, sess.reg.SearchDomains(search), func(d utcs.Domain) string { return d.Code })
			}

			if f != report.FormatText {
				return writeStructured(sess.stdout, f, nonNil(domains))
			}
			for _, d := range domains {
				fmt.Fprintf(sess.stdout, "%s %s %s\n",
					keyColumnStyle.Render(d.Code), d.Area(), VerboseStyle.Render("· "+d.Category()))
			}
			listFooter(sess.stderr, len(domains), "domain")
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	cmd.Flags().StringVarP(&search, "search", "s", "", "match code or description (case-insensitive)")
	cmd.Flags().StringVar(&area, "area", "", "only domains of this area, e.g. Quantum")
	return cmd
}

func newRegistryVariantsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format, search, typ, status string

	cmd := &cobra.Command{
		Use:     "variants",
		Short:   "List product variants",
		Example: `  utcs registry variants --type quantum --status active`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			key := func(v utcs.Variant) string { return v.Code }
			variants := sess.reg.Variants.Values()
			if typ != "" {
				variants = keepIn(variants, sess.reg.VariantsByType(typ), key)
			}
			if status != "" {
				variants = keepIn(variants, sess.reg.VariantsByStatus(status), key)
			}
			if search != "" {
				variants = keepIn(variants, sess.reg.SearchVariants(search), key)
			}

			if f != report.FormatText {
				return writeStructured(sess.stdout, f, nonNil(variants))
			}
			for _, v := range variants {
				fmt.Fprintf(sess.stdout, "%s %s %s\n",
					keyColumnStyle.Render(v.Code), v.Name, VerboseStyle.Render(fmt.Sprintf("(%s, %s)", v.Type, v.Status)))
			}
			listFooter(sess.stderr, len(variants), "variant")
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	cmd.Flags().StringVarP(&search, "search", "s", "", "match code, name, description, or category")
	cmd.Flags().StringVar(&typ, "type", "", "only variants of this type, e.g. passenger")
	cmd.Flags().StringVar(&status, "status", "", "only variants with this status, e.g. active")
	return cmd
}

func newRegistryTrigramsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		format, search, family string
		common                 bool
	)

	cmd := &cobra.Command{
		Use:     "trigrams",
		Short:   "List system/technology trigrams",
		Example: `  utcs registry trigrams --family quantum`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			key := func(t utcs.Trigram) string { return t.Code }
			trigrams := sess.reg.Trigrams.Values()
			if family != "" {
				trigrams = keepIn(trigrams, sess.reg.TrigramsByFamily(family), key)
			}
			if common {
				trigrams = keepIn(trigrams, sess.reg.CommonTrigrams(), key)
			}
			if search != "" {
				trigrams = keepIn(trigrams, sess.reg.SearchTrigrams(search), key)
			}

			if f != report.FormatText {
				return writeStructured(sess.stdout, f, nonNil(trigrams))
			}
			for _, t := range trigrams {
				name := t.Name
				if t.Common {
					name += " " + SuccessStyle.Render("*")
				}
				fmt.Fprintf(sess.stdout, "%s %s %s\n", keyColumnStyle.Render(t.Code), name, VerboseStyle.Render("("+t.Family+")"))
			}
			listFooter(sess.stderr, len(trigrams), "trigram")
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	cmd.Flags().StringVarP(&search, "search", "s", "", "match code, name, family, or description")
	cmd.Flags().StringVar(&family, "family", "", "only trigrams whose family contains this text")
	cmd.Flags().BoolVar(&common, "common", false, "only commonly used trigrams")
	return cmd
}

func newRegistryLintCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report registry entries no code can use",
		Long: `Report registry entries that no code can reference, such as trigrams
that are not three uppercase letters, and inconsistent entries such as
trigram domain tags that name no known area.

The command exits with status 1 when an error-level finding is reported.`,
		Example: `  utcs registry lint --registry fleet.toml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			findings := registry.Lint(sess.reg)
			if f != report.FormatText {
				if err := writeStructured(sess.stdout, f, nonNil(findings)); err != nil {
					return err
				}
			} else if len(findings) == 0 {
				fmt.Fprintf(sess.stdout, "%s %s: no findings\n", iconValid, sess.source)
			} else {
				for _, fd := range findings {
					icon := iconWarning
					if fd.Severity == registry.SeverityError {
						icon = iconInvalid
					}
					fmt.Fprintf(sess.stdout, "%s %s\n", icon, fd)
				}
			}

			if registry.HasErrors(findings) {
				if f == report.FormatText {
					fmt.Fprintln(sess.stderr, formatErrorForDisplay(issue.NewErrorContext().
						WithOperation("lint registry").
						WithResource(sess.source).
						WithSuggestion("Fix or remove the entries marked as errors").
						WithIssue(issue.RegistryLintFailedId).
						Build(), sess.verbose))
				}
				return silentFailure(cmd)
			}
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	return cmd
}

func newRegistryExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the built-in registry as CUE",
		Long: `Print the built-in registry as CUE. The output is a valid registry file
and a starting point for a custom registry.`,
		Example: `  utcs registry export > registry.cue
  utcs registry export --schema`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := registry.DefaultSource()
			if schema, _ := cmd.Flags().GetBool("schema"); schema {
				data = registry.Schema()
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write registry: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Registry written to %s\n", iconValid, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().Bool("schema", false, "print the registry schema instead")
	return cmd
}

// keepIn filters values to those whose key appears in allowed, keeping the
// order of values.
func keepIn[V any](values, allowed []V, key func(V) string) []V {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[key(v)] = struct{}{}
	}
	return slices.DeleteFunc(values, func(v V) bool {
		_, ok := set[key(v)]
		return !ok
	})
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil[V any](values []V) []V {
	if values == nil {
		return []V{}
	}
	return values
}

func listFooter(w io.Writer, n int, noun string) {
	if n != 1 {
		noun += "s"
	}
	fmt.Fprintln(w, SubtitleStyle.Render(strings.TrimSpace(fmt.Sprintf("%d %s", n, noun))))
}
