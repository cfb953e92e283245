// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ampel360/utcs/internal/issue"
	"github.com/ampel360/utcs/internal/report"
	"github.com/ampel360/utcs/pkg/utcs"
)

// maxListedUnits caps how many unit numbers expand prints per range.
const maxListedUnits = 1000

type (
	// validationOutput pairs a code with its validation result.
	validationOutput struct {
		Code                  string `json:"code" yaml:"code"`
		utcs.ValidationResult `yaml:",inline"`
	}

	// blockOutput describes one block of a parsed code.
	blockOutput struct {
		Block       utcs.Block `json:"block" yaml:"block"`
		Name        string     `json:"name" yaml:"name"`
		Value       string     `json:"value" yaml:"value"`
		Description string     `json:"description" yaml:"description"`
	}

	// parseOutput is the structured result of `utcs parse`.
	parseOutput struct {
		Canonical    string          `json:"canonical" yaml:"canonical"`
		Parsed       utcs.ParsedCode `json:"parsed" yaml:"parsed"`
		Blocks       []blockOutput   `json:"blocks" yaml:"blocks"`
		Installation []unitOutput    `json:"installation" yaml:"installation"`
	}

	// unitOutput is an installation unit with its expansion.
	unitOutput struct {
		utcs.InstallationUnit `yaml:",inline"`
		Count                 int   `json:"count" yaml:"count"`
		Units                 []int `json:"units,omitempty" yaml:"units,omitempty"`
	}

	// suggestOutput is the structured result of `utcs suggest`.
	suggestOutput struct {
		Partial     string   `json:"partial" yaml:"partial"`
		Suggestions []string `json:"suggestions" yaml:"suggestions"`
	}

	// immutableOutput is the structured result of `utcs immutable`.
	immutableOutput struct {
		Old                     string `json:"old" yaml:"old"`
		New                     string `json:"new" yaml:"new"`
		utcs.ImmutabilityReport `yaml:",inline"`
	}
)

func newValidateCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate <code>...",
		Short: "Validate UTCS codes against the registry",
		Long: `Validate UTCS codes against the registry.

Each code is checked for format, then its classification, product variant,
and system trigram are looked up in the registry and its installation block
is checked. Pass "-", or no code at all with stdin redirected, to read one
code per line from stdin.

The command exits with status 1 when any code is invalid, or has warnings
and --strict is set.`,
		Example: `  utcs validate 090101-BWBQ100-QNS-[1-10,17,54]
  utcs validate --format json 024500-EVTCITY-EPS-[ALL]
  grep -o '[0-9]\{6\}-[A-Z0-9]\{7\}-[A-Z]\{3\}-\[[^]]*\]' notes.txt | utcs validate -
  utcs validate < codes.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				if isTerminal(cmd.InOrStdin()) {
					return errNoCodes
				}
				args = []string{stdinArg}
			}
			codes, err := readCodes(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if len(codes) == 0 {
				return errNoCodes
			}
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			results := make([]validationOutput, 0, len(codes))
			failed := false
			for _, code := range codes {
				res := sess.engine.Validate(code)
				if !res.Valid || (strict && len(res.Warnings) > 0) {
					failed = true
				}
				results = append(results, validationOutput{Code: code, ValidationResult: res})
			}

			if f == report.FormatText {
				renderValidation(sess.stdout, sess.engine, results)
			} else if err := writeStructured(sess.stdout, f, results); err != nil {
				return err
			}

			if failed {
				return silentFailure(cmd)
			}
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

func renderValidation(w io.Writer, eng *utcs.Engine, results []validationOutput) {
	valid := 0
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		icon := iconInvalid
		switch {
		case r.Valid && len(r.Warnings) > 0:
			icon = iconWarning
			valid++
		case r.Valid:
			icon = iconValid
			valid++
		}
		fmt.Fprintf(w, "%s %s\n", icon, CmdStyle.Render(r.Code))
		fmt.Fprintln(w, indent(eng.Format(r.ValidationResult), "  "))
	}
	if len(results) > 1 {
		fmt.Fprintf(w, "\n%s\n", SubtitleStyle.Render(fmt.Sprintf("%d of %d codes valid", valid, len(results))))
	}
}

func newParseCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <code>",
		Short: "Break a code into its blocks",
		Long: `Break a code into its four blocks, describe each one from the registry,
and expand the installation block. Parsing checks the format only; use
'utcs validate' to check registry membership.`,
		Example: `  utcs parse 090101-BWBQ100-QNS-[1-10,17,54]`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}
			parsed, ok := utcs.Parse(args[0])
			if !ok {
				return invalidCodeError(args[0])
			}
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			out := parseOutput{
				Canonical:    parsed.Canonical(),
				Parsed:       parsed,
				Installation: expandUnits(parsed.Installation),
			}
			for _, b := range []utcs.Block{utcs.BlockClassification, utcs.BlockVariant, utcs.BlockSystem} {
				out.Blocks = append(out.Blocks, blockOutput{
					Block:       b,
					Name:        b.Name(),
					Value:       parsed.Block(b),
					Description: sess.engine.Describe(b, parsed.Block(b)),
				})
			}
			out.Blocks = append(out.Blocks, blockOutput{
				Block:       utcs.BlockInstallation,
				Name:        utcs.BlockInstallation.Name(),
				Value:       "[" + parsed.Installation + "]",
				Description: describeUnits(out.Installation),
			})

			if f != report.FormatText {
				return writeStructured(sess.stdout, f, out)
			}
			fmt.Fprintln(sess.stdout, TitleStyle.Render(out.Canonical))
			for _, b := range out.Blocks {
				fmt.Fprintf(sess.stdout, "%s%s%s\n",
					blockLabelStyle.Render(b.Block.String()),
					blockValueStyle.Render(b.Value),
					VerboseStyle.Render(b.Name+": "+b.Description))
			}
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	return cmd
}

func newExpandCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "expand <installation|code>",
		Short: "Expand an installation block into units",
		Long: `Expand an installation block into units. The argument may be a bare
block such as "1-10,17", a bracketed block, or a full code.

Keywords (ALL, STD, TST, DEV) stand for the whole block. Ranges use any
hyphen or dash as delimiter; descending or malformed ranges are kept
verbatim as list units.`,
		Example: `  utcs expand 1-10,17,54
  utcs expand 090101-BWBQ100-QNS-[ALL]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}

			block := args[0]
			if parsed, ok := utcs.Parse(block); ok {
				block = parsed.Installation
			} else {
				block = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(block), "["), "]")
			}
			units := expandUnits(block)

			w := cmd.OutOrStdout()
			if f != report.FormatText {
				return writeStructured(w, f, units)
			}
			for _, u := range units {
				fmt.Fprintf(w, "%s %s\n", keyColumnStyle.Render(u.Kind.String()), renderUnit(u))
			}
			fmt.Fprintf(w, "%s\n", SubtitleStyle.Render(describeUnits(units)))
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	return cmd
}

func expandUnits(block string) []unitOutput {
	units := utcs.ExpandInstallation(block)
	out := make([]unitOutput, 0, len(units))
	for _, u := range units {
		uo := unitOutput{InstallationUnit: u, Count: u.Count()}
		if uo.Count <= maxListedUnits {
			uo.Units = u.Expanded()
		}
		out = append(out, uo)
	}
	return out
}

func renderUnit(u unitOutput) string {
	switch u.Kind {
	case utcs.UnitSpecial:
		return CmdStyle.Render(u.Keyword.String())
	case utcs.UnitList:
		return WarningStyle.Render(strconv.Quote(u.Raw)) + VerboseStyle.Render(" (kept verbatim)")
	}
	if len(u.Units) == 0 {
		return fmt.Sprintf("%s %s", CmdStyle.Render(u.Raw), VerboseStyle.Render(fmt.Sprintf("(%d units)", u.Count)))
	}
	nums := make([]string, len(u.Units))
	for i, n := range u.Units {
		nums[i] = strconv.Itoa(n)
	}
	return CmdStyle.Render(strings.Join(nums, ", "))
}

// describeUnits summarizes an expansion, e.g. "12 units" or "ALL".
func describeUnits(units []unitOutput) string {
	if len(units) == 1 && units[0].Kind == utcs.UnitSpecial {
		return units[0].Keyword.String()
	}
	total, lists := 0, 0
	for _, u := range units {
		total += u.Count
		if u.Kind == utcs.UnitList {
			lists++
		}
	}
	s := fmt.Sprintf("%d units", total)
	if total == 1 {
		s = "1 unit"
	}
	if lists > 0 {
		s += fmt.Sprintf(", %d verbatim", lists)
	}
	return s
}

func newSuggestCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "suggest <partial>",
		Short: "Complete a partial code",
		Long: `Complete a partial code from the registry.

A bare classification is completed with product variants; a classification
and variant are completed with the system trigrams that fit the variant,
followed by commonly used trigrams.`,
		Example: `  utcs suggest 090101
  utcs suggest 090101-BWBQ100 --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}

			var opts []utcs.Option
			if cmd.Flags().Changed("limit") {
				opts = append(opts, utcs.WithSuggestionLimit(limit))
			}
			sess, err := app.newSession(cmd.Context(), flags, opts...)
			if err != nil {
				return err
			}

			out := suggestOutput{Partial: args[0], Suggestions: sess.engine.Suggest(args[0])}
			if f != report.FormatText {
				return writeStructured(sess.stdout, f, out)
			}
			if len(out.Suggestions) == 0 {
				fmt.Fprintf(sess.stderr, "%s No suggestions for %s\n", iconWarning, CmdStyle.Render(args[0]))
				return nil
			}
			for _, s := range out.Suggestions {
				fmt.Fprintln(sess.stdout, s)
			}
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of suggestions (default from config)")
	return cmd
}

func newImmutableCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "immutable <old-code> <new-code>",
		Short: "Check that a code revision only changes its installation block",
		Long: `Check that a code revision only changes its installation block.

Classification, product variant, and system trigram are immutable after a
code is published. The command exits with status 1 on a violation.`,
		Example: `  utcs immutable 090101-BWBQ100-QNS-[1-10] 090101-BWBQ100-QNS-[1-20]`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, codeFormats...)
			if err != nil {
				return err
			}

			rep := utcs.CheckImmutable(args[0], args[1])
			w := cmd.OutOrStdout()
			if f != report.FormatText {
				if err := writeStructured(w, f, immutableOutput{Old: args[0], New: args[1], ImmutabilityReport: rep}); err != nil {
					return err
				}
			} else if rep.Compliant {
				fmt.Fprintf(w, "%s Only the installation block changed\n", iconValid)
			} else {
				fmt.Fprintf(w, "%s Immutability violated\n", iconInvalid)
				for _, v := range rep.Violations {
					fmt.Fprintf(w, "  • %s\n", v)
				}
			}

			if !rep.Compliant {
				return silentFailure(cmd)
			}
			return nil
		},
	}

	addFormatFlag(cmd, &format, codeFormats...)
	return cmd
}

// invalidCodeError reports input that does not match the code grammar.
func invalidCodeError(code string) error {
	return issue.NewErrorContext().
		WithOperation("parse code").
		WithResource(code).
		WithSuggestions(utcs.FormatErrors()[1:]...).
		WithIssue(issue.InvalidCodeId).
		Wrap(errors.New(utcs.MsgInvalidFormat)).
		BuildError()
}
