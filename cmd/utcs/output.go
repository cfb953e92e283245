// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ampel360/utcs/internal/issue"
	"github.com/ampel360/utcs/internal/report"
)

// stdinArg makes a code command read one code per line from stdin.
const stdinArg = "-"

var errNoCodes = errors.New("no codes given: pass codes as arguments or pipe them on stdin")

// codeFormats are the output formats of the single-code commands.
var codeFormats = []report.Format{report.FormatText, report.FormatJSON, report.FormatYAML}

// addFormatFlag registers --format/-f with the allowed values in its usage.
func addFormatFlag(cmd *cobra.Command, target *string, allowed ...report.Format) {
	cmd.Flags().StringVarP(target, "format", "f", string(report.FormatText),
		"output format ("+joinFormats(allowed)+")")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(allowed))
		for i, f := range allowed {
			names[i] = f.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// parseFormat validates a --format value.
func parseFormat(value string, allowed ...report.Format) (report.Format, error) {
	f := report.Format(strings.ToLower(strings.TrimSpace(value)))
	if ok, errs := f.IsValid(allowed...); !ok {
		return "", issue.NewErrorContext().
			WithOperation("select output format").
			WithResource(value).
			WithSuggestion("Use one of: " + joinFormats(allowed)).
			WithIssue(issue.InvalidOutputFormatId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return f, nil
}

// writeStructured encodes v in a machine-readable format.
func writeStructured(w io.Writer, format report.Format, v any) error {
	switch format {
	case report.FormatJSON:
		return report.EncodeJSON(w, v)
	case report.FormatYAML:
		return report.EncodeYAML(w, v)
	default:
		return fmt.Errorf("%w: %q is not a structured format", report.ErrInvalidFormat, format)
	}
}

func joinFormats(formats []report.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// readCodes expands the stdin argument into the non-blank lines of in.
func readCodes(in io.Reader, args []string) ([]string, error) {
	codes := make([]string, 0, len(args))
	for _, arg := range args {
		if arg != stdinArg {
			codes = append(codes, arg)
			continue
		}
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				codes = append(codes, line)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read codes from stdin: %w", err)
		}
	}
	return codes, nil
}

// indent prefixes every line of text with prefix, dropping the trailing newline.
func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
