// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ampel360/utcs/internal/scanner"
)

var render = glamour.Render

// Markdown renders run as a markdown summary: totals, then a table of the
// invalid and warning codes per file, then skipped and unreadable files.
func Markdown(run Run) string {
	sum := run.Summary
	if sum == nil {
		sum = scanner.Summarize(nil)
	}

	var b strings.Builder
	b.WriteString("# UTCS Scan Summary\n\n")
	if run.Passed {
		b.WriteString("**Result:** passed\n\n")
	} else {
		b.WriteString("**Result:** failed\n\n")
	}

	b.WriteString("| Metric | Count |\n|---|---:|\n")
	for _, row := range []struct {
		label string
		n     int
	}{
		{"Files scanned", sum.FilesScanned},
		{"Files skipped", sum.FilesSkipped},
		{"Files unreadable", sum.FilesFailed},
		{"Total codes", sum.TotalCodes},
		{"Valid codes", sum.ValidCodes},
		{"Invalid codes", sum.InvalidCodes},
		{"Codes with warnings", sum.WarningCodes},
		{"Files with errors", sum.FilesWithErrors},
	} {
		fmt.Fprintf(&b, "| %s | %d |\n", row.label, row.n)
	}

	var rows []string
	for _, r := range sum.Results {
		for _, d := range r.Details {
			if d.Status == scanner.StatusValid {
				continue
			}
			rows = append(rows, fmt.Sprintf("| `%s` | `%s` | %s | %s |",
				filepath.ToSlash(r.File), d.Code, d.Status, escapeCell(strings.Join(d.Messages, "; "))))
		}
	}
	if len(rows) > 0 {
		b.WriteString("\n## Findings\n\n| File | Code | Status | Messages |\n|---|---|---|---|\n")
		b.WriteString(strings.Join(rows, "\n"))
		b.WriteString("\n")
	}

	var other []string
	for _, r := range sum.Results {
		switch {
		case r.Failure != "":
			other = append(other, fmt.Sprintf("- `%s`: unreadable (%s)", filepath.ToSlash(r.File), r.Failure))
		case r.Skipped != "":
			other = append(other, fmt.Sprintf("- `%s`: skipped (%s)", filepath.ToSlash(r.File), r.Skipped))
		}
	}
	if len(other) > 0 {
		b.WriteString("\n## Not scanned\n\n")
		b.WriteString(strings.Join(other, "\n"))
		b.WriteString("\n")
	}

	if run.Registry != "" || run.Timestamp != "" {
		fmt.Fprintf(&b, "\n_Registry `%s`, generated %s by %s %s._\n", run.Registry, run.Timestamp, run.Tool, run.Version)
	}
	return b.String()
}

// RenderMarkdown renders run for a terminal with a glamour style such as
// "dark", "light", or "notty".
func RenderMarkdown(run Run, style string) (string, error) {
	out, err := render(Markdown(run), style)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
