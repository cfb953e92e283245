// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ampel360/utcs/internal/config"
	"github.com/ampel360/utcs/internal/issue"
	"github.com/ampel360/utcs/internal/report"
	"github.com/ampel360/utcs/internal/scanner"
	"github.com/ampel360/utcs/internal/watch"
)

// globMeta are the characters that make a scan target a pattern.
const globMeta = "*?[{"

type (
	// scanFlagValues holds the flags of `utcs scan`.
	scanFlagValues struct {
		junit          string
		ignore         []string
		jobs           int
		format         string
		failOnWarnings bool
		watch          bool
	}

	// scanRun is one fully resolved scan invocation.
	scanRun struct {
		sess           *session
		scanner        *scanner.Scanner
		targets        []string
		ignore         []string
		format         report.Format
		junit          string
		failOnWarnings bool
	}
)

func newScanCommand(app *App, flags *rootFlagValues) *cobra.Command {
	sf := &scanFlagValues{}

	cmd := &cobra.Command{
		Use:   "scan [pattern|dir|file]...",
		Short: "Validate every code found in a set of files",
		Long: `Validate every code found in a set of files.

Targets may be doublestar patterns ('docs/**/*.md'), directories, or files.
Directories are walked and filtered by the configured extensions. Without
targets the scan.patterns from the config are used, or the current
directory when none are configured.

HTML files are reduced to their visible text before scanning. Binary and
oversized files are skipped. The command exits with status 1 when an
invalid code is found, or a code has warnings and --fail-on-warnings is set.

A JUnit XML report is written when --junit, scan.junit_output, or the
JUNIT_OUTPUT environment variable names a file.`,
		Example: `  utcs scan '**/*.md'
  utcs scan docs src --format markdown
  utcs scan --junit reports/utcs.xml --fail-on-warnings
  utcs scan '**/*.md' --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := newScanRun(cmd, app, flags, sf, args)
			if err != nil {
				return err
			}

			if sf.watch {
				return run.watch(cmd.Context())
			}

			passed, err := run.execute(cmd.Context())
			if err != nil {
				return err
			}
			if !passed {
				return silentFailure(cmd)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sf.junit, "junit", "", "write a JUnit XML report to this file")
	f.StringSliceVar(&sf.ignore, "ignore", nil, "doublestar patterns to skip (replaces scan.ignore)")
	f.IntVarP(&sf.jobs, "jobs", "j", scanner.DefaultJobs, "files scanned in parallel")
	f.BoolVar(&sf.failOnWarnings, "fail-on-warnings", false, "fail when a code has warnings")
	f.BoolVarP(&sf.watch, "watch", "w", false, "rescan when files change")
	addFormatFlag(cmd, &sf.format, report.Formats()...)
	return cmd
}

// newScanRun merges flags over configuration. A flag wins only when it was set.
func newScanRun(cmd *cobra.Command, app *App, flags *rootFlagValues, sf *scanFlagValues, args []string) (*scanRun, error) {
	format, err := parseFormat(sf.format, report.Formats()...)
	if err != nil {
		return nil, err
	}

	sess, err := app.newSession(cmd.Context(), flags)
	if err != nil {
		return nil, err
	}
	sc := sess.cfg.Scan

	run := &scanRun{
		sess:           sess,
		targets:        args,
		ignore:         patternStrings(sc.Ignore),
		format:         format,
		junit:          string(sc.JUnitOutput),
		failOnWarnings: sc.FailOnWarnings,
	}
	jobs := int(sc.Jobs)

	changed := cmd.Flags().Changed
	if changed("ignore") {
		run.ignore = append([]string{}, sf.ignore...)
	}
	if changed("jobs") {
		jobs = sf.jobs
	}
	if changed("junit") {
		run.junit = sf.junit
	}
	if changed("fail-on-warnings") {
		run.failOnWarnings = sf.failOnWarnings
	}
	if len(run.targets) == 0 {
		run.targets = patternStrings(sc.Patterns)
	}
	if len(run.targets) == 0 {
		run.targets = []string{"."}
	}

	exts := make([]string, len(sc.Extensions))
	for i, e := range sc.Extensions {
		exts[i] = string(e)
	}

	run.scanner, err = scanner.New(sess.engine, scanner.Options{
		Ignore:     run.ignore,
		Extensions: exts,
		Jobs:       jobs,
	})
	if err != nil {
		return nil, scanError(err)
	}
	return run, nil
}

// execute scans once, writes the requested outputs, and reports whether the
// run passed.
func (r *scanRun) execute(ctx context.Context) (bool, error) {
	sum, err := r.scanner.Scan(ctx, r.targets)
	if err != nil {
		return false, scanError(err)
	}

	run := report.New(sum, report.Meta{
		Version:        Version,
		Registry:       r.sess.source,
		FailOnWarnings: r.failOnWarnings,
	})

	w := r.sess.stdout
	switch r.format {
	case report.FormatJSON:
		err = report.WriteJSON(w, run)
	case report.FormatYAML:
		err = report.WriteYAML(w, run)
	case report.FormatMarkdown:
		var out string
		if out, err = report.RenderMarkdown(run, r.sess.glamour); err == nil {
			_, err = io.WriteString(w, out)
		}
	default:
		renderScanText(w, sum, r.failOnWarnings, r.sess.verbose)
	}
	if err != nil {
		return false, err
	}

	if r.junit != "" {
		if err := report.WriteJUnitFile(r.junit, sum); err != nil {
			return false, issue.NewErrorContext().
				WithOperation("write JUnit report").
				WithResource(r.junit).
				WithSuggestion("Check that the report directory is writable").
				WithIssue(issue.ReportWriteFailedId).
				Wrap(err).
				BuildError()
		}
		fmt.Fprintf(r.sess.stderr, "%s JUnit report written to %s\n", iconInfo, r.junit)
	}
	return run.Passed, nil
}

// watch scans once and then again on every batch of changes until ctx ends.
// Scan failures are reported and the watch continues.
func (r *scanRun) watch(ctx context.Context) error {
	rescan := func(ctx context.Context) {
		if _, err := r.execute(ctx); err != nil {
			fmt.Fprintf(r.sess.stderr, "%s %s\n", iconWarning, formatErrorForDisplay(err, r.sess.verbose))
		}
	}
	rescan(ctx)

	w, err := watch.New(watch.Options{
		Patterns:    watchPatterns(r.targets),
		Ignore:      r.ignore,
		ClearScreen: isTerminal(r.sess.stdout),
		Out:         r.sess.stdout,
		OnChange: func(ctx context.Context, changed []string) error {
			slog.Debug("rescanning", "changed", len(changed))
			rescan(ctx)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	fmt.Fprintf(r.sess.stderr, "\n%s Watching for changes (Ctrl+C to stop)...\n", iconInfo)
	return w.Run(ctx)
}

// watchPatterns returns the targets to filter change events by. Any plain
// file or directory target widens the watch to every file.
func watchPatterns(targets []string) []string {
	var patterns []string
	for _, t := range targets {
		if !strings.ContainsAny(t, globMeta) || filepath.IsAbs(t) {
			return nil
		}
		patterns = append(patterns, filepath.ToSlash(t))
	}
	return patterns
}

func renderScanText(w io.Writer, sum *scanner.Summary, failOnWarnings, verbose bool) {
	for _, r := range sum.Results {
		switch {
		case r.Failure != "":
			fmt.Fprintf(w, "%s %s %s\n\n", iconInvalid, CmdStyle.Render(r.File), ErrorStyle.Render("unreadable: "+r.Failure))
			continue
		case r.Skipped != "":
			if verbose {
				fmt.Fprintf(w, "%s %s %s\n\n", iconSkipped, CmdStyle.Render(r.File), SubtitleStyle.Render("skipped ("+r.Skipped+")"))
			}
			continue
		case len(r.Codes) == 0:
			if verbose {
				fmt.Fprintf(w, "%s %s %s\n\n", iconSkipped, CmdStyle.Render(r.File), SubtitleStyle.Render("no codes"))
			}
			continue
		}

		fmt.Fprintln(w, TitleStyle.Render(r.File))
		for _, d := range r.Details {
			icon := iconValid
			switch d.Status {
			case scanner.StatusInvalid:
				icon = iconInvalid
			case scanner.StatusWarning:
				icon = iconWarning
			}
			fmt.Fprintf(w, "  %s %s\n", icon, d.Code)
			for _, m := range d.Messages {
				fmt.Fprintf(w, "      %s\n", VerboseStyle.Render(m))
			}
		}
		fmt.Fprintln(w)
	}

	lines := []string{
		TitleStyle.Render("UTCS Scan Summary"),
		fmt.Sprintf("Files scanned:     %d", sum.FilesScanned),
		fmt.Sprintf("Total codes found: %d", sum.TotalCodes),
		fmt.Sprintf("Valid codes:       %d", sum.ValidCodes),
		fmt.Sprintf("Invalid codes:     %d", sum.InvalidCodes),
		fmt.Sprintf("Codes w/ warnings: %d", sum.WarningCodes),
		fmt.Sprintf("Files with errors: %d", sum.FilesWithErrors),
	}
	if sum.FilesSkipped > 0 || sum.FilesFailed > 0 {
		lines = append(lines, fmt.Sprintf("Skipped/unreadable: %d/%d", sum.FilesSkipped, sum.FilesFailed))
	}
	fmt.Fprintln(w, summaryBoxStyle.Render(strings.Join(lines, "\n")))
	fmt.Fprintln(w)

	switch {
	case sum.InvalidCodes > 0:
		fmt.Fprintf(w, "%s Validation failed! Found invalid UTCS codes.\n", iconInvalid)
		fmt.Fprintln(w, "\nFiles with invalid codes:")
		for _, r := range sum.Failed() {
			fmt.Fprintf(w, "   %s (%d errors)\n", CmdStyle.Render(r.File), r.Errors)
		}
	case failOnWarnings && sum.WarningCodes > 0:
		fmt.Fprintf(w, "%s Validation failed! Found UTCS codes with warnings.\n", iconInvalid)
	default:
		fmt.Fprintf(w, "%s All UTCS codes are valid!\n", iconValid)
	}
}

// scanError maps scanner failures to actionable errors.
func scanError(err error) error {
	var nf *scanner.NoFilesError
	if errors.As(err, &nf) {
		return issue.NewErrorContext().
			WithOperation("collect files to scan").
			WithResource(strings.Join(nf.Targets, " ")).
			WithSuggestion("Quote patterns so the shell does not expand them, e.g. utcs scan '**/*.md'").
			WithSuggestion("Check the ignore patterns; node_modules, dist, build and .git are skipped by default").
			WithIssue(issue.NoFilesMatchedId).
			Wrap(err).
			BuildError()
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation("scan files").
		WithSuggestion("Run with --verbose to see the failing step").
		WithIssue(issue.ScanFailedId).
		Wrap(err).
		BuildError()
}

func patternStrings(patterns []config.GlobPattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = string(p)
	}
	return out
}
