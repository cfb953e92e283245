// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ampel360/utcs/pkg/utcs"
)

const (
	// DefaultJobs is the number of files scanned in parallel when Options.Jobs is unset.
	DefaultJobs = 4
	// DefaultMaxFileSize skips files larger than 10 MiB.
	DefaultMaxFileSize int64 = 10 << 20
)

// defaultIgnores mirrors the folders a CI checkout usually carries but never
// authors codes in.
var defaultIgnores = []string{"node_modules/**", "dist/**", "build/**", ".git/**"}

var (
	// ErrNoFiles is returned when no target resolved to a file.
	ErrNoFiles = errors.New("no files matched")
	// ErrInvalidPattern is returned for a malformed glob or ignore pattern.
	ErrInvalidPattern = errors.New("invalid pattern")
)

type (
	// Options configures a Scanner.
	Options struct {
		// BaseDir resolves relative targets and ignore patterns. Empty means
		// the working directory.
		BaseDir string
		// Ignore lists doublestar patterns, relative to BaseDir, that are never
		// scanned. nil selects DefaultIgnores.
		Ignore []string
		// Extensions filters files found by walking a directory. Explicit files
		// and glob matches are not filtered. Empty accepts every file.
		Extensions []string
		// Jobs is the number of files scanned in parallel.
		Jobs int
		// MaxFileSize skips larger files. Zero selects DefaultMaxFileSize.
		MaxFileSize int64
	}

	// Scanner validates the UTCS codes found in a set of files.
	Scanner struct {
		eng     *utcs.Engine
		opts    Options
		baseDir string
		exts    map[string]struct{}
	}

	// InvalidPatternError reports a pattern doublestar cannot parse.
	InvalidPatternError struct {
		Kind    string
		Pattern string
	}

	// NoFilesError reports targets that resolved to nothing.
	NoFilesError struct {
		Targets []string
	}
)

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q", e.Kind, e.Pattern)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// Error implements the error interface.
func (e *NoFilesError) Error() string {
	return fmt.Sprintf("no files matched %s", strings.Join(e.Targets, ", "))
}

// Unwrap returns ErrNoFiles for errors.Is() compatibility.
func (e *NoFilesError) Unwrap() error { return ErrNoFiles }

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// New creates a Scanner. Ignore patterns are validated eagerly so a typo
// fails before any file is read.
func New(eng *utcs.Engine, opts Options) (*Scanner, error) {
	if eng == nil {
		eng = utcs.NewEngine(nil)
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("scanner: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("scanner: resolve base directory: %w", err)
	}

	if opts.Ignore == nil {
		opts.Ignore = DefaultIgnores()
	}
	for _, pat := range opts.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, &InvalidPatternError{Kind: "ignore", Pattern: pat}
		}
	}
	if opts.Jobs <= 0 {
		opts.Jobs = DefaultJobs
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &Scanner{eng: eng, opts: opts, baseDir: absBase, exts: exts}, nil
}

// Scan resolves targets, scans every file and returns the aggregated summary.
// Unreadable files are recorded in their FileResult rather than failing the run.
func (s *Scanner) Scan(ctx context.Context, targets []string) (*Summary, error) {
	files, err := s.Collect(ctx, targets)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &NoFilesError{Targets: targets}
	}

	slog.Debug("scanning files", "count", len(files), "jobs", s.opts.Jobs)

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.ScanFile(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	return Summarize(results), nil
}

// ScanFile scans a single file. The path is reported as given; relative
// paths are opened against the scanner's base directory.
func (s *Scanner) ScanFile(file string) FileResult {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}

	text, skipped, err := readText(path, s.opts.MaxFileSize)
	switch {
	case err != nil:
		slog.Warn("cannot scan file", "path", file, "error", err)
		return FileResult{File: file, Codes: []string{}, Details: []Detail{}, Failure: err.Error()}
	case skipped != "":
		slog.Debug("skipping file", "path", file, "reason", skipped)
		return FileResult{File: file, Codes: []string{}, Details: []Detail{}, Skipped: skipped}
	}

	res := NewFileResult(file, s.eng.ScanContent(text))
	slog.Debug("scanned file", "path", file, "codes", len(res.Codes), "errors", res.Errors)
	return res
}

// Collect resolves targets to a sorted, de-duplicated list of files. Each
// target is an existing file, an existing directory, or a glob pattern.
func (s *Scanner) Collect(ctx context.Context, targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(p string) {
		seen[p] = struct{}{}
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect files canceled: %w", err)
		}

		abs := target
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(s.baseDir, target)
		}

		info, statErr := os.Stat(abs)
		switch {
		case statErr == nil && info.IsDir():
			if err := s.walk(ctx, target, abs, add); err != nil {
				return nil, err
			}
		case statErr == nil:
			add(filepath.Clean(target))
		default:
			if err := s.glob(target, add); err != nil {
				return nil, err
			}
		}
	}

	return slices.Sorted(maps.Keys(seen)), nil
}

func (s *Scanner) walk(ctx context.Context, target, abs string, add func(string)) error {
	err := filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Warn("skipping inaccessible path", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.isIgnored(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !s.acceptsExtension(path) {
			return nil
		}

		add(s.display(target, abs, path))
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", target, err)
	}
	return nil
}

func (s *Scanner) glob(pattern string, add func(string)) error {
	slashed := filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(slashed) {
		return &InvalidPatternError{Kind: "glob", Pattern: pattern}
	}

	var (
		matches []string
		err     error
	)
	if filepath.IsAbs(pattern) {
		matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	} else {
		matches, err = doublestar.Glob(os.DirFS(s.baseDir), strings.TrimPrefix(slashed, "./"), doublestar.WithFilesOnly())
		for i, m := range matches {
			matches[i] = filepath.FromSlash(m)
		}
	}
	if err != nil {
		return fmt.Errorf("glob %s: %w", pattern, err)
	}

	for _, m := range matches {
		abs := m
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(s.baseDir, m)
		}
		if !s.isIgnored(abs) {
			add(m)
		}
	}
	return nil
}

// display keeps walked paths in the same form as the directory target:
// relative targets yield relative paths, absolute targets absolute ones.
func (s *Scanner) display(target, abs, path string) string {
	if filepath.IsAbs(target) {
		return path
	}
	rel, err := filepath.Rel(abs, path)
	if err != nil {
		return path
	}
	return filepath.Join(target, rel)
}

// isIgnored reports whether abs, relative to the base directory, matches an
// ignore pattern. Paths outside the base directory are never ignored.
func (s *Scanner) isIgnored(abs string) bool {
	rel, err := filepath.Rel(s.baseDir, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	normalized := filepath.ToSlash(rel)
	for _, pat := range s.opts.Ignore {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

func (s *Scanner) acceptsExtension(path string) bool {
	if len(s.exts) == 0 {
		return true
	}
	_, ok := s.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}
