// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a scan when files under a directory change.
//
// Filesystem events are filtered by doublestar patterns, coalesced for a quiet
// period, and handed to a callback as a sorted list of paths relative to the
// base directory. The callback runs on the watch loop, so it never overlaps
// itself; events arriving meanwhile are delivered with the next batch.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Options.Debounce is unset.
const DefaultDebounce = 300 * time.Millisecond

// alwaysIgnored are editor and VCS paths that never carry codes.
var alwaysIgnored = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: already running")

type (
	// Options configures a Watcher.
	Options struct {
		// BaseDir is the watched tree. Empty means the working directory.
		BaseDir string
		// Patterns select the files whose changes are reported. Empty selects all.
		Patterns []string
		// Ignore excludes paths in addition to the editor and VCS defaults.
		Ignore []string
		// Debounce is the quiet period before a batch is delivered.
		Debounce time.Duration
		// ClearScreen writes an ANSI clear sequence to Out before each batch.
		ClearScreen bool
		// Out receives the clear sequence. nil means os.Stdout.
		Out io.Writer
		// OnChange receives each batch of changed paths.
		OnChange func(ctx context.Context, changed []string) error
	}

	// Watcher delivers debounced change batches for a directory tree.
	Watcher struct {
		opts    Options
		ignore  []string
		baseDir string
		fsw     *fsnotify.Watcher
		started atomic.Bool
	}
)

// New validates the patterns, then registers every non-ignored directory
// under BaseDir.
func New(opts Options) (*Watcher, error) {
	if opts.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: working directory: %w", err)
		}
		opts.BaseDir = wd
	}
	baseDir, err := filepath.Abs(opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: base directory: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	for _, pat := range slices.Concat(opts.Patterns, opts.Ignore) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid pattern %q", pat)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &Watcher{
		opts:    opts,
		ignore:  slices.Concat(alwaysIgnored, opts.Ignore),
		baseDir: baseDir,
		fsw:     fsw,
	}
	if err := w.addTree(baseDir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is done, delivering change batches to OnChange.
// Callback errors are logged and do not stop the loop. Run returns nil on
// cancellation and an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Warn("watch: close", "error", err)
		}
	}()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, keep := w.relevant(evt)
			if !keep {
				continue
			}
			pending[rel] = struct{}{}
			timer.Reset(w.opts.Debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.deliver(ctx, changed)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: %w", err)
			}
			slog.Warn("watch: notification error", "error", err)
		}
	}
}

func (w *Watcher) deliver(ctx context.Context, changed []string) {
	if w.opts.ClearScreen {
		fmt.Fprint(w.opts.Out, "\033[2J\033[H")
	}
	if w.opts.OnChange == nil {
		return
	}
	if err := w.opts.OnChange(ctx, changed); err != nil {
		slog.Warn("watch: callback failed", "error", err)
	}
}

// relevant filters an event and returns its path relative to the base
// directory. New directories are added to the watch as a side effect.
func (w *Watcher) relevant(evt fsnotify.Event) (string, bool) {
	rel, err := filepath.Rel(w.baseDir, evt.Name)
	if err != nil {
		rel = evt.Name
	}
	if w.ignored(rel) {
		return "", false
	}

	if evt.Has(fsnotify.Create) {
		if info, statErr := os.Stat(evt.Name); statErr == nil && info.IsDir() {
			if err := w.addTree(evt.Name); err != nil {
				slog.Warn("watch: add directory", "path", evt.Name, "error", err)
			}
			return "", false
		}
	}
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
		return "", false
	}
	return rel, w.selected(rel)
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Debug("watch: skipping inaccessible path", "path", path, "error", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr == nil && rel != "." && (w.ignored(rel) || w.ignored(rel+"/")) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) ignored(rel string) bool {
	return matchAny(w.ignore, rel)
}

func (w *Watcher) selected(rel string) bool {
	return len(w.opts.Patterns) == 0 || matchAny(w.opts.Patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, normalized); err == nil && ok {
			return true
		}
	}
	return false
}
