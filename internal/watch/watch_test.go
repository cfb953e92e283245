// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

// startWatcher runs w in the background and returns a stop function that
// cancels it and reports Run's result.
func startWatcher(t *testing.T, w *Watcher) func() {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	return func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcher_DebouncesIntoOneBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := make(chan []string, 4)

	w, err := New(Options{
		BaseDir:  dir,
		Debounce: 150 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer stop()

	for _, name := range []string{"c.md", "a.md", "b.md"} {
		writeFile(t, filepath.Join(dir, name), "090101-BWBQ100-QNS-[1]")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case changed := <-batches:
		if !slices.Equal(changed, []string{"a.md", "b.md", "c.md"}) {
			t.Errorf("batch = %v, want sorted a.md b.md c.md", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for batch")
	}

	select {
	case extra := <-batches:
		t.Errorf("unexpected second batch %v", extra)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_PatternsAndIgnores(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := make(chan []string, 4)

	w, err := New(Options{
		BaseDir:  dir,
		Patterns: []string{"**/*.md"},
		Ignore:   []string{"drafts/**"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer stop()

	if err := os.Mkdir(filepath.Join(dir, "drafts"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, "drafts", "wip.md"), "x")
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "spec.md"), "x")

	select {
	case changed := <-batches:
		if !slices.Equal(changed, []string{"spec.md"}) {
			t.Errorf("batch = %v, want [spec.md]", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := make(chan []string, 4)

	w, err := New(Options{
		BaseDir:  dir,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	stop := startWatcher(t, w)
	defer stop()

	sub := filepath.Join(dir, "docs")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(sub, "new.md"), "x")

	want := filepath.Join("docs", "new.md")
	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-batches:
			if slices.Contains(changed, want) {
				return
			}
		case <-deadline:
			t.Fatalf("never saw %s", want)
		}
	}
}

func TestWatcher_ClearScreenAndCallbackErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := &syncBuffer{}
	calls := make(chan struct{}, 4)

	w, err := New(Options{
		BaseDir:     dir,
		Debounce:    50 * time.Millisecond,
		ClearScreen: true,
		Out:         out,
		OnChange: func(context.Context, []string) error {
			calls <- struct{}{}
			return errors.New("rescan failed")
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	stop := startWatcher(t, w)

	writeFile(t, filepath.Join(dir, "a.md"), "x")
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	// A failing callback does not stop the loop.
	writeFile(t, filepath.Join(dir, "b.md"), "x")
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher stopped after a callback error")
	}
	stop()

	if !strings.Contains(out.String(), "\033[2J\033[H") {
		t.Errorf("clear sequence not written: %q", out.String())
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Options{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	stop := startWatcher(t, w)
	defer stop()

	// Give the first Run a moment to claim the watcher.
	time.Sleep(20 * time.Millisecond)
	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{BaseDir: t.TempDir(), Patterns: []string{"[a-"}}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if _, err := New(Options{BaseDir: t.TempDir(), Ignore: []string{"{a,b"}}); err == nil {
		t.Fatal("expected error for invalid ignore pattern")
	}
}

func TestMatchAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want bool
	}{
		{".git/HEAD", true},
		{filepath.Join("sub", ".git", "index"), true},
		{"notes.md.swp", true},
		{"notes.md~", true},
		{filepath.Join("docs", ".DS_Store"), true},
		{"notes.md", false},
	}
	for _, tt := range tests {
		if got := matchAny(alwaysIgnored, tt.rel); got != tt.want {
			t.Errorf("matchAny(defaults, %q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

// syncBuffer is a bytes.Buffer safe for the watch loop and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
