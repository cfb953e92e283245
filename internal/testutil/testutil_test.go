// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTree(t *testing.T) {
	t.Parallel()

	dir := WriteTree(t, map[string]string{
		"README.md":      "top",
		"docs/deep/a.md": "nested",
	})

	for name, want := range map[string]string{"README.md": "top", "docs/deep/a.md": "nested"} {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestSetConfigHome(t *testing.T) {
	dir := t.TempDir()
	SetConfigHome(t, dir)

	got, err := os.UserConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(got) || len(got) < len(dir) || got[:len(dir)] != dir {
		t.Errorf("UserConfigDir() = %s, want it under %s", got, dir)
	}
}
