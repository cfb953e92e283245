// SPDX-License-Identifier: MPL-2.0

package report

import (
	"strings"
	"testing"
	"time"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	run := New(sampleSummary(), Meta{Version: "1.0.0", Registry: "default_registry.cue", Time: time.Unix(0, 0)})
	md := Markdown(run)

	for _, want := range []string{
		"# UTCS Scan Summary",
		"**Result:** failed",
		"| Invalid codes | 1 |",
		"| Files scanned | 4 |",
		"| `docs/a.md` | `" + badCode + "` | invalid | Invalid classification: 999999; second \\| message |",
		"| `docs/a.md` | `" + warnCode + "` | warning |",
		"- `docs/logo.png`: skipped (binary)",
		"- `docs/gone.md`: unreadable (permission denied)",
		"1970-01-01T00:00:00Z",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "| `docs/b.md` |") {
		t.Errorf("valid codes should not be listed:\n%s", md)
	}
}

func TestMarkdown_Clean(t *testing.T) {
	t.Parallel()

	md := Markdown(New(nil, Meta{}))
	if !strings.Contains(md, "**Result:** passed") {
		t.Errorf("markdown:\n%s", md)
	}
	if strings.Contains(md, "## Findings") || strings.Contains(md, "## Not scanned") {
		t.Errorf("empty run should have no sections:\n%s", md)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown(New(sampleSummary(), Meta{}), "notty")
	if err != nil {
		t.Fatalf("RenderMarkdown() failed: %v", err)
	}
	if !strings.Contains(out, "UTCS Scan Summary") {
		t.Errorf("rendered output:\n%s", out)
	}
}
