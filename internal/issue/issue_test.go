// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	if RegistryNotFoundId != 1 {
		t.Errorf("RegistryNotFoundId = %d, want 1", RegistryNotFoundId)
	}

	values := Values()
	if len(values) != int(InvalidOutputFormatId) {
		t.Fatalf("catalog has %d issues, want %d", len(values), InvalidOutputFormatId)
	}
	for i, iss := range values {
		if want := Id(i + 1); iss.Id() != want {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, iss.Id(), want)
		}
	}
}

func TestIssue_Catalog(t *testing.T) {
	t.Parallel()

	for _, iss := range Values() {
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", iss.Id())
		}
		if len(iss.DocLinks()) == 0 {
			t.Errorf("issue %d has no doc links", iss.Id())
		}
		if !strings.HasPrefix(strings.TrimSpace(string(iss.MarkdownMsg())), "# ") {
			t.Errorf("issue %d should start with a heading", iss.Id())
		}
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	t.Parallel()

	iss := Get(InvalidCodeId)
	if iss == nil {
		t.Fatal("Get(InvalidCodeId) returned nil")
	}
	if !strings.Contains(string(iss.MarkdownMsg()), "YYYZZZ-PPPVVVV-APP-[INS]") {
		t.Error("invalid code issue should show the code layout")
	}
}

func TestIssue_DocLinksAreCopies(t *testing.T) {
	t.Parallel()

	iss := Get(ConfigLoadFailedId)
	links := iss.DocLinks()
	links[0] = "mutated"
	if iss.DocLinks()[0] == "mutated" {
		t.Error("DocLinks() should return a copy")
	}
}

func TestIssue_Markdown(t *testing.T) {
	t.Parallel()

	md := Get(ScanFailedId).Markdown()
	if !strings.Contains(md, "## See also:") || !strings.Contains(md, "scanning.md") {
		t.Errorf("Markdown() missing links:\n%s", md)
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(NoFilesMatchedId).Render("notty")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "No files to scan") {
		t.Errorf("rendered output missing heading:\n%s", out)
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
	if Get(Id(0)) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestActionableError_WrapsCatalogCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such file")
	err := NewErrorContext().
		WithOperation("load registry").
		WithResource("reg.cue").
		WithIssue(RegistryNotFoundId).
		Wrap(cause).
		BuildError()

	var ae *ActionableError
	if !errors.As(err, &ae) || !errors.Is(err, cause) {
		t.Fatalf("error chain broken: %v", err)
	}
	if ae.CatalogEntry().Id() != RegistryNotFoundId {
		t.Error("catalog link lost")
	}
}
