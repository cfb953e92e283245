// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLint_Default(t *testing.T) {
	t.Parallel()

	reg, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	var unreachable []string
	for _, f := range Lint(reg) {
		if f.Severity != SeverityError {
			t.Errorf("unexpected warning in default registry: %s", f)
			continue
		}
		if f.Table != TableTrigrams {
			t.Errorf("unexpected error outside trigrams: %s", f)
		}
		unreachable = append(unreachable, f.Key)
	}

	want := []string{"AUTH", "FUEL", "PNEU", "PROP", "VTOL"}
	if diff := cmp.Diff(want, unreachable); diff != "" {
		t.Errorf("unreachable trigrams mismatch (-want +got):\n%s", diff)
	}
}

func TestLint_Files(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file string
		want []Finding
	}{
		{
			file: "small.toml",
			want: []Finding{
				{SeverityError, TableTrigrams, "FUEL", "trigram is not 3 uppercase letters and can never appear in a code"},
				{SeverityWarning, TableTrigrams, "FUEL", `domain tag "999-Nowhere" names no area of the domain table`},
			},
		},
		{
			file: "small.cue",
			want: []Finding{
				{SeverityError, TableDomains, "12345", "classification is not 6 digits and can never appear in a code"},
				{SeverityWarning, TableDomains, "12345", `description "Broken" is not in "Area · Category" form`},
				{SeverityError, TableVariants, "orbsat1", "variant is not 7 uppercase letters or digits and can never appear in a code"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			reg, err := LoadFile(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatal(err)
			}
			got := Lint(reg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lint mismatch (-want +got):\n%s", diff)
			}
			if !HasErrors(got) {
				t.Error("HasErrors = false")
			}
		})
	}
}

func TestLint_Nil(t *testing.T) {
	t.Parallel()

	if got := Lint(nil); len(got) != 0 || HasErrors(got) {
		t.Errorf("Lint(nil) = %v", got)
	}
}
