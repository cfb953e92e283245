// SPDX-License-Identifier: MPL-2.0

package utcs_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ampel360/utcs/pkg/utcs"
)

func TestValidate_Empty(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())
	for _, in := range []string{"", "   ", "\t\n"} {
		res := eng.Validate(in)
		if res.Valid {
			t.Errorf("Validate(%q).Valid = true", in)
		}
		if diff := cmp.Diff([]string{utcs.MsgEmptyCode}, res.Errors); diff != "" {
			t.Errorf("Validate(%q) errors mismatch (-want +got):\n%s", in, diff)
		}
		if res.Parsed != nil {
			t.Errorf("Validate(%q).Parsed = %+v, want nil", in, res.Parsed)
		}
	}
}

func TestValidate_FormatErrors(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())
	inputs := []string{
		"hello",
		"090101-BWBQ100-QNS",
		"090101-BWBQ100-QNS-1",
		"090101-BWBQ10-QNS-[1]",
		"090101—BWBQ100—QNS—[1]",
		"090101-BWBQ100-QNS-[]",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			if _, ok := utcs.Parse(in); ok {
				t.Fatalf("Parse(%q) unexpectedly matched", in)
			}
			res := eng.Validate(in)
			if res.Valid {
				t.Fatal("Valid = true for malformed input")
			}
			if len(res.Errors) != 3 {
				t.Fatalf("got %d errors, want 3: %v", len(res.Errors), res.Errors)
			}
			if diff := cmp.Diff(utcs.FormatErrors(), res.Errors); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{utcs.HintDelimiter, utcs.HintBrackets}, res.Suggestions); diff != "" {
				t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
			}
			if res.Parsed != nil {
				t.Error("Parsed should be nil for malformed input")
			}
		})
	}
}

func TestValidate_ValidCodes(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())
	inputs := []string{
		"090101-BWBQ100-QNS-[ALL]",
		"090101‑BWBQ100‑QNS‑[1‑10,17,54]",
		"024500-EVTA100-EPS-[1, 2, 3]",
		"100100-ORBSAT1-OBC-[TST]",
		"024500-STDAC01-AVI-[12]",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			res := eng.Validate(in)
			if !res.Valid || len(res.Errors) != 0 {
				t.Fatalf("Validate(%q) = invalid: %v", in, res.Errors)
			}
			if res.Parsed == nil {
				t.Fatal("Parsed is nil for a valid code")
			}
			if len(res.Suggestions) != 0 {
				t.Errorf("unexpected suggestions: %v", res.Suggestions)
			}
		})
	}
}

func TestValidate_RegistryErrors(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())

	tests := []struct {
		name       string
		input      string
		wantErrors []string
		wantHints  []string
	}{
		{
			name:       "unknown classification",
			input:      "999999-BWBQ100-QNS-[ALL]",
			wantErrors: []string{"Unknown UTCS domain/category: 999999"},
			wantHints:  []string{utcs.HintDomainTable},
		},
		{
			name:       "unknown variant",
			input:      "090101-ZZZZ999-QNS-[ALL]",
			wantErrors: []string{"Unknown product variant: ZZZZ999"},
			wantHints:  []string{utcs.HintVariant},
		},
		{
			name:       "unknown trigram",
			input:      "090101-BWBQ100-XYZ-[ALL]",
			wantErrors: []string{"Unknown system/technology trigram: XYZ"},
			wantHints:  []string{utcs.HintTrigram},
		},
		{
			name:  "all three accumulate",
			input: "999999-ZZZZ999-XYZ-[1]",
			wantErrors: []string{
				"Unknown UTCS domain/category: 999999",
				"Unknown product variant: ZZZZ999",
				"Unknown system/technology trigram: XYZ",
			},
			wantHints: []string{utcs.HintDomainTable, utcs.HintVariant, utcs.HintTrigram},
		},
		{
			name:       "invalid installation characters",
			input:      "090101-BWBQ100-QNS-[a;b]",
			wantErrors: []string{utcs.MsgInstallationChars},
			wantHints:  []string{utcs.HintInstallationChars},
		},
		{
			name:       "registry and installation errors together",
			input:      "999999-BWBQ100-QNS-[1/2]",
			wantErrors: []string{"Unknown UTCS domain/category: 999999", utcs.MsgInstallationChars},
			wantHints:  []string{utcs.HintDomainTable, utcs.HintInstallationChars},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := eng.Validate(tt.input)
			if res.Valid {
				t.Fatal("Valid = true, want false")
			}
			if diff := cmp.Diff(tt.wantErrors, res.Errors); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantHints, res.Suggestions); diff != "" {
				t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
			}
			if res.Parsed == nil {
				t.Error("Parsed should be set when the grammar matched")
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "no warnings", input: "090101-BWBQ100-QNS-[1-100]", want: []string{}},
		{name: "large range", input: "090101-BWBQ100-QNS-[1-150]", want: []string{"Large installation range detected (150 units)"}},
		{name: "zero start", input: "090101-BWBQ100-QNS-[0-5]", want: []string{utcs.WarnRangeStart}},
		{
			name:  "zero start and large",
			input: "090101-BWBQ100-QNS-[0-200]",
			want:  []string{utcs.WarnRangeStart, "Large installation range detected (201 units)"},
		},
		{name: "single zero is not a range", input: "090101-BWBQ100-QNS-[0]", want: []string{}},
		{name: "version suffix", input: "090101-CARGOV2-AVI-[1]", want: []string{utcs.WarnVersionSuffix}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := eng.Validate(tt.input)
			if !res.Valid {
				t.Fatalf("warnings must not affect validity, got errors %v", res.Errors)
			}
			if diff := cmp.Diff(tt.want, res.Warnings); diff != "" {
				t.Errorf("warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_VersionSuffixRange(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())
	tests := []struct {
		variant string
		warn    bool
	}{
		{"CARGOV2", true},
		{"CARGOV3", true},
		{"CARGOV4", true},
		{"CARGOV9", true},
		{"CARGOV1", false},
		{"CARGOV0", false},
		{"CARGO2V", false},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			t.Parallel()

			res := eng.Validate(utcs.Join("090101", tt.variant, "AVI", "[1]"))
			if res.Parsed == nil {
				t.Fatalf("code did not parse: %v", res.Errors)
			}
			if got := slices.Contains(res.Warnings, utcs.WarnVersionSuffix); got != tt.warn {
				t.Errorf("version warning = %v, want %v (warnings %v)", got, tt.warn, res.Warnings)
			}
		})
	}
}

func TestValidate_LargeRangeThreshold(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries(), utcs.WithLargeRangeThreshold(10))
	res := eng.Validate("090101-BWBQ100-QNS-[1-11]")
	if !slices.Contains(res.Warnings, utcs.LargeRangeWarning(11)) {
		t.Errorf("warnings = %v, want large range warning for 11 units", res.Warnings)
	}
}

func TestValidate_DescendingRangeIsLenient(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())
	res := eng.Validate("090101-BWBQ100-QNS-[10-1]")
	if !res.Valid {
		t.Errorf("descending range should degrade to a list unit, got errors %v", res.Errors)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())
	in := "999999-CARGOV2-XYZ-[0-500,a]"
	first := eng.Validate(in)
	for range 5 {
		if diff := cmp.Diff(first, eng.Validate(in)); diff != "" {
			t.Fatalf("repeated Validate differs (-first +again):\n%s", diff)
		}
	}
}

func TestValidate_NilRegistries(t *testing.T) {
	t.Parallel()

	res := utcs.NewEngine(nil).Validate("090101-BWBQ100-QNS-[1]")
	if res.Valid || len(res.Errors) != 3 {
		t.Errorf("nil registries should miss every lookup, got %v", res.Errors)
	}
}

func TestEngine_Format(t *testing.T) {
	t.Parallel()

	eng := utcs.NewEngine(testRegistries())

	valid := eng.Format(eng.Validate("090101-BWBQ100-QNS-[ALL]"))
	for _, want := range []string{
		"Valid UTCS code",
		"Domain: 090101 (Quantum · Quantum Navigation System)",
		"Variant: BWBQ100 (BWB quantum-enhanced passenger aircraft)",
		"System: QNS (Quantum Systems)",
		"Installation: [ALL]",
	} {
		if !strings.Contains(valid, want) {
			t.Errorf("Format() missing %q in:\n%s", want, valid)
		}
	}

	invalid := eng.Format(eng.Validate("999999-BWBQ100-QNS-[ALL]"))
	for _, want := range []string{"Invalid UTCS code", "Errors:", "Unknown UTCS domain/category: 999999", "Suggestions:"} {
		if !strings.Contains(invalid, want) {
			t.Errorf("Format() missing %q in:\n%s", want, invalid)
		}
	}
	if strings.Contains(invalid, "Warnings:") {
		t.Errorf("Format() printed an empty warnings section:\n%s", invalid)
	}
}
