// SPDX-License-Identifier: MPL-2.0

package utcs

import (
	"fmt"
	"strings"
)

// Diagnostic texts. Every message is a complete sentence suitable for direct display.
const (
	MsgEmptyCode      = "UTCS code cannot be empty"
	MsgInvalidFormat  = "Invalid UTCS code format"
	MsgExpectedFormat = "Expected format: YYYZZZ-PPPVVVV-APP-[INS]"
	MsgFormatLegend   = "Where YYYZZZ = 6 digits, PPPVVVV = 7 alphanumerics, APP = 3 letters, [INS] = installation in brackets"

	HintDelimiter = "Ensure you use the proper en-dash (‑) delimiter between blocks"
	HintBrackets  = "Check that installation units are enclosed in square brackets [...]"

	HintDomainTable = "Verify UTCS classification against the master domain table"
	HintVariant     = "Check the Product Variant Catalogue or submit a new variant request to CRB"
	HintTrigram     = "Register new trigram through CRB approval process"

	MsgInstallationChars  = "Installation contains invalid characters"
	HintInstallationChars = "Use only numbers, commas, dashes, and special keywords (ALL, STD, TST, DEV)"

	MsgInstallationFormat  = "Invalid installation format"
	HintInstallationFormat = "Use formats like: [1], [1-10], [1,3,5], [1-10,17,54], [ALL], [STD], [TST], or [DEV]"

	WarnRangeStart     = "Installation units should typically start from 1"
	WarnVersionSuffix  = "Consider using a new product variant code for major redesigns rather than version suffixes"
	warnLargeRangeTmpl = "Large installation range detected (%d units)"

	unknownDomainTmpl  = "Unknown UTCS domain/category: %s"
	unknownVariantTmpl = "Unknown product variant: %s"
	unknownTrigramTmpl = "Unknown system/technology trigram: %s"
)

// ValidationResult is the outcome of validating one code.
// Valid is true iff Errors is empty; warnings and suggestions never affect it.
type ValidationResult struct {
	Valid       bool        `json:"valid" yaml:"valid"`
	Errors      []string    `json:"errors" yaml:"errors"`
	Warnings    []string    `json:"warnings" yaml:"warnings"`
	Suggestions []string    `json:"suggestions" yaml:"suggestions"`
	Parsed      *ParsedCode `json:"parsed,omitempty" yaml:"parsed,omitempty"`
}

// FormatErrors returns the fixed error block reported for input that does not match
// the grammar.
func FormatErrors() []string {
	return []string{MsgInvalidFormat, MsgExpectedFormat, MsgFormatLegend}
}

// LargeRangeWarning returns the warning text for a range of n units.
func LargeRangeWarning(n int) string {
	return fmt.Sprintf(warnLargeRangeTmpl, n)
}

// Validate parses raw and checks it against the engine's registries.
//
// Blank input yields one error. Input that does not match the grammar yields the fixed
// format block. Otherwise the classification, variant and system are looked up
// independently so several registry errors may accumulate, followed by the installation
// checks and the style warnings. Parsed is set whenever the grammar matched.
func (e *Engine) Validate(raw string) ValidationResult {
	res := ValidationResult{
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	if strings.TrimSpace(raw) == "" {
		res.Errors = append(res.Errors, MsgEmptyCode)
		return res
	}

	code, ok := Parse(raw)
	if !ok {
		res.Errors = append(res.Errors, FormatErrors()...)
		res.Suggestions = append(res.Suggestions, HintDelimiter, HintBrackets)
		return res
	}
	res.Parsed = &code

	if !e.reg.Domains.Has(code.Classification) {
		res.addError(fmt.Sprintf(unknownDomainTmpl, code.Classification), HintDomainTable)
	}
	if !e.reg.Variants.Has(code.Variant) {
		res.addError(fmt.Sprintf(unknownVariantTmpl, code.Variant), HintVariant)
	}
	if !e.reg.Trigrams.Has(code.System) {
		res.addError(fmt.Sprintf(unknownTrigramTmpl, code.System), HintTrigram)
	}

	if !validInstallationChars(code.Installation) {
		res.addError(MsgInstallationChars, HintInstallationChars)
	}

	units := ExpandInstallation(code.Installation)
	if len(units) == 0 {
		res.addError(MsgInstallationFormat, HintInstallationFormat)
	}
	for _, u := range units {
		if u.Kind != UnitRange {
			continue
		}
		if u.Lo < 1 {
			res.Warnings = append(res.Warnings, WarnRangeStart)
		}
		if n := u.Count(); n > e.largeRangeThreshold {
			res.Warnings = append(res.Warnings, LargeRangeWarning(n))
		}
	}

	if hasVersionSuffix(code.Variant) {
		res.Warnings = append(res.Warnings, WarnVersionSuffix)
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func (r *ValidationResult) addError(msg, hint string) {
	r.Errors = append(r.Errors, msg)
	r.Suggestions = append(r.Suggestions, hint)
}

// hasVersionSuffix reports whether a variant ends in V2 through V9.
func hasVersionSuffix(variant string) bool {
	n := len(variant)
	if n < 2 || variant[n-2] != 'V' {
		return false
	}
	d := variant[n-1]
	return d >= '2' && d <= '9'
}
