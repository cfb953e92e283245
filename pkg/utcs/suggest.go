// SPDX-License-Identifier: MPL-2.0

package utcs

import (
	"slices"
	"strings"
)

// SuggestionRule selects trigrams for variants that contain any of VariantContains.
// A trigram is selected when its Family contains Family, or when one of its Domains
// tags equals Domain. Empty Family and Domain never select.
type SuggestionRule struct {
	VariantContains []string `json:"variant_contains" yaml:"variant_contains"`
	Family          string   `json:"family,omitempty" yaml:"family,omitempty"`
	Domain          string   `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// DefaultSuggestionRules returns the built-in rule table, in evaluation order.
func DefaultSuggestionRules() []SuggestionRule {
	return []SuggestionRule{
		{VariantContains: []string{"Q"}, Family: "Quantum"},
		{VariantContains: []string{"EVT"}, Family: "Electric"},
		{VariantContains: []string{"HYB"}, Family: "Hybrid"},
		{VariantContains: []string{"UAV"}, Family: "Autonomous"},
		{VariantContains: []string{"ROV", "FAL", "MRO", "SPC", "EXP"}, Family: "Robotics"},
		{VariantContains: []string{"SUBS", "ORB", "SAT"}, Domain: "100-Space"},
	}
}

// Applies reports whether the rule fires for variant.
func (r SuggestionRule) Applies(variant string) bool {
	for _, s := range r.VariantContains {
		if s != "" && strings.Contains(variant, s) {
			return true
		}
	}
	return false
}

// Selects reports whether the rule picks trigram t.
func (r SuggestionRule) Selects(t Trigram) bool {
	if r.Family != "" && strings.Contains(t.Family, r.Family) {
		return true
	}
	return r.Domain != "" && slices.Contains(t.Domains, r.Domain)
}

// Suggest proposes completions for a partial code. It never validates.
//
// A bare known classification yields "<cls>‑<variant>‑" for the first variants in registry
// order. A classification and known variant, optionally followed by a delimiter, yields
// "<cls>‑<variant>‑<trigram>‑[" with rule-selected trigrams first and common trigrams after.
// Registry keys the grammar cannot accept are skipped. Any other input yields an empty slice.
func (e *Engine) Suggest(partial string) []string {
	partial = strings.TrimSpace(partial)
	out := []string{}

	if len(partial) == classificationLen && isAllDigits(partial) {
		if !e.reg.Domains.Has(partial) {
			return out
		}
		for _, v := range e.reg.Variants.Keys() {
			if len(out) == e.suggestionLimit {
				break
			}
			if isVariantCode(v) {
				out = append(out, Join(partial, v, ""))
			}
		}
		return out
	}

	cls, variant, ok := splitPartial(partial)
	if !ok || !e.reg.Variants.Has(variant) {
		return out
	}
	for _, tri := range e.trigramCandidates(variant) {
		out = append(out, Join(cls, variant, tri, "["))
	}
	return out
}

// trigramCandidates returns up to suggestionLimit trigram codes for variant.
func (e *Engine) trigramCandidates(variant string) []string {
	var active []SuggestionRule
	for _, r := range e.rules {
		if r.Applies(variant) {
			active = append(active, r)
		}
	}

	codes := e.reg.Trigrams.Keys()
	picked := make([]string, 0, e.suggestionLimit)
	seen := make(map[string]struct{}, e.suggestionLimit)
	add := func(code string) {
		if !isSystemCode(code) {
			return
		}
		if _, dup := seen[code]; dup || len(picked) == e.suggestionLimit {
			return
		}
		seen[code] = struct{}{}
		picked = append(picked, code)
	}

	for _, code := range codes {
		t, _ := e.reg.Trigrams.Lookup(code)
		for _, r := range active {
			if r.Selects(t) {
				add(code)
				break
			}
		}
	}
	for _, code := range codes {
		if t, _ := e.reg.Trigrams.Lookup(code); t.Common {
			add(code)
		}
	}
	return picked
}

// isVariantCode reports whether a registry key can fill block B.
func isVariantCode(s string) bool {
	_, _, ok := takeRun(s, 0, variantLen, isUpperAlnum)
	return ok && len(s) == variantLen
}

// isSystemCode reports whether a registry key can fill block C.
func isSystemCode(s string) bool {
	_, _, ok := takeRun(s, 0, systemLen, isUpper)
	return ok && len(s) == systemLen
}

// splitPartial matches "<6 digits><delim><7 alnum>" with an optional trailing delimiter.
func splitPartial(s string) (cls, variant string, ok bool) {
	var pos int
	if cls, pos, ok = takeRun(s, 0, classificationLen, isDigit); !ok {
		return "", "", false
	}
	if pos, ok = takeDelimiter(s, pos); !ok {
		return "", "", false
	}
	if variant, pos, ok = takeRun(s, pos, variantLen, isUpperAlnum); !ok {
		return "", "", false
	}
	if pos < len(s) {
		if pos, ok = takeDelimiter(s, pos); !ok {
			return "", "", false
		}
	}
	if pos != len(s) {
		return "", "", false
	}
	return cls, variant, true
}
