// SPDX-License-Identifier: MPL-2.0

package utcs

import "unicode/utf8"

// ContentScan is the outcome of validating every code found in a text.
// Codes and Results are index-aligned.
type ContentScan struct {
	Codes     []string           `json:"codes" yaml:"codes"`
	Results   []ValidationResult `json:"results" yaml:"results"`
	HasErrors bool               `json:"has_errors" yaml:"has_errors"`
}

// ExtractCodes returns every code-shaped substring of text in order of appearance,
// duplicates included. Matches never overlap: scanning resumes after the closing bracket
// of each match, and advances one rune past any position where no code starts.
func ExtractCodes(text string) []string {
	codes := []string{}
	for i := 0; i < len(text); {
		if m, ok := matchAt(text, i); ok {
			codes = append(codes, text[m.start:m.end])
			i = m.end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return codes
}

// ScanContent validates each code extracted from text independently.
// HasErrors is true iff at least one result is invalid.
func (e *Engine) ScanContent(text string) ContentScan {
	codes := ExtractCodes(text)
	scan := ContentScan{
		Codes:   codes,
		Results: make([]ValidationResult, 0, len(codes)),
	}
	for _, c := range codes {
		r := e.Validate(c)
		if !r.Valid {
			scan.HasErrors = true
		}
		scan.Results = append(scan.Results, r)
	}
	return scan
}

// Valid returns the number of valid results.
func (s ContentScan) Valid() int {
	n := 0
	for _, r := range s.Results {
		if r.Valid {
			n++
		}
	}
	return n
}
