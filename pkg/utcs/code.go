// SPDX-License-Identifier: MPL-2.0

package utcs

import "strings"

const (
	// BlockClassification is block A, the 6-digit domain/category field.
	BlockClassification Block = "A"
	// BlockVariant is block B, the 7-character product variant field.
	BlockVariant Block = "B"
	// BlockSystem is block C, the 3-letter system/technology trigram.
	BlockSystem Block = "C"
	// BlockInstallation is block D, the bracketed installation specifier.
	BlockInstallation Block = "D"
)

type (
	// Block identifies one of the four blocks of a UTCS code.
	Block string

	// ParsedCode is a code that matched the full grammar.
	// A zero ParsedCode is never returned alongside ok == true.
	ParsedCode struct {
		// Classification is block A (exactly 6 ASCII digits).
		Classification string `json:"classification" yaml:"classification"`
		// Variant is block B (exactly 7 of A-Z and 0-9).
		Variant string `json:"variant" yaml:"variant"`
		// System is block C (exactly 3 of A-Z).
		System string `json:"system" yaml:"system"`
		// Installation is block D without its brackets.
		Installation string `json:"installation" yaml:"installation"`
		// Source is the untrimmed input the code was parsed from.
		Source string `json:"source" yaml:"source"`
	}
)

// Name returns the human-readable block name used in diagnostics.
func (b Block) Name() string {
	switch b {
	case BlockClassification:
		return "UTCS classification"
	case BlockVariant:
		return "Product variant"
	case BlockSystem:
		return "System/Technology ID"
	case BlockInstallation:
		return "Installation"
	default:
		return "Unknown block"
	}
}

// String returns the block letter.
func (b Block) String() string { return string(b) }

// Parse matches raw against the anchored code grammar after trimming surrounding
// whitespace. It reports false for any mismatch and performs no registry lookups.
func Parse(raw string) (ParsedCode, bool) {
	trimmed := strings.TrimSpace(raw)
	m, ok := matchAt(trimmed, 0)
	if !ok || m.end != len(trimmed) {
		return ParsedCode{}, false
	}
	return ParsedCode{
		Classification: m.classification,
		Variant:        m.variant,
		System:         m.system,
		Installation:   m.installation,
		Source:         raw,
	}, true
}

// Canonical renders the code with the canonical delimiter, regardless of the
// delimiters used in Source.
func (c ParsedCode) Canonical() string {
	return Join(c.Classification, c.Variant, c.System) + string(Delimiter) + "[" + c.Installation + "]"
}

// String returns Canonical.
func (c ParsedCode) String() string { return c.Canonical() }

// Block returns the value of block b, or "" for an unknown block.
func (c ParsedCode) Block(b Block) string {
	switch b {
	case BlockClassification:
		return c.Classification
	case BlockVariant:
		return c.Variant
	case BlockSystem:
		return c.System
	case BlockInstallation:
		return c.Installation
	default:
		return ""
	}
}

// Join concatenates blocks with the canonical delimiter.
func Join(blocks ...string) string {
	return strings.Join(blocks, string(Delimiter))
}
