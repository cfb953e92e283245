// SPDX-License-Identifier: MPL-2.0

package utcs

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// Format renders a result as a plain-text card. Valid codes list the registry
// description of each block; errors, warnings and suggestions follow in sections.
func (e *Engine) Format(res ValidationResult) string {
	var b strings.Builder

	if res.Valid {
		b.WriteString("✓ Valid UTCS code\n")
		if p := res.Parsed; p != nil {
			fmt.Fprintf(&b, "   Domain: %s (%s)\n", p.Classification, e.Describe(BlockClassification, p.Classification))
			fmt.Fprintf(&b, "   Variant: %s (%s)\n", p.Variant, e.Describe(BlockVariant, p.Variant))
			fmt.Fprintf(&b, "   System: %s (%s)\n", p.System, e.Describe(BlockSystem, p.System))
			fmt.Fprintf(&b, "   Installation: [%s]\n", p.Installation)
		}
	} else {
		b.WriteString("✗ Invalid UTCS code\n")
	}

	writeSection(&b, "Errors", "•", res.Errors)
	writeSection(&b, "Warnings", "!", res.Warnings)
	writeSection(&b, "Suggestions", "→", res.Suggestions)
	return b.String()
}

// Describe returns the registry description shown for a block value, or "Unknown".
// Classifications show the domain text, variants their description and systems their family.
func (e *Engine) Describe(block Block, value string) string {
	switch block {
	case BlockClassification:
		if d, ok := e.reg.Classification(value); ok {
			return d.Description
		}
	case BlockVariant:
		if v, ok := e.reg.Variant(value); ok {
			return v.Description
		}
	case BlockSystem:
		if t, ok := e.reg.Trigram(value); ok {
			return t.Family
		}
	}
	return unknownDescription
}

func writeSection(b *strings.Builder, title, bullet string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, l := range lines {
		fmt.Fprintf(b, "   %s %s\n", bullet, l)
	}
}
