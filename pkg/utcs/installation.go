// SPDX-License-Identifier: MPL-2.0

package utcs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// KeywordAll covers every installation of the variant.
	KeywordAll Keyword = "ALL"
	// KeywordStandard covers the standard configuration.
	KeywordStandard Keyword = "STD"
	// KeywordTest covers test articles.
	KeywordTest Keyword = "TST"
	// KeywordDevelopment covers development articles.
	KeywordDevelopment Keyword = "DEV"
)

const (
	// UnitList is a segment that is neither a keyword, a number, nor an ascending range.
	// It is preserved verbatim.
	UnitList UnitKind = iota
	// UnitSpecial is a sentinel keyword that stands for the whole installation block.
	UnitSpecial
	// UnitSingle is one non-negative unit number.
	UnitSingle
	// UnitRange is an inclusive ascending range of unit numbers.
	UnitRange
)

// ErrInvalidKeyword is returned when a Keyword value is not one of the sentinel keywords.
var ErrInvalidKeyword = errors.New("invalid installation keyword")

type (
	// Keyword is a sentinel installation value.
	Keyword string

	// InvalidKeywordError is returned when a Keyword value is not recognized.
	// It wraps ErrInvalidKeyword for errors.Is() compatibility.
	InvalidKeywordError struct {
		Value Keyword
	}

	// UnitKind tags the variant held by an InstallationUnit.
	UnitKind int

	// InstallationUnit is one comma-separated element of an installation block.
	InstallationUnit struct {
		// Kind selects which of the remaining fields are meaningful.
		Kind UnitKind `json:"kind" yaml:"kind"`
		// Raw is the trimmed source segment.
		Raw string `json:"raw" yaml:"raw"`
		// Keyword is set for UnitSpecial.
		Keyword Keyword `json:"keyword,omitempty" yaml:"keyword,omitempty"`
		// Lo is the unit number for UnitSingle and the lower bound for UnitRange.
		Lo int `json:"lo,omitempty" yaml:"lo,omitempty"`
		// Hi equals Lo for UnitSingle and is the upper bound for UnitRange.
		Hi int `json:"hi,omitempty" yaml:"hi,omitempty"`
	}
)

// Keywords returns the sentinel keywords in their canonical order.
func Keywords() []Keyword {
	return []Keyword{KeywordAll, KeywordStandard, KeywordTest, KeywordDevelopment}
}

// IsValid returns whether the Keyword is one of the sentinel keywords.
func (k Keyword) IsValid() (bool, []error) {
	switch k {
	case KeywordAll, KeywordStandard, KeywordTest, KeywordDevelopment:
		return true, nil
	default:
		return false, []error{&InvalidKeywordError{Value: k}}
	}
}

// String returns the keyword text.
func (k Keyword) String() string { return string(k) }

// Error implements the error interface for InvalidKeywordError.
func (e *InvalidKeywordError) Error() string {
	return fmt.Sprintf("invalid installation keyword %q (valid: ALL, STD, TST, DEV)", e.Value)
}

// Unwrap returns ErrInvalidKeyword for errors.Is() compatibility.
func (e *InvalidKeywordError) Unwrap() error { return ErrInvalidKeyword }

// String returns a lowercase name for the kind.
func (k UnitKind) String() string {
	switch k {
	case UnitSpecial:
		return "special"
	case UnitSingle:
		return "single"
	case UnitRange:
		return "range"
	case UnitList:
		return "list"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name for JSON and YAML output.
func (k UnitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Count returns the number of unit numbers the unit stands for.
// Special and list units count as zero because they enumerate nothing.
func (u InstallationUnit) Count() int {
	switch u.Kind {
	case UnitSingle:
		return 1
	case UnitRange:
		return u.Hi - u.Lo + 1
	default:
		return 0
	}
}

// Expanded returns the unit numbers in ascending order, or nil for special
// and list units. Ranges are materialised on every call.
func (u InstallationUnit) Expanded() []int {
	switch u.Kind {
	case UnitSingle:
		return []int{u.Lo}
	case UnitRange:
		out := make([]int, 0, u.Count())
		for n := u.Lo; n <= u.Hi; n++ {
			out = append(out, n)
		}
		return out
	default:
		return nil
	}
}

// ExpandInstallation splits an installation block into units.
//
// An exact keyword yields one special unit. Otherwise the block is split on commas and
// each trimmed segment becomes a range, a single number, or a verbatim list unit.
// Descending or non-numeric ranges degrade to list units instead of failing.
func ExpandInstallation(s string) []InstallationUnit {
	if ok, _ := Keyword(s).IsValid(); ok {
		return []InstallationUnit{{Kind: UnitSpecial, Raw: s, Keyword: Keyword(s)}}
	}

	segments := strings.Split(s, ",")
	units := make([]InstallationUnit, 0, len(segments))
	for _, seg := range segments {
		units = append(units, parseSegment(strings.TrimSpace(seg)))
	}
	return units
}

func parseSegment(seg string) InstallationUnit {
	if idx := strings.IndexFunc(seg, IsDelimiter); idx >= 0 {
		_, size := utf8.DecodeRuneInString(seg[idx:])
		loText, hiText := seg[:idx], seg[idx+size:]
		if !ContainsDelimiter(hiText) {
			lo, loOK := parseUnitNumber(strings.TrimSpace(loText))
			hi, hiOK := parseUnitNumber(strings.TrimSpace(hiText))
			if loOK && hiOK && lo <= hi {
				return InstallationUnit{Kind: UnitRange, Raw: seg, Lo: lo, Hi: hi}
			}
		}
		return InstallationUnit{Kind: UnitList, Raw: seg}
	}

	if n, ok := parseUnitNumber(seg); ok {
		return InstallationUnit{Kind: UnitSingle, Raw: seg, Lo: n, Hi: n}
	}
	return InstallationUnit{Kind: UnitList, Raw: seg}
}

// parseUnitNumber accepts pure decimal digits that fit in an int32.
func parseUnitNumber(s string) (int, bool) {
	if !isAllDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// validInstallationChars reports whether s uses only uppercase letters, digits,
// commas, block delimiters and whitespace.
func validInstallationChars(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ',', IsDelimiter(r), unicode.IsSpace(r):
		default:
			return false
		}
	}
	return true
}
