// SPDX-License-Identifier: MPL-2.0

package utcs

import (
	"strings"
	"unicode/utf8"
)

const (
	// Delimiter is the canonical block separator (U+2011 non-breaking hyphen).
	Delimiter = '\u2011'
	// HyphenDelimiter is the plain ASCII hyphen, accepted in place of Delimiter.
	HyphenDelimiter = '-'
	// EnDashDelimiter is the typographic en-dash (U+2013), accepted in place of Delimiter.
	EnDashDelimiter = '\u2013'

	classificationLen = 6
	variantLen        = 7
	systemLen         = 3
)

// codeMatch holds the byte span and the four block values of one grammar match.
type codeMatch struct {
	start, end     int
	classification string
	variant        string
	system         string
	installation   string
}

// IsDelimiter reports whether r separates UTCS blocks.
func IsDelimiter(r rune) bool {
	return r == Delimiter || r == HyphenDelimiter || r == EnDashDelimiter
}

// ContainsDelimiter reports whether s contains any block delimiter.
func ContainsDelimiter(s string) bool {
	return strings.IndexFunc(s, IsDelimiter) >= 0
}

// matchAt tries to match the code grammar starting exactly at byte offset i of s.
// The installation block runs up to the first ']' and may not cross a line terminator.
func matchAt(s string, i int) (codeMatch, bool) {
	m := codeMatch{start: i}
	pos := i

	var ok bool
	if m.classification, pos, ok = takeRun(s, pos, classificationLen, isDigit); !ok {
		return codeMatch{}, false
	}
	if pos, ok = takeDelimiter(s, pos); !ok {
		return codeMatch{}, false
	}
	if m.variant, pos, ok = takeRun(s, pos, variantLen, isUpperAlnum); !ok {
		return codeMatch{}, false
	}
	if pos, ok = takeDelimiter(s, pos); !ok {
		return codeMatch{}, false
	}
	if m.system, pos, ok = takeRun(s, pos, systemLen, isUpper); !ok {
		return codeMatch{}, false
	}
	if pos, ok = takeDelimiter(s, pos); !ok {
		return codeMatch{}, false
	}

	if pos >= len(s) || s[pos] != '[' {
		return codeMatch{}, false
	}
	pos++
	open := pos
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == ']' || isLineTerminator(r) {
			break
		}
		pos += size
	}
	if pos == open || pos >= len(s) || s[pos] != ']' {
		return codeMatch{}, false
	}
	m.installation = s[open:pos]
	m.end = pos + 1
	return m, true
}

// takeRun consumes exactly n ASCII bytes satisfying accept.
func takeRun(s string, pos, n int, accept func(byte) bool) (string, int, bool) {
	if pos+n > len(s) {
		return "", pos, false
	}
	for j := pos; j < pos+n; j++ {
		if !accept(s[j]) {
			return "", pos, false
		}
	}
	return s[pos : pos+n], pos + n, true
}

func takeDelimiter(s string, pos int) (int, bool) {
	if pos >= len(s) {
		return pos, false
	}
	r, size := utf8.DecodeRuneInString(s[pos:])
	if !IsDelimiter(r) {
		return pos, false
	}
	return pos + size, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

func isUpperAlnum(b byte) bool { return isDigit(b) || isUpper(b) }

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
