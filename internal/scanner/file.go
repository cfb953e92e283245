// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// SkipBinary marks files that contain NUL bytes.
	SkipBinary = "binary"
	// SkipTooLarge marks files over the configured size limit.
	SkipTooLarge = "too large"

	// binarySniffLen is how much of a file is checked for NUL bytes.
	binarySniffLen = 8000

	htmlBlocks = "title, p, div, li, tr, td, th, h1, h2, h3, h4, h5, h6, pre, dt, dd, br, figcaption, caption, blockquote"
)

// readText returns the scannable text of path. Binary and oversized files
// are reported through skipped instead of an error.
func readText(path string, maxSize int64) (text, skipped string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", err
	}
	if info.Size() > maxSize {
		return "", SkipTooLarge, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	if isBinary(data) {
		return "", SkipBinary, nil
	}

	if isHTML(path) {
		text, err := htmlText(data)
		if err != nil {
			return "", "", fmt.Errorf("parse html: %w", err)
		}
		return text, "", nil
	}
	return string(data), "", nil
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), binarySniffLen)], 0) >= 0
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	default:
		return false
	}
}

// htmlText returns the visible text of an HTML document with a line break
// after every block element. Inline markup inside a code is dropped, so a code
// split across tags is scanned whole, and script bodies are not scanned.
func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, template").Remove()
	doc.Find(htmlBlocks).AppendHtml("\n")
	return doc.Text(), nil
}
