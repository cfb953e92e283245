// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ampel360/utcs/internal/scanner"
)

const (
	// SuitesName is the name of the top-level JUnit element.
	SuitesName = "UTCS Validation"
	// FailureMessage is the message attribute of a failed testcase.
	FailureMessage = "Invalid UTCS code"
)

type (
	// JUnitSuites is the JUnit testsuites document.
	JUnitSuites struct {
		XMLName  xml.Name     `xml:"testsuites"`
		Name     string       `xml:"name,attr"`
		Tests    int          `xml:"tests,attr"`
		Failures int          `xml:"failures,attr"`
		Errors   int          `xml:"errors,attr"`
		Skipped  int          `xml:"skipped,attr,omitempty"`
		Suites   []JUnitSuite `xml:"testsuite"`
	}

	// JUnitSuite holds the codes of one file.
	JUnitSuite struct {
		Name     string      `xml:"name,attr"`
		Tests    int         `xml:"tests,attr"`
		Failures int         `xml:"failures,attr"`
		Errors   int         `xml:"errors,attr"`
		Skipped  int         `xml:"skipped,attr,omitempty"`
		Cases    []JUnitCase `xml:"testcase"`
	}

	// JUnitCase is one code occurrence.
	JUnitCase struct {
		Name      string        `xml:"name,attr"`
		ClassName string        `xml:"classname,attr"`
		Failure   *JUnitMessage `xml:"failure,omitempty"`
		Error     *JUnitMessage `xml:"error,omitempty"`
		Skipped   *JUnitMessage `xml:"skipped,omitempty"`
		SystemOut string        `xml:"system-out,omitempty"`
	}

	// JUnitMessage is a failure, error, or skipped element.
	JUnitMessage struct {
		Message string `xml:"message,attr"`
		Text    string `xml:",chardata"`
	}
)

// JUnit converts sum into a JUnit document. Each file is a suite named by
// its slash-separated path and each code is a testcase. Unreadable files
// become a suite with one errored case; skipped files one skipped case.
func JUnit(sum *scanner.Summary) JUnitSuites {
	doc := JUnitSuites{Name: SuitesName}
	if sum == nil {
		return doc
	}

	for _, r := range sum.Results {
		file := filepath.ToSlash(r.File)
		suite := JUnitSuite{Name: file}

		switch {
		case r.Failure != "":
			suite.Tests, suite.Errors = 1, 1
			suite.Cases = []JUnitCase{{
				Name:      file,
				ClassName: file,
				Error:     &JUnitMessage{Message: "unreadable file", Text: r.Failure},
			}}
		case r.Skipped != "":
			suite.Tests, suite.Skipped = 1, 1
			suite.Cases = []JUnitCase{{
				Name:      file,
				ClassName: file,
				Skipped:   &JUnitMessage{Message: r.Skipped},
			}}
		default:
			suite.Tests = len(r.Details)
			suite.Cases = make([]JUnitCase, 0, len(r.Details))
			for _, d := range r.Details {
				tc := JUnitCase{Name: d.Code, ClassName: file}
				switch d.Status {
				case scanner.StatusInvalid:
					suite.Failures++
					tc.Failure = &JUnitMessage{Message: FailureMessage, Text: strings.Join(d.Messages, "\n")}
				case scanner.StatusWarning:
					tc.SystemOut = strings.Join(d.Messages, "\n")
				}
				suite.Cases = append(suite.Cases, tc)
			}
		}

		doc.Tests += suite.Tests
		doc.Failures += suite.Failures
		doc.Errors += suite.Errors
		doc.Skipped += suite.Skipped
		doc.Suites = append(doc.Suites, suite)
	}
	return doc
}

// WriteJUnit writes the JUnit document for sum to w.
func WriteJUnit(w io.Writer, sum *scanner.Summary) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write junit: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(JUnit(sum)); err != nil {
		return fmt.Errorf("encode junit: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode junit: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteJUnitFile writes the JUnit document to path, creating parent
// directories as needed.
func WriteJUnitFile(path string, sum *scanner.Summary) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create junit report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close junit report: %w", closeErr)
		}
	}()
	return WriteJUnit(f, sum)
}
