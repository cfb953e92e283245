// SPDX-License-Identifier: MPL-2.0

package scanner

import "github.com/ampel360/utcs/pkg/utcs"

const (
	// StatusValid marks a code without errors or warnings.
	StatusValid Status = "valid"
	// StatusWarning marks a valid code that produced warnings.
	StatusWarning Status = "warning"
	// StatusInvalid marks a code that failed validation.
	StatusInvalid Status = "invalid"
)

type (
	// Status classifies one code found in a file.
	Status string

	// Detail is the outcome for one code occurrence.
	Detail struct {
		Code   string `json:"code" yaml:"code"`
		Status Status `json:"status" yaml:"status"`
		// Messages holds the errors of an invalid code or the warnings of a
		// valid one.
		Messages []string `json:"messages,omitempty" yaml:"messages,omitempty"`
	}

	// FileResult is the outcome for one scanned file.
	FileResult struct {
		File     string   `json:"file" yaml:"file"`
		Codes    []string `json:"codes" yaml:"codes"`
		Errors   int      `json:"errors" yaml:"errors"`
		Warnings int      `json:"warnings" yaml:"warnings"`
		Details  []Detail `json:"details" yaml:"details"`
		// Skipped names why the file was not scanned, e.g. "binary".
		Skipped string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
		// Failure holds a read error.
		Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`
	}

	// Summary aggregates a scan run.
	Summary struct {
		FilesScanned    int          `json:"files_scanned" yaml:"files_scanned"`
		FilesSkipped    int          `json:"files_skipped" yaml:"files_skipped"`
		FilesFailed     int          `json:"files_failed" yaml:"files_failed"`
		TotalCodes      int          `json:"total_codes" yaml:"total_codes"`
		ValidCodes      int          `json:"valid_codes" yaml:"valid_codes"`
		InvalidCodes    int          `json:"invalid_codes" yaml:"invalid_codes"`
		WarningCodes    int          `json:"warning_codes" yaml:"warning_codes"`
		FilesWithErrors int          `json:"files_with_errors" yaml:"files_with_errors"`
		Results         []FileResult `json:"results" yaml:"results"`
	}
)

// DetailFor classifies one validation result.
func DetailFor(code string, res utcs.ValidationResult) Detail {
	switch {
	case !res.Valid:
		return Detail{Code: code, Status: StatusInvalid, Messages: res.Errors}
	case len(res.Warnings) > 0:
		return Detail{Code: code, Status: StatusWarning, Messages: res.Warnings}
	default:
		return Detail{Code: code, Status: StatusValid}
	}
}

// NewFileResult builds the result for file from a content scan.
func NewFileResult(file string, scan utcs.ContentScan) FileResult {
	fr := FileResult{
		File:    file,
		Codes:   scan.Codes,
		Details: make([]Detail, 0, len(scan.Codes)),
	}
	for i, code := range scan.Codes {
		d := DetailFor(code, scan.Results[i])
		switch d.Status {
		case StatusInvalid:
			fr.Errors++
		case StatusWarning:
			fr.Warnings++
		}
		fr.Details = append(fr.Details, d)
	}
	return fr
}

// Summarize aggregates results, which must already be in report order.
func Summarize(results []FileResult) *Summary {
	s := &Summary{Results: results}
	if s.Results == nil {
		s.Results = []FileResult{}
	}
	for _, r := range results {
		s.FilesScanned++
		switch {
		case r.Failure != "":
			s.FilesFailed++
			continue
		case r.Skipped != "":
			s.FilesSkipped++
			continue
		}
		s.TotalCodes += len(r.Codes)
		s.InvalidCodes += r.Errors
		s.WarningCodes += r.Warnings
		if r.Errors > 0 {
			s.FilesWithErrors++
		}
	}
	s.ValidCodes = s.TotalCodes - s.InvalidCodes
	return s
}

// Passed reports whether the run should succeed in CI. Codes with warnings
// count as valid unless failOnWarnings is set.
func (s *Summary) Passed(failOnWarnings bool) bool {
	if s.InvalidCodes > 0 {
		return false
	}
	return !failOnWarnings || s.WarningCodes == 0
}

// Failed returns the results that contain at least one invalid code.
func (s *Summary) Failed() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Errors > 0 {
			out = append(out, r)
		}
	}
	return out
}
