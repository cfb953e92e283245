// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"strings"

	"github.com/ampel360/utcs/pkg/utcs"
)

const (
	// SeverityError marks an entry that no code can ever reference.
	SeverityError Severity = "error"
	// SeverityWarning marks an entry that is reachable but inconsistent.
	SeverityWarning Severity = "warning"
)

const (
	TableDomains  Table = "domains"
	TableVariants Table = "variants"
	TableTrigrams Table = "trigrams"
)

type (
	// Severity ranks a lint finding.
	Severity string

	// Table names one of the three registry tables.
	Table string

	// Finding is one problem reported by Lint.
	Finding struct {
		Severity Severity `json:"severity" yaml:"severity"`
		Table    Table    `json:"table" yaml:"table"`
		Key      string   `json:"key" yaml:"key"`
		Message  string   `json:"message" yaml:"message"`
	}
)

// String renders the finding on one line.
func (f Finding) String() string {
	return fmt.Sprintf("%s %s[%s]: %s", f.Severity, f.Table, f.Key, f.Message)
}

// Lint reports registry entries the code grammar can never reach and tags or
// descriptions that do not follow the registry conventions. Findings follow
// table order, then entry order.
func Lint(reg *utcs.Registries) []Finding {
	var findings []Finding
	if reg == nil {
		return findings
	}

	areas := make(map[string]struct{})
	for _, a := range reg.Areas() {
		areas[a] = struct{}{}
	}

	for _, d := range reg.Domains.Values() {
		if _, ok := utcs.Parse(utcs.Join(d.Code, "AAAAAAA", "AAA", "[1]")); !ok {
			findings = append(findings, Finding{SeverityError, TableDomains, d.Code,
				"classification is not 6 digits and can never appear in a code"})
		}
		if d.Category() == "" {
			findings = append(findings, Finding{SeverityWarning, TableDomains, d.Code,
				fmt.Sprintf("description %q is not in \"Area · Category\" form", d.Description)})
		}
	}

	for _, v := range reg.Variants.Values() {
		if _, ok := utcs.Parse(utcs.Join("000000", v.Code, "AAA", "[1]")); !ok {
			findings = append(findings, Finding{SeverityError, TableVariants, v.Code,
				"variant is not 7 uppercase letters or digits and can never appear in a code"})
		}
	}

	for _, t := range reg.Trigrams.Values() {
		if _, ok := utcs.Parse(utcs.Join("000000", "AAAAAAA", t.Code, "[1]")); !ok {
			findings = append(findings, Finding{SeverityError, TableTrigrams, t.Code,
				"trigram is not 3 uppercase letters and can never appear in a code"})
		}
		for _, tag := range t.Domains {
			_, area, _ := strings.Cut(tag, "-")
			if _, ok := areas[area]; !ok {
				findings = append(findings, Finding{SeverityWarning, TableTrigrams, t.Code,
					fmt.Sprintf("domain tag %q names no area of the domain table", tag)})
			}
		}
	}

	return findings
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
