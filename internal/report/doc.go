// SPDX-License-Identifier: MPL-2.0

// Package report renders scan summaries for CI systems and people: JUnit XML
// for test dashboards, JSON and YAML run reports for tooling, and a markdown
// summary rendered through glamour for terminals and pull request comments.
package report
