// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	RegistryNotFoundId Id = iota + 1
	RegistryParseErrorId
	RegistryLintFailedId
	ConfigLoadFailedId
	InvalidCodeId
	NoFilesMatchedId
	ScanFailedId
	ReportWriteFailedId
	InvalidOutputFormatId
)

const docsBase = "https://github.com/ampel360/utcs/blob/main/docs/"

type (
	// Id identifies a catalog issue.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a catalog entry with guidance for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	registryNotFoundIssue = &Issue{
		id: RegistryNotFoundId,
		mdMsg: `
# Registry file not found!

The registry file configured for validation does not exist.

## Things you can try:
- Check the path given to ` + "`--registry`" + ` or the ` + "`registry`" + ` key in your config
- Drop the setting to use the built-in UTCS registry
- Export the built-in registry as a starting point:
~~~
$ utcs registry export > registry.cue
~~~`,
		docLinks: []HttpLink{docsBase + "registry.md"},
	}

	registryParseErrorIssue = &Issue{
		id: RegistryParseErrorId,
		mdMsg: `
# Registry file could not be loaded!

The registry file has a syntax error or does not match the registry schema.

## Common causes:
- A variant or trigram ` + "`status`" + ` outside active, development, planned, deprecated, retired
- A trigram key that is not 3 or 4 uppercase letters
- A field the schema does not know about
- The same code listed twice in a TOML file

## Example TOML entry:
~~~toml
[[trigrams]]
code = "QNS"
name = "Quantum Navigation System"
family = "Quantum Navigation"
description = "Quantum-enhanced inertial navigation"
domains = ["900-Quantum"]
common = true
status = "active"
~~~`,
		docLinks: []HttpLink{docsBase + "registry.md"},
	}

	registryLintFailedIssue = &Issue{
		id: RegistryLintFailedId,
		mdMsg: `
# Registry has unreachable entries!

Some registry keys can never appear in a well-formed UTCS code, so codes can never
reference them.

## Things you can try:
- Rename classifications to exactly 6 digits
- Rename variants to exactly 7 uppercase letters or digits
- Rename trigrams to exactly 3 uppercase letters`,
		docLinks: []HttpLink{docsBase + "registry.md"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The utcs configuration file could not be read or does not match the schema.

## Things you can try:
- Show where utcs looks for its config:
~~~
$ utcs config path
~~~

- Write a fresh default config:
~~~
$ utcs config init
~~~

- Run with an explicit file:
~~~
$ utcs --config ./utcs.cue validate "090101-BWBQ100-QNS-[ALL]"
~~~`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	invalidCodeIssue = &Issue{
		id: InvalidCodeId,
		mdMsg: `
# Invalid UTCS code!

A UTCS code has four blocks separated by a delimiter:

~~~
YYYZZZ-PPPVVVV-APP-[INS]
090101-BWBQ100-QNS-[1-10,17,54]
~~~

- **YYYZZZ**: 6-digit classification from the domain table
- **PPPVVVV**: 7-character product variant from the variant catalogue
- **APP**: 3-letter system/technology trigram
- **[INS]**: installation units, ranges, lists, or ALL, STD, TST, DEV

## Things you can try:
- Complete a partial code:
~~~
$ utcs suggest 090101-BWBQ100
~~~

- Browse the registries:
~~~
$ utcs registry trigrams --family quantum
~~~`,
		docLinks: []HttpLink{docsBase + "codes.md"},
	}

	noFilesMatchedIssue = &Issue{
		id: NoFilesMatchedId,
		mdMsg: `
# No files to scan!

None of the given patterns or directories matched a file.

## Things you can try:
- Quote glob patterns so the shell does not expand them:
~~~
$ utcs scan '**/*.md'
~~~

- Check the ` + "`scan.ignore`" + ` and ` + "`scan.extensions`" + ` config keys`,
		docLinks: []HttpLink{docsBase + "scanning.md"},
	}

	scanFailedIssue = &Issue{
		id: ScanFailedId,
		mdMsg: `
# Scan failed!

A file could not be read while scanning for UTCS codes.

## Things you can try:
- Check file permissions
- Exclude generated folders with ` + "`--ignore`" + `
- Re-run with ` + "`--verbose`" + ` to see which file failed`,
		docLinks: []HttpLink{docsBase + "scanning.md"},
	}

	reportWriteFailedIssue = &Issue{
		id: ReportWriteFailedId,
		mdMsg: `
# Failed to write report!

The JUnit or JSON report could not be written.

## Things you can try:
- Make sure the target directory exists and is writable
- Check the ` + "`JUNIT_OUTPUT`" + ` environment variable`,
		docLinks: []HttpLink{docsBase + "scanning.md"},
	}

	invalidOutputFormatIssue = &Issue{
		id: InvalidOutputFormatId,
		mdMsg: `
# Unknown output format!

Supported values for ` + "`--format`" + ` are ` + "`text`" + `, ` + "`json`" + ` and ` + "`yaml`" + `.
` + "`utcs scan`" + ` also accepts ` + "`markdown`" + `.`,
		docLinks: []HttpLink{docsBase + "cli.md"},
	}

	issues = map[Id]*Issue{
		registryNotFoundIssue.Id():    registryNotFoundIssue,
		registryParseErrorIssue.Id():  registryParseErrorIssue,
		registryLintFailedIssue.Id():  registryLintFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		invalidCodeIssue.Id():         invalidCodeIssue,
		noFilesMatchedIssue.Id():      noFilesMatchedIssue,
		scanFailedIssue.Id():          scanFailedIssue,
		reportWriteFailedIssue.Id():   reportWriteFailedIssue,
		invalidOutputFormatIssue.Id(): invalidOutputFormatIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the issue body followed by a "See also" list of links.
func (i *Issue) Markdown() string {
	var b strings.Builder
	b.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		b.WriteString("\n\n## See also:\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			b.WriteString("- <" + string(link) + ">\n")
		}
	}
	return b.String()
}

// Render renders the issue with a glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

// Values returns every catalog issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
