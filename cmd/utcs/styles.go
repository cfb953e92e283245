// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette - shared hex colors for consistent theming across all CLI output.
const (
	// ColorPrimary is purple - used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for subtitles and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - used for valid codes and passing scans.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for invalid codes and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for codes, paths, and commands.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is light gray - used for registry descriptions and details.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

// Base styles built from the color palette.
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for codes, file paths, and command names.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// blockLabelStyle renders the A/B/C/D column of a parsed code.
	blockLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Width(3)

	// blockValueStyle renders a block value, padded so descriptions align.
	blockValueStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Width(12)

	// keyColumnStyle renders registry keys in listings.
	keyColumnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight).
			Width(9)

	// summaryBoxStyle frames the scan summary.
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)

// Status icons shared by code and scan output.
var (
	iconValid   = SuccessStyle.Render("✓")
	iconInvalid = ErrorStyle.Render("✗")
	iconWarning = WarningStyle.Render("!")
	iconInfo    = CmdStyle.Render("→")
	iconSkipped = SubtitleStyle.Render("-")
)
