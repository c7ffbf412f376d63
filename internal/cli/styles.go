// SPDX-License-Identifier: MPL-2.0

package cli

import "github.com/charmbracelet/lipgloss"

// Palette for all CLI output, chosen for dark terminal backgrounds.
const (
	// ColorPrimary is the purple used for titles and section headers.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is the gray used for secondary and de-emphasized text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is the green used for confirmations.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is the red used for failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is the amber used for recoverable problems.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is the blue used for command names and identifiers.
	ColorHighlight = lipgloss.Color("#3B82F6")
	// ColorVerbose is the light gray used for debug detail.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

// Shared styles built on the palette. Commands use these directly so scan,
// search, and serve output stays visually consistent.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CmdStyle      = lipgloss.NewStyle().Foreground(ColorHighlight)
	VerboseStyle  = lipgloss.NewStyle().Foreground(ColorVerbose)
)
