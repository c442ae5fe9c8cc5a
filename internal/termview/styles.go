// Package termview renders ledger views for the terminal with lipgloss.
// Category colours come from views.StyleFor so the terminal and the web
// page agree.
package termview

import (
	"github.com/charmbracelet/lipgloss"

	"intentos/internal/theme"
)

var (
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#10B981")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#EF4444")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

// accents maps each theme mode to the colour used for headings and borders.
var accents = map[theme.Mode]lipgloss.Color{
	theme.Light: lipgloss.Color("#3B82F6"),
	theme.Dark:  lipgloss.Color("#94A3B8"),
	theme.Jedi:  lipgloss.Color("#22C55E"),
	theme.Sith:  lipgloss.Color("#DC2626"),
}

// Accent returns the heading colour for mode.
func Accent(mode theme.Mode) lipgloss.Color {
	if c, ok := accents[mode]; ok {
		return c
	}
	return accents[theme.Light]
}
