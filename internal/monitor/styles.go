package monitor

import (
	"github.com/barnwall/hbmon/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// Frame styles. Colors come from the shared ANSI palette so the dashboard
// follows the terminal theme.
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ui.ColorInfo).
			Bold(true)

	SummaryStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSecondary)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	FreshStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSuccess)

	StaleStyle = lipgloss.NewStyle().
			Foreground(ui.ColorWarning)

	UnknownStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	RejectedStyle = lipgloss.NewStyle().
			Foreground(ui.ColorError)
)

// statusIndicator returns the colored symbol for one device.
func statusIndicator(seen, fresh bool) string {
	switch {
	case !seen:
		return UnknownStyle.Render(ui.SymbolUnknown)
	case fresh:
		return FreshStyle.Render(ui.SymbolFresh)
	default:
		return StaleStyle.Render(ui.SymbolStale)
	}
}
