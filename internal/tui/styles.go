package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorBg        = lipgloss.Color("#3C3F41")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	// Display styles
	DisplayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Background(colorBg).
			Foreground(colorFg).
			Padding(0, 1)

	ErrorDisplayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorError).
				Foreground(colorError).
				Padding(0, 1)

	// Keypad styles
	ButtonStyle = lipgloss.NewStyle().
			Width(7).
			Align(lipgloss.Center).
			Background(colorBg).
			Foreground(colorFg).
			Margin(0, 1, 0, 0)

	OperatorButtonStyle = ButtonStyle.
				Foreground(colorAccent)

	FunctionButtonStyle = ButtonStyle.
				Foreground(colorSecondary)

	SelectedButtonStyle = ButtonStyle.
				Background(colorPrimary).
				Foreground(colorFg).
				Bold(true)

	// History styles
	HistoryStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	HistoryErrorStyle = lipgloss.NewStyle().
				Foreground(colorError)

	// Help style
	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)

// Helper functions
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

func RenderError(err string) string {
	return HistoryErrorStyle.Render(err)
}

func RenderHelp(help string) string {
	return HelpStyle.Render(help)
}
