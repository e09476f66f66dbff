package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#C9A227") // heraldic gold
	colorWhite  = lipgloss.Color("#FFFFFF")
	colorDim    = lipgloss.Color("#6B7280")
	colorGood   = lipgloss.Color("#10B981")
	colorBusy   = lipgloss.Color("#60A5FA")
	colorError  = lipgloss.Color("#EF4444")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	PaneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	ActivePaneStyle = PaneStyle.
			BorderForeground(colorAccent)

	CursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	ItemStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	DimmedStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	WaitingStyle = lipgloss.NewStyle().
			Foreground(colorGood)

	InPartyStyle = lipgloss.NewStyle().
			Foreground(colorBusy)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	StatusStyle = lipgloss.NewStyle().
			Foreground(colorGood)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)
