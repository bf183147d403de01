package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	Primary = lipgloss.Color("#7C3AED")
	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Danger  = lipgloss.Color("#EF4444")
	Info    = lipgloss.Color("#3B82F6")
	Muted   = lipgloss.Color("#6B7280")
	Border  = lipgloss.Color("#4B5563")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	DimStyle = lipgloss.NewStyle().
			Foreground(Muted)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Info)

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	DoneStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	PromptPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Warning).
				Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)
