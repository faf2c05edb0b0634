package cli

import "github.com/charmbracelet/lipgloss"

var (
	primary    = lipgloss.Color("#4d9375")
	muted      = lipgloss.Color("243")
	titleStyle = lipgloss.NewStyle().Foreground(primary).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	okStyle    = lipgloss.NewStyle().Foreground(primary)
)
