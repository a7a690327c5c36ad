package tui

import "github.com/charmbracelet/lipgloss"

var (
	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	blockerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 2)

	buttonFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Bold(true).
				Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	tunnelStyles = map[bool]lipgloss.Style{
		true:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		false: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	linkSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
