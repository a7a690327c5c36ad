package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/spiffcs/tunnelview/internal/constants"
	"github.com/spiffcs/tunnelview/internal/engine"
	"github.com/spiffcs/tunnelview/internal/page"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// renderHeader renders the tunnel indicator and the page title on one line.
func renderHeader(status, title string, width int) string {
	indicator := tunnelStyles[status == tunnel.Connected.String()].Render("● " + status)
	room := width - lipgloss.Width(indicator) - 2
	if room < 1 {
		return indicator
	}
	return indicator + "  " + titleStyle.Render(truncate(title, room))
}

// renderHelp renders the key help for the current decision.
func renderHelp(d page.Decision) string {
	if d.Content {
		return footerStyle.Render("  ↑/↓ scroll • tab/shift+tab select link • enter open • r reload • q quit")
	}
	help := "  ←/→ select • enter press"
	if d.HasButton(page.ButtonRetry) {
		help += " • r retry"
	}
	return footerStyle.Render(help + " • q quit")
}

// renderPage lays a page out for the viewport, highlighting link selected.
func renderPage(p *engine.Page, selected, width int) string {
	var b strings.Builder
	b.WriteString(wrapText(p, width))

	if len(p.Links) > 0 {
		b.WriteString("\n\n")
		b.WriteString(urlStyle.Render("Links"))
		for i, l := range p.Links {
			b.WriteString("\n")
			line := truncate(fmt.Sprintf("[%d] %s", i+1, l.Text), max(1, width-2))
			if i == selected {
				b.WriteString("  " + linkSelectedStyle.Render(line))
			} else {
				b.WriteString("  " + linkStyle.Render(line))
			}
		}
	}
	return b.String()
}

// linkLine returns the viewport line on which link i is drawn.
func linkLine(p *engine.Page, i, width int) int {
	if p == nil {
		return 0
	}
	return strings.Count(wrapText(p, width), "\n") + 3 + i
}

func wrapText(p *engine.Page, width int) string {
	if width <= 0 {
		return p.Text
	}
	return lipgloss.NewStyle().Width(width).Render(p.Text)
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, constants.TruncationSuffix)
}
