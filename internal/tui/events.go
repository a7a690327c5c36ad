package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiffcs/tunnelview/internal/page"
)

// showMsg makes the view visible and starts the first load.
type showMsg struct{}

// doneMsg signals that the event channel was closed.
type doneMsg struct{}

// eventMsg carries one page event into Update.
type eventMsg struct {
	event page.Event
}

// waitForEvent creates a command that waits for the next page event.
func waitForEvent(events <-chan page.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg{event: event}
	}
}
