package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spiffcs/tunnelview/internal/constants"
	"github.com/spiffcs/tunnelview/internal/engine"
	"github.com/spiffcs/tunnelview/internal/page"
)

// PageSource returns the page the engine last loaded.
type PageSource interface {
	Page() *engine.Page
}

// screen receives decisions from the coordinator. Every copy of the Model
// shares it.
type screen struct {
	decision page.Decision
	renders  int
}

// Render implements page.Renderer.
func (s *screen) Render(d page.Decision) {
	s.decision = d
	s.renders++
}

// Model is the Bubble Tea model for the tunnel-gated page view.
type Model struct {
	host     *page.Host
	pages    PageSource
	events   <-chan page.Event
	screen   *screen
	messages page.Messages
	url      string

	spinner  spinner.Model
	viewport viewport.Model

	seen     int
	shown    *engine.Page
	button   int
	link     int
	width    int
	height   int
	quitting bool
}

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithMessages overrides the blocker display strings.
func WithMessages(msgs page.Messages) ModelOption {
	return func(m *Model) {
		m.messages = msgs
	}
}

// NewScreen creates the renderer a Model draws decisions from. Pass it to
// page.NewHost and then to NewModel.
func NewScreen() page.Renderer {
	return &screen{}
}

// NewModel creates a model that shows url through host. renderer must be
// the value returned by NewScreen that host renders to.
func NewModel(host *page.Host, renderer page.Renderer, pages PageSource, events <-chan page.Event, url string, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	scr, ok := renderer.(*screen)
	if !ok {
		scr = &screen{}
	}

	m := Model{
		host:     host,
		pages:    pages,
		events:   events,
		screen:   scr,
		messages: page.DefaultMessages(),
		url:      url,
		spinner:  s,
		viewport: viewport.New(80, 24-constants.HeaderLines-constants.FooterLines),
		width:    80,
		height:   24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return showMsg{} },
		waitForEvent(m.events),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case showMsg:
		m.host.Show(m.url)
		return m.sync(), nil

	case eventMsg:
		m.host.Handle(msg.event)
		return m.sync(), waitForEvent(m.events)

	case doneMsg:
		m.host.Dismiss()
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-constants.HeaderLines-constants.FooterLines)
		m.refreshContent()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.host.Dismiss()
		m.quitting = true
		return m, tea.Quit
	}

	if m.screen.decision.Content {
		return m.handleContentKey(msg)
	}
	return m.handleBlockerKey(msg)
}

func (m Model) handleBlockerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buttons := m.screen.decision.Buttons
	switch msg.String() {
	case "left", "h", "shift+tab":
		if m.button > 0 {
			m.button--
		}
	case "right", "l", "tab":
		if m.button < len(buttons)-1 {
			m.button++
		}
	case "r":
		if m.screen.decision.HasButton(page.ButtonRetry) {
			return m.press(page.ButtonRetry)
		}
	case "enter", " ":
		if m.button < len(buttons) {
			return m.press(buttons[m.button])
		}
	}
	return m, nil
}

func (m Model) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	links := m.links()
	switch msg.String() {
	case "tab", "n":
		if len(links) > 0 {
			m.link = (m.link + 1) % len(links)
			m.refreshContent()
			m.scrollToLink()
		}
		return m, nil
	case "shift+tab", "p":
		if len(links) > 0 {
			m.link = (m.link - 1 + len(links)) % len(links)
			m.refreshContent()
			m.scrollToLink()
		}
		return m, nil
	case "enter":
		if m.link < len(links) {
			m.host.Navigate(links[m.link].URL)
			return m.sync(), nil
		}
		return m, nil
	case "r":
		m.host.Navigate(m.host.Coordinator().URL())
		return m.sync(), nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) press(b page.Button) (tea.Model, tea.Cmd) {
	m.host.Press(b)
	if m.host.Dismissed() {
		m.quitting = true
		return m, tea.Quit
	}
	return m.sync(), nil
}

// sync picks up decisions rendered since the last update.
func (m Model) sync() Model {
	if m.screen.renders == m.seen {
		return m
	}
	m.seen = m.screen.renders

	d := m.screen.decision
	if m.button >= len(d.Buttons) {
		m.button = 0
	}
	if !d.Content {
		return m
	}

	p := m.pages.Page()
	if p == nil {
		return m
	}
	if m.shown == nil || m.shown.URL != p.URL || !m.shown.LoadedAt.Equal(p.LoadedAt) {
		m.shown = p
		m.link = 0
		m.refreshContent()
		m.viewport.GotoTop()
	}
	return m
}

func (m *Model) links() []engine.Link {
	if m.shown == nil {
		return nil
	}
	return m.shown.Links
}

// refreshContent lays the current page out into the viewport.
func (m *Model) refreshContent() {
	if m.shown == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(renderPage(m.shown, m.link, m.viewport.Width))
}

// scrollToLink keeps the selected link inside the viewport.
func (m *Model) scrollToLink() {
	line := linkLine(m.shown, m.link, m.viewport.Width)
	if line < m.viewport.YOffset || line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(max(0, line-m.viewport.Height/2))
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderHeader(m.host.State().Tunnel.String(), m.title(), m.width))
	b.WriteString("\n\n")

	bodyHeight := max(1, m.height-constants.HeaderLines-constants.FooterLines)
	if m.screen.decision.Content {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderBlocker()))
	}

	b.WriteString("\n")
	b.WriteString(renderHelp(m.screen.decision))
	return b.String()
}

func (m Model) title() string {
	if m.screen.decision.Content && m.shown != nil {
		if m.shown.Title != "" {
			return m.shown.Title
		}
		return m.shown.URL
	}
	return m.host.Coordinator().URL()
}

func (m Model) renderBlocker() string {
	d := m.screen.decision
	if d.Message == page.MessageNone {
		return ""
	}

	msg := messageStyle.Render(m.messages.Text(d.Message))
	if d.Spinner {
		msg = fmt.Sprintf("%s %s", m.spinner.View(), msg)
	}

	buttons := make([]string, 0, len(d.Buttons))
	for i, btn := range d.Buttons {
		style := buttonStyle
		if i == m.button {
			style = buttonFocusedStyle
		}
		buttons = append(buttons, style.Render(btn.String()))
	}

	return blockerStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		msg,
		"",
		strings.Join(buttons, "  "),
	))
}
