package notify

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/spiffcs/tunnelview/internal/log"
)

// Sink presents notifications to the user.
type Sink interface {
	Post(n Notification) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(n Notification) error

// Post calls f(n).
func (f SinkFunc) Post(n Notification) error { return f(n) }

// TerminalSink writes notifications to a terminal.
type TerminalSink struct {
	w io.Writer
}

// NewTerminalSink creates a sink writing to w.
func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w}
}

// Post writes a bold yellow title followed by the body.
func (s *TerminalSink) Post(n Notification) error {
	_, err := fmt.Fprintf(s.w, "%s %s\n  %s\n",
		color.YellowString("●"),
		color.New(color.Bold).Sprint(n.Title),
		n.Body)
	return err
}

// LogSink records notifications in the application log.
type LogSink struct{}

// Post logs n at info level.
func (LogSink) Post(n Notification) error {
	log.Info("notification", "id", string(n.ID), "title", n.Title, "body", n.Body)
	return nil
}
