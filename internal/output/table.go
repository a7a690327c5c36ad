package output

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// TableFormatter formats output for a terminal
type TableFormatter struct {
	// Now is used for relative times. Defaults to time.Now.
	Now func() time.Time
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// displayWidth returns the visible width of a string in terminal columns
func displayWidth(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

// padRight pads a string with spaces to reach the target visible width
func padRight(s string, targetWidth int) string {
	w := displayWidth(s)
	if w >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-w)
}

// statusColor renders a tunnel status with its indicator
func statusColor(status string) string {
	switch status {
	case "connected":
		return color.GreenString("● %s", status)
	case "connecting", "disconnecting":
		return color.YellowString("◐ %s", status)
	default:
		return color.RedString("○ %s", status)
	}
}

// FormatStatus outputs a status report
func (f *TableFormatter) FormatStatus(report StatusReport, w io.Writer) error {
	const colLabel = 10

	row := func(label, value string) {
		fmt.Fprintf(w, "%s  %s\n", padRight(color.New(color.Bold).Sprint(label), colLabel), value)
	}

	row("Status", statusColor(report.Status))
	if report.Tunneled != "" {
		row("Tunneled", report.Tunneled)
	}
	if report.Region != "" {
		row("Region", report.Region)
	}
	row("Source", report.Path)

	if len(report.Alerts) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d pending alert(s):\n", len(report.Alerts))
	for _, a := range report.Alerts {
		marker := color.YellowString("●")
		if !a.Known {
			marker = color.RedString("?")
		}
		line := fmt.Sprintf("  %s %s", marker, a.ID)
		if a.Message != "" {
			line += ": " + a.Message
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// FormatTokens outputs notification identifiers and their token state
func (f *TableFormatter) FormatTokens(tokens []TokenReport, w io.Writer) error {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "No notifications defined.")
		return nil
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	colID := len("Notification")
	for _, t := range tokens {
		colID = max(colID, displayWidth(t.ID))
	}
	const colOnce = 9

	fmt.Fprintf(w, "%s  %s  %s\n", padRight("Notification", colID), padRight("Only once", colOnce), "Presented")
	fmt.Fprintln(w, strings.Repeat("-", colID+colOnce+16))

	for _, t := range tokens {
		once := color.HiBlackString("no")
		if t.OnlyOnce {
			once = "yes"
		}

		presented := color.HiBlackString("-")
		switch {
		case t.PresentedAt != nil:
			presented = color.CyanString("%s ago", formatAge(now().Sub(*t.PresentedAt)))
		case t.OnlyOnce:
			presented = color.GreenString("pending")
		}

		fmt.Fprintf(w, "%s  %s  %s\n", padRight(t.ID, colID), padRight(once, colOnce), presented)
	}
	return nil
}

// formatAge renders a duration in the largest whole unit
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
