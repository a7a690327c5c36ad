// Package output formats tunnel status and notification token reports.
package output

import (
	"fmt"
	"io"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "text", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be table, json or yaml)", s)
	}
}

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatStatus(report StatusReport, w io.Writer) error
	FormatTokens(tokens []TokenReport, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}
