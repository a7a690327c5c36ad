package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// FormatStatus outputs a status report as JSON
func (f *JSONFormatter) FormatStatus(report StatusReport, w io.Writer) error {
	return f.encode(report, w)
}

// FormatTokens outputs token reports as JSON
func (f *JSONFormatter) FormatTokens(tokens []TokenReport, w io.Writer) error {
	return f.encode(tokens, w)
}
