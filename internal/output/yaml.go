package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML, matching the status document layout.
type YAMLFormatter struct{}

func (f *YAMLFormatter) encode(v any, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}
	return encoder.Close()
}

// FormatStatus outputs a status report as YAML
func (f *YAMLFormatter) FormatStatus(report StatusReport, w io.Writer) error {
	return f.encode(report, w)
}

// FormatTokens outputs token reports as YAML
func (f *YAMLFormatter) FormatTokens(tokens []TokenReport, w io.Writer) error {
	return f.encode(tokens, w)
}
