package graph

import "strings"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatDOT   OutputFormat = "dot"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatOrder OutputFormat = "order"
)

var supportedFormats = []OutputFormat{OutputFormatDOT, OutputFormatJSON, OutputFormatOrder}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat returns the format named s.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	for _, f := range supportedFormats {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// SupportedFormats returns the format names, comma separated.
func SupportedFormats() string {
	names := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
