// Package output renders command results in the formats the CLI supports
// and carries output options through the command context.
package output

import (
	"errors"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is human-readable output (default).
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON.
	FormatJSON Format = "json"
	// FormatNDJSON is newline-delimited JSON.
	FormatNDJSON Format = "ndjson"
	// FormatTable is tabular output for lists.
	FormatTable Format = "table"
	// FormatYAML is YAML output.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format. Empty input defaults to
// FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON:
		return FormatNDJSON, nil
	case FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|json|ndjson|table|yaml)")
	}
}

// IsStructured reports whether the format is machine-readable structured
// output.
func IsStructured(format Format) bool {
	switch format {
	case FormatJSON, FormatNDJSON, FormatYAML:
		return true
	default:
		return false
	}
}
