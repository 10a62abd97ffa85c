package presentation

import (
	"fmt"
	"strings"
)

// Format selects the projection used when rendering extracted versions.
type Format string

const (
	// FormatJSON renders the full per-document detail mapping.
	FormatJSON Format = "json"
	// FormatSimple renders a doc_key to semver mapping.
	FormatSimple Format = "simple"
	// FormatLedger renders a timestamped ledger event envelope.
	FormatLedger Format = "ledger"
)

// IsValid checks if the format is a known projection.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatSimple, FormatLedger:
		return true
	}
	return false
}

// Formats returns all valid output formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatSimple, FormatLedger}
}

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		names := make([]string, len(Formats()))
		for i, v := range Formats() {
			names[i] = string(v)
		}
		return "", fmt.Errorf("unknown format %q (must be one of: %s)", s, strings.Join(names, ", "))
	}
	return f, nil
}
