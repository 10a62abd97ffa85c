package presentation

import (
	"encoding/json"
	"io"

	"github.com/zjrosen/parchment/internal/versions"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatVersions renders the extractor's results in the requested projection.
func (f *Formatter) FormatVersions(e *versions.Extractor, format Format) error {
	switch format {
	case FormatSimple:
		return f.encode(e.Simple())
	case FormatLedger:
		return f.encode(e.LedgerEntry())
	default:
		return f.encode(e.Detail())
	}
}

// FormatSnapshot renders a run snapshot as JSON.
func (f *Formatter) FormatSnapshot(snapshot any) error {
	return f.encode(snapshot)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
