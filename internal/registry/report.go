package registry

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Report writes the human-readable scan report to w, grouping problems by
// kind, and returns the overall pass/fail result.
func (b *Builder) Report(w io.Writer) bool {
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("✓ Found %d versioned documents", len(b.registry))))

	if len(b.duplicates) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, problemStyle.Render("✗ DUPLICATE doc_key DETECTED:"))
		for _, dup := range b.duplicates {
			fmt.Fprintf(w, "  • %s:\n", dup.DocKey)
			fmt.Fprintf(w, "    - %s\n", dup.FirstPath)
			fmt.Fprintf(w, "    - %s\n", dup.SecondPath)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, detailStyle.Render("Each document must have a unique doc_key identifier."))
	}

	if len(b.errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, problemStyle.Render("✗ VALIDATION ERRORS:"))
		for _, e := range b.errors {
			fmt.Fprintf(w, "  • %s\n", e)
		}
	}

	if !b.Succeeded() {
		return false
	}

	fmt.Fprintln(w, okStyle.Render("✓ All doc_key identifiers are unique"))
	fmt.Fprintln(w, okStyle.Render("✓ All front-matter is valid"))
	return true
}
