// Package frontmatter parses the structured header block at the top of a
// governed document into a flat field mapping.
//
// The header is the region between the first and second `---` marker lines,
// and only counts when the document's very first characters are the marker.
// Values keep the exact scalar rules the registry's validation depends on:
// one layer of matching quotes is stripped, and a case-insensitive `null`,
// `~`, or empty value becomes an explicit null. The parser is deliberately
// not a full YAML parser; nested structures have no meaning in document
// headers and the scalar coercion rules here are the contract.
package frontmatter

import "strings"

// Marker delimits the header block. It must open the document.
const Marker = "---"

// Fields is a parsed header: field name to scalar value.
// A nil value records an explicit null (`null`, `~`, or empty).
type Fields map[string]*string

// Get returns the scalar for key, with explicit nulls and absent keys both
// collapsing to the empty string. ok reports key presence.
func (f Fields) Get(key string) (value string, ok bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", ok
	}
	return *v, true
}

// Parse extracts the header block from a document's full text.
// It returns (nil, false) when the document is unversioned: no marker at the
// start, fewer than two markers, or a block yielding zero fields.
func Parse(content string) (Fields, bool) {
	if !strings.HasPrefix(content, Marker) {
		return nil, false
	}

	// Region between the first and second marker occurrences.
	parts := strings.SplitN(content, Marker, 3)
	if len(parts) < 3 {
		return nil, false
	}
	block := strings.TrimSpace(parts[1])

	fields := make(Fields)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)

		// Lines without a colon are silently dropped at this layer.
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := stripQuotes(strings.TrimSpace(line[idx+1:]))

		if isNull(value) {
			fields[key] = nil
		} else {
			v := value
			fields[key] = &v
		}
	}

	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

// stripQuotes removes exactly one layer of matching single or double quotes.
// A lone quote character is not a wrapper and passes through unchanged.
func stripQuotes(v string) string {
	if len(v) < 2 {
		return v
	}
	if v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	if v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1]
	}
	return v
}

// isNull reports whether a scalar denotes an explicit null.
func isNull(v string) bool {
	switch strings.ToLower(v) {
	case "null", "~", "":
		return true
	default:
		return false
	}
}
