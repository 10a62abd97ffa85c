// Package testutil provides test utilities for building document trees.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// DocTree builds a temporary repository layout for scanner tests.
// All paths are relative to a per-test temp directory.
type DocTree struct {
	t    *testing.T
	root string
}

// NewDocTree creates an empty document tree under t.TempDir().
func NewDocTree(t *testing.T) *DocTree {
	t.Helper()
	return &DocTree{t: t, root: t.TempDir()}
}

// Root returns the tree's repository root.
func (d *DocTree) Root() string {
	return d.root
}

// Path returns the absolute path for relPath inside the tree.
func (d *DocTree) Path(relPath string) string {
	return filepath.Join(d.root, filepath.FromSlash(relPath))
}

// Write places raw content at relPath, creating parent directories.
func (d *DocTree) Write(relPath, content string) *DocTree {
	d.t.Helper()
	path := filepath.Join(d.root, filepath.FromSlash(relPath))
	require.NoError(d.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(d.t, os.WriteFile(path, []byte(content), 0o644))
	return d
}

// WriteDoc places a document with a front-matter header built from fields
// (rendered in sorted key order) and a short body.
func (d *DocTree) WriteDoc(relPath string, fields map[string]string) *DocTree {
	d.t.Helper()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("---\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, fields[k])
	}
	b.WriteString("---\n\n# Document\n\nBody text.\n")

	return d.Write(relPath, b.String())
}

// GoverningDoc returns a complete, valid header field set for docKey.
// Callers mutate the map to produce invalid variants.
func GoverningDoc(docKey string) map[string]string {
	return map[string]string{
		"doc_key":        docKey,
		"semver":         "1.0.0",
		"status":         "active",
		"effective_date": "2024-01-01",
		"owner":          "platform-team",
		"contract_type":  "policy",
	}
}
