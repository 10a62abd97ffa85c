// Package versions extracts the current versions of governed documents.
//
// This is the lenient runtime read: owner is not required, documents
// missing the reduced field set are silently skipped, and a repeated
// doc_key overwrites the earlier entry (last-seen wins). The strict
// governance gate lives in internal/registry; the two scan paths stay
// separate because unifying them would change audit semantics.
package versions

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/parchment/internal/domain/document"
	"github.com/zjrosen/parchment/internal/frontmatter"
	"github.com/zjrosen/parchment/internal/log"
)

// EventPolicySnapshot tags ledger entries produced from an extraction.
const EventPolicySnapshot = "policy_snapshot"

// LedgerEntry is the ledger-ready envelope around a simple version mapping.
type LedgerEntry struct {
	Timestamp string            `json:"timestamp"`
	Event     string            `json:"event"`
	Documents map[string]string `json:"documents"`
	Count     int               `json:"count"`
}

// Extractor scans document roots for the current version of each document.
// All scan state is instance-scoped; construct a fresh Extractor per scan.
type Extractor struct {
	repoRoot  string
	roots     []string
	extension string
	filter    document.Status

	versions map[string]document.Version
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRoots overrides the scanned root directories (relative to repo root).
func WithRoots(roots ...string) Option {
	return func(e *Extractor) { e.roots = roots }
}

// WithExtension overrides the document file extension (default ".md").
func WithExtension(ext string) Option {
	return func(e *Extractor) { e.extension = ext }
}

// WithStatusFilter retains only documents whose status equals s exactly.
// Filtering happens during the scan, not after.
func WithStatusFilter(s document.Status) Option {
	return func(e *Extractor) { e.filter = s }
}

// NewExtractor creates an extractor rooted at repoRoot.
// Default roots are docs/ and plans/.
func NewExtractor(repoRoot string, opts ...Option) *Extractor {
	e := &Extractor{
		repoRoot:  repoRoot,
		roots:     []string{"docs", "plans"},
		extension: ".md",
		versions:  make(map[string]document.Version),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scan walks the configured roots and collects document versions.
// Returns the number of documents matched (including any that later
// overwrote an earlier entry for the same doc_key).
func (e *Extractor) Scan() int {
	count := 0
	for _, root := range e.roots {
		rootPath := filepath.Join(e.repoRoot, root)
		if _, err := os.Stat(rootPath); err != nil {
			continue
		}

		_ = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Lenient path: unreadable entries are silently absent.
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), e.extension) {
				return nil
			}
			if e.scanFile(path) {
				count++
			}
			return nil
		})
	}

	log.Debug(log.CatVersions, "Extraction complete", "matched", count, "distinct", len(e.versions))
	return count
}

func (e *Extractor) scanFile(path string) bool {
	content, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the scanned tree
	if err != nil {
		return false
	}

	fields, ok := frontmatter.Parse(string(content))
	if !ok {
		return false
	}
	if _, present := fields["doc_key"]; !present {
		return false
	}

	if e.filter != "" {
		status, _ := fields.Get("status")
		if document.Status(status) != e.filter {
			return false
		}
	}

	if len(document.MissingFields(fields, document.VersionRequiredFields)) > 0 {
		// Reduced field set not met: silently skipped, by design.
		return false
	}

	rel, err := filepath.Rel(e.repoRoot, path)
	if err != nil {
		rel = path
	}

	v := document.NewVersion(fields, filepath.ToSlash(rel))
	e.versions[v.DocKey] = v // last-seen wins
	return true
}

// Detail returns the full key-to-Version mapping.
func (e *Extractor) Detail() map[string]document.Version {
	return e.versions
}

// Simple returns the key-to-semver projection of the extraction.
func (e *Extractor) Simple() map[string]string {
	simple := make(map[string]string, len(e.versions))
	for key, v := range e.versions {
		simple[key] = v.Semver
	}
	return simple
}

// LedgerEntry wraps the simple mapping in a timestamped event envelope.
func (e *Extractor) LedgerEntry() LedgerEntry {
	return LedgerEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Event:     EventPolicySnapshot,
		Documents: e.Simple(),
		Count:     len(e.versions),
	}
}
