// Package registry builds and validates the governance document registry.
//
// The builder is the strict path: every versioned document must carry the
// full required field set, and doc_key collisions are conflicts, never
// merges. The lenient runtime view lives in internal/versions; the two scan
// paths are intentionally separate because one is a governance gate and the
// other a convenience read.
package registry

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/parchment/internal/domain/document"
	"github.com/zjrosen/parchment/internal/frontmatter"
	"github.com/zjrosen/parchment/internal/log"
)

// Duplicate records a doc_key claimed by more than one document.
// FirstPath is the traversal-order winner that stays in the registry.
type Duplicate struct {
	DocKey     string
	FirstPath  string
	SecondPath string
}

// HeaderSource loads and parses a document's header block.
// The error return is a read failure (I/O, permissions); absence of a
// header is (nil, false, nil).
type HeaderSource interface {
	Load(path string) (frontmatter.Fields, bool, error)
}

// FileHeaderSource reads headers straight from disk.
type FileHeaderSource struct{}

// Load implements HeaderSource.
func (FileHeaderSource) Load(path string) (frontmatter.Fields, bool, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the scanned tree
	if err != nil {
		return nil, false, err
	}
	fields, ok := frontmatter.Parse(string(content))
	return fields, ok, nil
}

// Builder scans document roots and accumulates a key-unique registry.
// All scan state is instance-scoped; construct a fresh Builder per scan.
type Builder struct {
	repoRoot  string
	roots     []string
	extension string
	headers   HeaderSource

	registry   map[string]document.Record
	duplicates []Duplicate
	errors     []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithRoots overrides the scanned root directories (relative to repo root).
func WithRoots(roots ...string) Option {
	return func(b *Builder) { b.roots = roots }
}

// WithExtension overrides the document file extension (default ".md").
func WithExtension(ext string) Option {
	return func(b *Builder) { b.extension = ext }
}

// WithHeaderSource overrides how headers are loaded, e.g. with a
// read-through cache during watch-mode rebuilds.
func WithHeaderSource(src HeaderSource) Option {
	return func(b *Builder) { b.headers = src }
}

// NewBuilder creates a builder rooted at repoRoot.
// Default roots are docs/ and plans/.
func NewBuilder(repoRoot string, opts ...Option) *Builder {
	b := &Builder{
		repoRoot:  repoRoot,
		roots:     []string{"docs", "plans"},
		extension: ".md",
		headers:   FileHeaderSource{},
		registry:  make(map[string]document.Record),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Scan walks the configured roots and registers every valid versioned
// document. Returns the number of documents registered. Per-document
// problems accumulate in Errors and Duplicates; one bad document never
// aborts the rest of the tree.
func (b *Builder) Scan() int {
	for _, root := range b.roots {
		rootPath := filepath.Join(b.repoRoot, root)
		if _, err := os.Stat(rootPath); err != nil {
			log.Debug(log.CatScan, "Skipping missing root", "root", rootPath)
			continue
		}

		err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				b.errors = append(b.errors, fmt.Sprintf("Cannot read %s: %v", path, err))
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), b.extension) {
				return nil
			}
			b.scanFile(path)
			return nil
		})
		if err != nil {
			b.errors = append(b.errors, fmt.Sprintf("Cannot read %s: %v", rootPath, err))
		}
	}

	log.Info(log.CatRegistry, "Scan complete",
		"registered", len(b.registry),
		"duplicates", len(b.duplicates),
		"errors", len(b.errors))
	return len(b.registry)
}

func (b *Builder) scanFile(path string) {
	relPath := b.relative(path)

	fields, ok, err := b.headers.Load(path)
	if err != nil {
		// Unreadable document: a diagnostic, not a skip.
		b.errors = append(b.errors, fmt.Sprintf("Cannot read %s: %v", relPath, err))
		return
	}
	if !ok {
		return
	}

	// No doc_key means the document is unversioned, which is the normal
	// case for most of the tree.
	if _, present := fields["doc_key"]; !present {
		return
	}

	if err := document.ValidateHeader(fields, relPath); err != nil {
		b.errors = append(b.errors, err.Error())
		return
	}

	rec := document.NewRecord(fields, relPath)
	if existing, taken := b.registry[rec.DocKey]; taken {
		// First-seen wins; later claimants are reported, never merged.
		b.duplicates = append(b.duplicates, Duplicate{
			DocKey:     rec.DocKey,
			FirstPath:  existing.Path,
			SecondPath: relPath,
		})
		return
	}

	b.registry[rec.DocKey] = rec
	log.Debug(log.CatRegistry, "Registered document", "doc_key", rec.DocKey, "path", relPath)
}

// relative converts an absolute scan path to a slash-separated
// repo-root-relative path for stable registry output.
func (b *Builder) relative(path string) string {
	rel, err := filepath.Rel(b.repoRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Registry returns the accumulated key-unique registry.
func (b *Builder) Registry() map[string]document.Record {
	return b.registry
}

// Duplicates returns the doc_key conflicts found during the scan.
func (b *Builder) Duplicates() []Duplicate {
	return b.duplicates
}

// Errors returns the accumulated validation and read diagnostics.
func (b *Builder) Errors() []string {
	return b.errors
}

// Succeeded reports the scan-level result: success if and only if no
// duplicates and no diagnostics accumulated.
func (b *Builder) Succeeded() bool {
	return len(b.duplicates) == 0 && len(b.errors) == 0
}

// Save persists the registry as a flat JSON object mapping doc_key to
// record fields, keys sorted, 2-space indent. Running twice over an
// unchanged tree yields byte-identical output.
func (b *Builder) Save(outputPath string) error {
	data, err := json.MarshalIndent(b.registry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil { //nolint:gosec // G306: registry file is a shared artifact
		return fmt.Errorf("writing registry: %w", err)
	}

	log.Info(log.CatRegistry, "Registry saved", "path", outputPath, "documents", len(b.registry))
	return nil
}
