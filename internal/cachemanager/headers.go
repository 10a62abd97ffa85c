package cachemanager

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zjrosen/parchment/internal/frontmatter"
	"github.com/zjrosen/parchment/internal/registry"
)

// HeaderTTL bounds how long a parsed header stays cached without reuse.
const HeaderTTL = 5 * time.Minute

// headerEntry is the cached result of parsing one document header.
type headerEntry struct {
	fields frontmatter.Fields
	ok     bool
}

// CachedHeaderSource caches parsed document headers keyed by path and
// file mtime, so repeated rebuilds of an unchanged tree skip re-parsing.
// A modified file gets a new key and falls through to disk.
type CachedHeaderSource struct {
	cache    CacheManager[string, headerEntry]
	delegate registry.HeaderSource
}

// NewCachedHeaderSource wraps a header source with an in-memory cache.
func NewCachedHeaderSource(delegate registry.HeaderSource) *CachedHeaderSource {
	return &CachedHeaderSource{
		cache:    NewInMemoryCacheManager[string, headerEntry]("headers", DefaultExpiration, DefaultCleanupInterval),
		delegate: delegate,
	}
}

// Load parses the header at path, serving from cache when the file is
// unchanged since the last parse.
func (s *CachedHeaderSource) Load(path string) (frontmatter.Fields, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())

	ctx := context.Background()
	if entry, found := s.cache.Get(ctx, key); found {
		return entry.fields, entry.ok, nil
	}

	fields, ok, err := s.delegate.Load(path)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, key, headerEntry{fields: fields, ok: ok}, HeaderTTL)
	return fields, ok, nil
}
