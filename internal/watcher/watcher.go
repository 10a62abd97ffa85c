// Package watcher provides file system watching with debouncing for
// document roots.
package watcher

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/parchment/internal/log"
)

// Watcher monitors document roots for changes and sends notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	repoRoot  string
	roots     []string
	extension string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	RepoRoot    string
	Roots       []string
	Extension   string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for watching a repository.
func DefaultConfig(repoRoot string) Config {
	return Config{
		RepoRoot:    repoRoot,
		Roots:       []string{"docs", "plans"},
		Extension:   ".md",
		DebounceDur: 1 * time.Second,
	}
}

// New creates a new document tree watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	ext := cfg.Extension
	if ext == "" {
		ext = ".md"
	}

	return &Watcher{
		fsWatcher: fsw,
		repoRoot:  cfg.RepoRoot,
		roots:     cfg.Roots,
		extension: ext,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the configured roots recursively.
// Returns a channel that receives a signal when a document changes.
// Roots that do not exist are skipped, matching scan behavior.
func (w *Watcher) Start() (<-chan struct{}, error) {
	watched := 0
	for _, root := range w.roots {
		dir := filepath.Join(w.repoRoot, root)
		added, err := w.addRecursive(dir)
		if err != nil {
			return nil, err
		}
		watched += added
	}
	if watched == 0 {
		return nil, fmt.Errorf("no watchable roots under %s", w.repoRoot)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// addRecursive watches dir and every subdirectory beneath it.
func (w *Watcher) addRecursive(dir string) (int, error) {
	added := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				// Missing root, nothing to watch here.
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		added++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			// New subdirectories need their own watch to catch files
			// created inside them later.
			if event.Op&fsnotify.Create != 0 && filepath.Ext(event.Name) == "" {
				if _, err := w.addRecursive(event.Name); err != nil {
					log.ErrorErr(log.CatWatch, "failed to watch new directory", err, "path", event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatch, "watch error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a rebuild.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	// Directory events matter for watch registration, document events
	// for rebuilds. Everything else (editor swap files etc) is noise.
	if filepath.Ext(event.Name) == "" {
		return event.Op&fsnotify.Create != 0
	}
	return strings.HasSuffix(event.Name, w.extension)
}
