package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/parchment/internal/testutil"
)

const notifyTimeout = 3 * time.Second

func startWatcher(t *testing.T, root string) <-chan struct{} {
	t.Helper()
	cfg := DefaultConfig(root)
	cfg.DebounceDur = 50 * time.Millisecond

	w, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err)
	return ch
}

func expectSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(notifyTimeout):
		t.Fatal("expected a change notification")
	}
}

func expectSilence(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("unexpected change notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_NotifiesOnDocumentWrite(t *testing.T) {
	tree := testutil.NewDocTree(t)
	tree.WriteDoc("docs/a.md", testutil.GoverningDoc("policy.a"))

	ch := startWatcher(t, tree.Root())
	tree.WriteDoc("docs/a.md", testutil.GoverningDoc("policy.a"))
	expectSignal(t, ch)
}

func TestWatcher_NotifiesOnNewDocument(t *testing.T) {
	tree := testutil.NewDocTree(t)
	tree.Write("docs/.keep", "")

	ch := startWatcher(t, tree.Root())
	tree.WriteDoc("docs/new.md", testutil.GoverningDoc("policy.new"))
	expectSignal(t, ch)
}

func TestWatcher_IgnoresUnrelatedExtensions(t *testing.T) {
	tree := testutil.NewDocTree(t)
	tree.Write("docs/.keep", "")

	ch := startWatcher(t, tree.Root())
	tree.Write("docs/notes.txt", "scratch")
	expectSilence(t, ch)
}

func TestWatcher_NotifiesOnDelete(t *testing.T) {
	tree := testutil.NewDocTree(t)
	tree.WriteDoc("docs/a.md", testutil.GoverningDoc("policy.a"))

	ch := startWatcher(t, tree.Root())
	require.NoError(t, os.Remove(tree.Path("docs/a.md")))
	expectSignal(t, ch)
}

func TestWatcher_WatchesNestedDirectories(t *testing.T) {
	tree := testutil.NewDocTree(t)
	tree.WriteDoc("docs/nested/deep/a.md", testutil.GoverningDoc("policy.deep"))

	ch := startWatcher(t, tree.Root())
	tree.WriteDoc("docs/nested/deep/a.md", testutil.GoverningDoc("policy.deep"))
	expectSignal(t, ch)
}

func TestWatcher_CoalescesBurstIntoOneNotification(t *testing.T) {
	tree := testutil.NewDocTree(t)
	tree.WriteDoc("docs/a.md", testutil.GoverningDoc("policy.a"))

	ch := startWatcher(t, tree.Root())
	for i := 0; i < 5; i++ {
		tree.WriteDoc("docs/a.md", testutil.GoverningDoc("policy.a"))
	}

	expectSignal(t, ch)
	// The burst lands inside one debounce window.
	expectSilence(t, ch)
}

func TestWatcher_MissingRootsFail(t *testing.T) {
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "empty"))

	w, err := New(cfg)
	require.NoError(t, err)
	defer w.Stop()

	_, err = w.Start()
	require.Error(t, err)
}
