package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(WatchConfig{
		DebounceDelay:  100 * time.Millisecond,
		FileExtensions: []string{".jsonld", ".json"},
		ExcludeDirs:    []string{".git"},
	}, tmpDir, nil)
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	assert.True(t, watcher.extensions[".jsonld"])
	assert.True(t, watcher.extensions[".json"])
	assert.False(t, watcher.extensions[".txt"])
	assert.True(t, watcher.excludes[".git"])
}

func TestWatcherDebounceDefault(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(WatchConfig{}, tmpDir, nil)
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	assert.Equal(t, 500*time.Millisecond, watcher.debounce())
}

func TestWatcherFileCreation(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(WatchConfig{
		DebounceDelay: 50 * time.Millisecond,
	}, tmpDir, nil)
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	doc := filepath.Join(tmpDir, "doc.jsonld")
	require.NoError(t, os.WriteFile(doc, []byte(`{"@id": "ex:a"}`), 0644))

	select {
	case event := <-watcher.Events():
		assert.Equal(t, WatchOpCreate, event.Operation)
		assert.Equal(t, "doc.jsonld", event.Path)
		assert.Equal(t, doc, event.AbsPath)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for create event")
	}
}

func TestWatcherSuppressesUnchangedContent(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(WatchConfig{
		DebounceDelay: 50 * time.Millisecond,
	}, tmpDir, nil)
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	doc := filepath.Join(tmpDir, "doc.jsonld")
	content := []byte(`{"@id": "ex:a"}`)
	require.NoError(t, os.WriteFile(doc, content, 0644))

	select {
	case <-watcher.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for create event")
	}

	// Rewriting identical content must not produce another event.
	require.NoError(t, os.WriteFile(doc, content, 0644))

	select {
	case event := <-watcher.Events():
		t.Fatalf("unexpected event for unchanged content: %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHash([]byte("hello"))
	c := ContentHash([]byte("world"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
