package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadLog struct {
	mu    sync.Mutex
	paths []string
}

func (l *uploadLog) upload(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, filepath.Base(path))
	return nil
}

func (l *uploadLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

func TestUploadWatcher_UploadsNewImagesOnce(t *testing.T) {
	dir := t.TempDir()
	w, err := newUploadWatcher(dir, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var uploads uploadLog
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, uploads.upload, func(string, error) {}) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600))
	f, err := os.Create(filepath.Join(dir, "cat.png"))
	require.NoError(t, err)
	f.Write([]byte("\x89PNG"))
	f.Write([]byte(" more bytes"))
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool { return len(uploads.names()) == 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{"cat.png"}, uploads.names())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewUploadWatcher_MissingDir(t *testing.T) {
	_, err := newUploadWatcher(filepath.Join(t.TempDir(), "missing"), time.Second)
	assert.Error(t, err)
}

func TestUploadExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.JPG"), []byte("jpg"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.mp4"), []byte("mp4"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.png"), 0o700))

	var uploads uploadLog
	var out bytes.Buffer
	uploadExisting(dir, uploads.upload, reportTo(&out))

	assert.ElementsMatch(t, []string{"a.png", "b.JPG"}, uploads.names())
	assert.Contains(t, out.String(), "Uploaded a.png")
}
