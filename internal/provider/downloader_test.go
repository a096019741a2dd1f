package provider

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateOutput(t *testing.T) {
	t.Run("ExactName", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, "vid1.mp3")
		require.NoError(t, os.WriteFile(want, []byte("mp3"), 0o644))

		got, err := locateOutput(dir, "vid1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("PrefixScan", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, "vid1.webm.mp3")
		require.NoError(t, os.WriteFile(want, []byte("mp3"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "vid1.source"), []byte("raw"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.mp3"), []byte("mp3"), 0o644))

		got, err := locateOutput(dir, "vid1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Missing", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.mp3"), []byte("mp3"), 0o644))

		_, err := locateOutput(dir, "vid1")
		assert.Error(t, err)
	})
}

func TestDownloadReusesExistingFile(t *testing.T) {
	dir := t.TempDir()
	d := &YouTubeDownloader{
		tempDir: dir,
		logger:  log.New(io.Discard),
	}

	cached := filepath.Join(dir, "vid1.mp3")
	require.NoError(t, os.WriteFile(cached, []byte("mp3"), 0o644))

	// The client is nil: reaching extraction would panic, so a returned path
	// proves the cached file short-circuited the download.
	got, err := d.Download(context.Background(), "vid1")
	require.NoError(t, err)
	assert.Equal(t, cached, got)
}

func TestCleanupRemovesTempDir(t *testing.T) {
	d, err := NewYouTubeDownloader(log.New(io.Discard))
	require.NoError(t, err)

	_, statErr := os.Stat(d.tempDir)
	require.NoError(t, statErr)

	d.Cleanup()

	_, statErr = os.Stat(d.tempDir)
	assert.True(t, os.IsNotExist(statErr))
}
