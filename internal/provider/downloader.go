package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/kkdai/youtube/v2"
)

// YouTubeDownloader materializes videos as mp3 files in a process-scoped
// temp directory. Files are named by video id and reused on repeat requests;
// the directory is removed wholesale on shutdown.
type YouTubeDownloader struct {
	client  *youtube.Client
	tempDir string
	ffmpeg  string
	logger  *log.Logger
}

func NewYouTubeDownloader(logger *log.Logger) (*YouTubeDownloader, error) {
	dir, err := os.MkdirTemp("", "spotify-stream-")
	if err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	return &YouTubeDownloader{
		client:  &youtube.Client{},
		tempDir: dir,
		ffmpeg:  "ffmpeg",
		logger:  logger,
	}, nil
}

// Download fetches the best available audio, transcodes it to mp3 and
// returns the file path.
func (d *YouTubeDownloader) Download(ctx context.Context, videoID string) (string, error) {
	target := filepath.Join(d.tempDir, videoID+".mp3")
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	video, err := d.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("fetch video %s: %w", videoID, err)
	}

	idx := pickAudioFormat(mediaFormats(video.Formats))
	if idx < 0 {
		return "", ErrNoPlayableAudio
	}

	stream, _, err := d.client.GetStreamContext(ctx, video, &video.Formats[idx])
	if err != nil {
		return "", fmt.Errorf("fetch audio stream: %w", err)
	}
	defer stream.Close()

	source := filepath.Join(d.tempDir, videoID+".source")
	f, err := os.Create(source)
	if err != nil {
		return "", err
	}
	_, copyErr := io.Copy(f, stream)
	closeErr := f.Close()
	if copyErr != nil {
		os.Remove(source)
		return "", fmt.Errorf("save audio stream: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(source)
		return "", closeErr
	}
	defer os.Remove(source)

	cmd := exec.CommandContext(ctx, d.ffmpeg, "-y", "-i", source, "-vn",
		"-codec:a", "libmp3lame", "-b:a", "192k", target)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("transcode %s: %v: %s", videoID, err, strings.TrimSpace(string(out)))
	}

	path, err := locateOutput(d.tempDir, videoID)
	if err != nil {
		return "", err
	}
	return path, nil
}

// Cleanup removes the whole temp directory. Best-effort, called on shutdown.
func (d *YouTubeDownloader) Cleanup() {
	if err := os.RemoveAll(d.tempDir); err != nil {
		d.logger.Warn("remove download dir", "dir", d.tempDir, "err", err)
	}
}

// locateOutput finds the transcoded file: the exact "{id}.mp3" name first,
// else any mp3 whose name starts with the video id (the transcoder may
// append container hints).
func locateOutput(dir, videoID string) (string, error) {
	exact := filepath.Join(dir, videoID+".mp3")
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, videoID) && strings.HasSuffix(name, ".mp3") {
			return filepath.Join(dir, name), nil
		}
	}
	return "", errors.New("downloaded file not found")
}
