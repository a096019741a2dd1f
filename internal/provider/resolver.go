package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// ErrNoPlayableAudio reports that no format of the video yields a usable
// audio URL.
var ErrNoPlayableAudio = errors.New("no playable audio found")

// YouTubeResolver extracts metadata and stream formats for a video id and
// picks the audio URL to play.
type YouTubeResolver struct {
	client *youtube.Client
}

func NewYouTubeResolver() *YouTubeResolver {
	return &YouTubeResolver{client: &youtube.Client{}}
}

func (r *YouTubeResolver) ResolveAudio(ctx context.Context, videoID string) (AudioStream, error) {
	video, err := r.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return AudioStream{}, fmt.Errorf("resolve video %s: %w", videoID, err)
	}

	formats := mediaFormats(video.Formats)
	idx := pickAudioFormat(formats)
	if idx < 0 {
		return AudioStream{}, ErrNoPlayableAudio
	}

	audioURL := formats[idx].URL
	if audioURL == "" {
		// Ciphered formats carry no plain URL; ask the extractor to finish
		// deciphering.
		audioURL, err = r.client.GetStreamURLContext(ctx, video, &video.Formats[idx])
		if err != nil {
			return AudioStream{}, fmt.Errorf("resolve stream url for %s: %w", videoID, err)
		}
	}
	if audioURL == "" {
		return AudioStream{}, ErrNoPlayableAudio
	}

	return AudioStream{
		Title:    video.Title,
		Duration: int(video.Duration.Seconds()),
		AudioURL: audioURL,
		VideoID:  videoID,
	}, nil
}

// mediaFormats flattens the extractor's format list to the neutral shape the
// selection policy understands.
func mediaFormats(formats youtube.FormatList) []MediaFormat {
	out := make([]MediaFormat, 0, len(formats))
	for _, f := range formats {
		acodec, vcodec := splitMimeCodecs(f.MimeType, f.AudioChannels > 0)
		out = append(out, MediaFormat{
			URL:        f.URL,
			AudioCodec: acodec,
			VideoCodec: vcodec,
			AvgBitrate: f.AverageBitrate,
			Bitrate:    f.Bitrate,
		})
	}
	return out
}

// splitMimeCodecs derives audio/video codec names from a mime type such as
// `audio/webm; codecs="opus"` or `video/mp4; codecs="avc1.4d401f, mp4a.40.2"`.
func splitMimeCodecs(mimeType string, hasAudioChannels bool) (acodec, vcodec string) {
	base, params, _ := strings.Cut(mimeType, ";")
	base = strings.TrimSpace(base)

	var codecs []string
	if _, raw, ok := strings.Cut(params, "codecs="); ok {
		raw = strings.Trim(strings.TrimSpace(raw), `"`)
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				codecs = append(codecs, c)
			}
		}
	}

	switch {
	case strings.HasPrefix(base, "audio/"):
		if len(codecs) > 0 {
			return codecs[0], ""
		}
		return "unknown", ""
	case strings.HasPrefix(base, "video/"):
		if len(codecs) > 0 {
			vcodec = codecs[0]
		}
		if len(codecs) > 1 {
			acodec = codecs[1]
		} else if hasAudioChannels {
			acodec = "unknown"
		}
		return acodec, vcodec
	}
	return "", ""
}

func hasCodec(c string) bool {
	return c != "" && c != "none"
}

// pickAudioFormat returns the index of the format to play: the audio-only
// format with the highest bitrate (average bitrate preferred, total bitrate
// as fallback, 0 when neither is declared), else the first format in source
// order with any audio codec and a URL. -1 means nothing is playable.
func pickAudioFormat(formats []MediaFormat) int {
	best, bestRate := -1, -1
	for i, f := range formats {
		if !hasCodec(f.AudioCodec) || hasCodec(f.VideoCodec) {
			continue
		}
		rate := f.AvgBitrate
		if rate == 0 {
			rate = f.Bitrate
		}
		if rate > bestRate {
			best, bestRate = i, rate
		}
	}
	if best >= 0 {
		return best
	}
	for i, f := range formats {
		if hasCodec(f.AudioCodec) && f.URL != "" {
			return i
		}
	}
	return -1
}
