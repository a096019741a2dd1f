package provider

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	streamChunkSize   = 8 * 1024
	streamReadTimeout = 30 * time.Second
	streamUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// StreamProxy relays a resolved audio URL to the caller chunk by chunk,
// never holding more than one chunk in memory. Redirects are followed; a
// non-success origin status aborts before any payload byte is written.
type StreamProxy struct {
	client      *http.Client
	readTimeout time.Duration
}

func NewStreamProxy() *StreamProxy {
	return &StreamProxy{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		readTimeout: streamReadTimeout,
	}
}

// Stream proxies audioURL to w. started reports whether response headers
// (and possibly body bytes) were already committed: once true, a returned
// error can only be logged, not turned into an error status. Cancelling ctx
// stops the relay and releases the origin connection; an origin that stalls
// longer than the per-read budget is cut off the same way.
func (p *StreamProxy) Stream(ctx context.Context, w http.ResponseWriter, audioURL, title string) (started bool, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", streamUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("origin status %d", resp.StatusCode)
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", headerFilename(title)+".mp3"))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET")
	w.Header().Set("Access-Control-Allow-Headers", "*")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	// The transport's timeouts cover dial and headers only; the watchdog
	// bounds each body read so a stalled origin cannot hold the relay open.
	watchdog := time.AfterFunc(p.readTimeout, cancel)
	defer watchdog.Stop()

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, streamChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		watchdog.Reset(p.readTimeout)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return true, writeErr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return true, nil
		}
		if readErr != nil {
			return true, readErr
		}
	}
}

// headerFilename strips characters that would break the quoted
// content-disposition value.
func headerFilename(title string) string {
	title = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '\r', '\n':
			return -1
		}
		return r
	}, title)
	if title == "" {
		title = "audio"
	}
	return title
}
