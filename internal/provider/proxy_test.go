package provider

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamProxySuccess(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 3*streamChunkSize+17)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write(payload)
	}))
	defer origin.Close()

	p := NewStreamProxy()
	w := httptest.NewRecorder()

	started, err := p.Stream(context.Background(), w, origin.URL, "My Song")
	require.NoError(t, err)
	assert.True(t, started)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="My Song.mp3"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, payload, w.Body.Bytes())
}

func TestStreamProxyOriginErrorStatus(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer origin.Close()

	p := NewStreamProxy()
	w := httptest.NewRecorder()

	started, err := p.Stream(context.Background(), w, origin.URL, "My Song")
	require.Error(t, err)
	assert.False(t, started, "headers must not be committed on origin failure")
	assert.Contains(t, err.Error(), "403")
	assert.Empty(t, w.Body.Bytes())
}

func TestStreamProxyMidStreamFailure(t *testing.T) {
	// Promise more bytes than we send so the proxy hits a read error after
	// the response has started.
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100000")
		w.WriteHeader(http.StatusOK)
		w.Write(bytes.Repeat([]byte{0x01}, 1000))
	}))
	defer origin.Close()

	p := NewStreamProxy()
	w := httptest.NewRecorder()

	started, err := p.Stream(context.Background(), w, origin.URL, "cut off")
	assert.True(t, started, "partial relay still counts as started")
	assert.Error(t, err)
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestStreamProxyStalledOrigin(t *testing.T) {
	release := make(chan struct{})
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{0x01}, 100))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer origin.Close()
	defer close(release)

	p := NewStreamProxy()
	p.readTimeout = 100 * time.Millisecond
	w := httptest.NewRecorder()

	start := time.Now()
	started, err := p.Stream(context.Background(), w, origin.URL, "stalled")
	assert.True(t, started, "the first chunk went out before the stall")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "a stalled origin must be cut off by the read budget")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestStreamProxyContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer origin.Close()

	p := NewStreamProxy()
	started, err := p.Stream(ctx, httptest.NewRecorder(), origin.URL, "x")
	assert.Error(t, err)
	assert.False(t, started)
}

func TestHeaderFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Song", "My Song"},
		{`quo"te`, "quote"},
		{"back\\slash", "backslash"},
		{"line\r\nbreak", "linebreak"},
		{"", "audio"},
		{"\"\\", "audio"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, headerFilename(tt.in))
	}
}

func TestStreamProxyFollowsRedirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-bytes"))
	}))
	defer final.Close()
	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer redirecting.Close()

	p := NewStreamProxy()
	w := httptest.NewRecorder()

	started, err := p.Stream(context.Background(), w, redirecting.URL, "x")
	require.NoError(t, err)
	assert.True(t, started)
	assert.True(t, strings.Contains(w.Body.String(), "audio-bytes"))
}
