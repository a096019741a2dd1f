package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Searcher finds videos by keyword.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// Resolver turns a video id into a playable audio descriptor.
type Resolver interface {
	ResolveAudio(ctx context.Context, videoID string) (AudioStream, error)
}

// Downloader materializes a video as a local audio file.
type Downloader interface {
	Download(ctx context.Context, videoID string) (string, error)
}

// Streamer relays a resolved audio URL to the response writer.
type Streamer interface {
	Stream(ctx context.Context, w http.ResponseWriter, audioURL, title string) (started bool, err error)
}

// Server exposes search, resolution, proxy playback and download over HTTP.
type Server struct {
	search     Searcher
	resolver   Resolver
	downloader Downloader
	streamer   Streamer
	logger     *log.Logger
}

func NewServer(search Searcher, resolver Resolver, downloader Downloader, streamer Streamer, logger *log.Logger) *Server {
	return &Server{
		search:     search,
		resolver:   resolver,
		downloader: downloader,
		streamer:   streamer,
		logger:     logger,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Metadata endpoints are bounded; playback and download are long-lived
	// and must not run under the request timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/search", s.handleSearch)
		r.Get("/stream/{id}", s.handleGetStream)
		r.Get("/info/{id}", s.handleInfo)
	})

	r.Get("/play/{id}", s.handlePlay)
	r.Get("/download/{id}", s.handleDownload)

	return r
}
