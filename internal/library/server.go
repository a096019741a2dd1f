package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server exposes the playlist store over HTTP. It is mounted under
// /playlists by the caller.
type Server struct {
	store  *Store
	events *Publisher
}

func NewServer(store *Store, events *Publisher) *Server {
	return &Server{
		store:  store,
		events: events,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/", s.handleListPlaylists)
	r.Post("/create", s.handleCreatePlaylist)

	r.Get("/search/{query}", s.handleSearchPlaylists)
	r.Get("/stats/overview", s.handleStats)
	r.Get("/recent/{limit}", s.handleRecentPlaylists)

	r.Get("/{id}", s.handleGetPlaylist)
	r.Put("/{id}", s.handleUpdatePlaylist)
	r.Delete("/{id}", s.handleDeletePlaylist)

	r.Post("/{id}/songs", s.handleAddSong)
	r.Delete("/{id}/songs/{songId}", s.handleRemoveSong)
	r.Post("/{id}/reorder", s.handleReorderPlaylist)
	r.Get("/{id}/play", s.handlePlayPlaylist)

	return r
}
