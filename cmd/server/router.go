package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/muhammadmukaram23/spotify-stream/internal/library"
	"github.com/muhammadmukaram23/spotify-stream/internal/provider"
)

func setupRouter(cfg Config, logger *log.Logger, libSrv *library.Server, provSrv *provider.Server) *chi.Mux {
	r := chi.NewRouter()

	r.Use(corsMiddleware(cfg.CORSAllowedOrigin))
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogMiddleware(logger))
	r.Use(rateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)

	r.Mount("/playlists", libSrv.Router(middleware.Timeout(30*time.Second)))
	r.Mount("/", provSrv.Router())

	return r
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "YouTube Music Player API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"/search":                  "Search for YouTube videos",
			"/stream/{video_id}":       "Get audio stream URL for a video",
			"/play/{video_id}":         "Stream MP3 audio directly",
			"/download/{video_id}":     "Download MP3 file",
			"/info/{video_id}":         "Get video metadata",
			"/playlists":               "Playlist management endpoints",
			"/playlists/create":        "Create a new playlist",
			"/playlists/{playlist_id}": "Get, update, or delete a playlist",
			"/playlists/{playlist_id}/songs": "Add or remove songs from playlist",
		},
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"service": "spotify-stream",
	})
}
