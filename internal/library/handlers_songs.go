package library

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var song Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	song.ID = strings.TrimSpace(song.ID)
	if song.ID == "" {
		writeError(w, http.StatusBadRequest, "song id is required")
		return
	}

	pl, changed, err := s.store.AddSong(ctx, id, song)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	if changed {
		s.events.Publish(ctx, "song.added", map[string]any{"playlistId": id, "songId": song.ID})
	}
	writeJSON(w, http.StatusOK, pl)
}

func (s *Server) handleRemoveSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	songID := chi.URLParam(r, "songId")

	pl, changed, err := s.store.RemoveSong(ctx, id, songID)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	if changed {
		s.events.Publish(ctx, "song.removed", map[string]any{"playlistId": id, "songId": songID})
	}
	writeJSON(w, http.StatusOK, pl)
}

func (s *Server) handleReorderPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var order []int
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pl, err := s.store.Reorder(ctx, id, order)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	case errors.Is(err, ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, "song order must be a permutation of the current indices")
		return
	}

	s.events.Publish(ctx, "playlist.reordered", map[string]any{"playlistId": id})
	writeJSON(w, http.StatusOK, pl)
}

// handlePlayPlaylist returns the songs in play order. shuffle=true permutes
// the copy for this response only; nothing is persisted.
func (s *Server) handlePlayPlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pl, err := s.store.Get(id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	shuffle := r.URL.Query().Get("shuffle") == "true"
	songs := pl.Songs
	if shuffle {
		rand.Shuffle(len(songs), func(i, j int) {
			songs[i], songs[j] = songs[j], songs[i]
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"playlist_id":   pl.ID,
		"playlist_name": pl.Name,
		"songs":         songs,
		"total_songs":   len(songs),
		"shuffled":      shuffle,
	})
}
