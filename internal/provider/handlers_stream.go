package provider

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetStream(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	stream, err := s.resolver.ResolveAudio(r.Context(), videoID)
	if err != nil {
		s.logger.Error("resolve audio", "videoId", videoID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stream)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "id")

	stream, err := s.resolver.ResolveAudio(ctx, videoID)
	if err != nil {
		s.logger.Error("resolve audio", "videoId", videoID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	started, err := s.streamer.Stream(ctx, w, stream.AudioURL, stream.Title)
	if err != nil {
		if !started {
			writeError(w, http.StatusInternalServerError, "failed to stream audio: "+err.Error())
			return
		}
		// Bytes already went out; the broken stream is all the client gets.
		s.logger.Warn("stream aborted", "videoId", videoID, "err", err)
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	path, err := s.downloader.Download(r.Context(), videoID)
	if err != nil {
		s.logger.Error("download audio", "videoId", videoID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", videoID+".mp3"))
	http.ServeFile(w, r, path)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	stream, err := s.resolver.ResolveAudio(r.Context(), videoID)
	if err != nil {
		s.logger.Error("resolve info", "videoId", videoID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"video_id":  videoID,
		"title":     stream.Title,
		"duration":  stream.Duration,
		"has_audio": true,
		"url":       watchURL(videoID),
	})
}
