package library

import (
	"time"
)

// Song is a playlist member. Songs are identified by the video id of the
// source platform; the same id never appears twice in one playlist.
type Song struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Channel   string    `json:"channel"`
	Duration  string    `json:"duration"` // display form, "minutes:seconds"
	Thumbnail string    `json:"thumbnail,omitempty"`
	URL       string    `json:"url"`
	AddedAt   time.Time `json:"added_at"`
}

// Playlist holds an ordered song sequence plus a cached duration aggregate.
// TotalDuration is adjusted incrementally on add/remove, never recomputed.
type Playlist struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Songs         []Song    `json:"songs"`
	TotalDuration int       `json:"total_duration"` // seconds
}

func (p *Playlist) clone() *Playlist {
	out := *p
	out.Songs = make([]Song, len(p.Songs))
	copy(out.Songs, p.Songs)
	return &out
}

// Stats aggregates the whole collection, computed freshly on request.
type Stats struct {
	TotalPlaylists         int    `json:"total_playlists"`
	TotalSongs             int    `json:"total_songs"`
	TotalDurationSeconds   int    `json:"total_duration_seconds"`
	TotalDurationFormatted string `json:"total_duration_formatted"` // "HH:MM:SS"
}
