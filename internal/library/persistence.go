package library

import "context"

// Persistence is the durable backing for the playlist collection. Load runs
// once at startup; Save receives the whole collection after every mutation
// and overwrites whatever was stored before (write-through, not a log).
type Persistence interface {
	Load(ctx context.Context) (map[string]*Playlist, error)
	Save(ctx context.Context, playlists map[string]*Playlist) error
}
