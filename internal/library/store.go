package library

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrNotFound reports an absent playlist.
	ErrNotFound = errors.New("playlist not found")
	// ErrInvalidOrder reports a reorder payload that is not a permutation of
	// the playlist's current indices.
	ErrInvalidOrder = errors.New("invalid song order")
)

// Store owns the playlist collection. Reads return deep copies; every
// mutating operation runs as a read-modify-persist critical section
// serialized per playlist id, and writes the whole collection through to the
// configured Persistence before returning. A persistence failure is logged
// and swallowed: the in-memory mutation stays.
type Store struct {
	persist Persistence
	logger  *log.Logger

	mu        sync.RWMutex
	playlists map[string]*Playlist
	locks     map[string]*sync.Mutex
	version   uint64

	saveMu       sync.Mutex
	savedVersion uint64

	now func() time.Time
}

// NewStore loads the persisted collection and starts serving it. A load
// failure is logged and the store starts empty, matching the write-through
// contract (the next successful mutation overwrites whatever is on disk).
func NewStore(ctx context.Context, persist Persistence, logger *log.Logger) *Store {
	s := &Store{
		persist:   persist,
		logger:    logger,
		playlists: map[string]*Playlist{},
		locks:     map[string]*sync.Mutex{},
		now:       time.Now,
	}
	loaded, err := persist.Load(ctx)
	if err != nil {
		logger.Error("load playlists, starting empty", "err", err)
		return s
	}
	for id, pl := range loaded {
		if pl.Songs == nil {
			pl.Songs = []Song{}
		}
		s.playlists[id] = pl
	}
	return s
}

func (s *Store) lockPlaylist(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// snapshotLocked deep-copies the collection so Save can run outside the map
// lock, stamping it with the next collection version. Callers must hold s.mu
// for writing.
func (s *Store) snapshotLocked() (map[string]*Playlist, uint64) {
	s.version++
	snap := make(map[string]*Playlist, len(s.playlists))
	for id, pl := range s.playlists {
		snap[id] = pl.clone()
	}
	return snap, s.version
}

// save serializes whole-collection writes. Snapshots of different playlists
// can arrive out of order once s.mu is released; anything older than the
// latest attempted write is dropped so a stale snapshot never ends up on
// disk last.
func (s *Store) save(ctx context.Context, snap map[string]*Playlist, version uint64) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if version <= s.savedVersion {
		return
	}
	s.savedVersion = version
	if err := s.persist.Save(ctx, snap); err != nil {
		s.logger.Warn("persist playlists", "err", err)
	}
}

// Create adds an empty playlist with a fresh id. It never fails: names are
// not unique.
func (s *Store) Create(ctx context.Context, name, description string) *Playlist {
	now := s.now()
	pl := &Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Songs:       []Song{},
	}

	s.mu.Lock()
	s.playlists[pl.ID] = pl
	out := pl.clone()
	snap, version := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, snap, version)
	return out
}

// Get returns a copy of the playlist or ErrNotFound.
func (s *Store) Get(id string) (*Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pl, ok := s.playlists[id]
	if !ok {
		return nil, ErrNotFound
	}
	return pl.clone(), nil
}

// List returns every playlist in store-native (unspecified) order.
func (s *Store) List() []*Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Playlist, 0, len(s.playlists))
	for _, pl := range s.playlists {
		out = append(out, pl.clone())
	}
	return out
}

// Update applies the supplied fields only; nil means "leave unchanged".
// UpdatedAt is bumped even when no field is supplied.
func (s *Store) Update(ctx context.Context, id string, name, description *string) (*Playlist, error) {
	unlock := s.lockPlaylist(id)
	defer unlock()

	s.mu.Lock()
	pl, ok := s.playlists[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if name != nil {
		pl.Name = *name
	}
	if description != nil {
		pl.Description = *description
	}
	pl.UpdatedAt = s.now()
	out := pl.clone()
	snap, version := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, snap, version)
	return out, nil
}

// Delete removes the playlist and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	unlock := s.lockPlaylist(id)
	defer unlock()

	s.mu.Lock()
	if _, ok := s.playlists[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.playlists, id)
	delete(s.locks, id)
	snap, version := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, snap, version)
	return true
}

// AddSong appends the song unless its id is already present, in which case
// the playlist is returned unchanged (idempotent add, no error, no timestamp
// bump) and changed is false. The song's parsed duration is added to the
// aggregate; an unparseable duration is skipped silently.
func (s *Store) AddSong(ctx context.Context, id string, song Song) (pl *Playlist, changed bool, err error) {
	unlock := s.lockPlaylist(id)
	defer unlock()

	s.mu.Lock()
	pl, ok := s.playlists[id]
	if !ok {
		s.mu.Unlock()
		return nil, false, ErrNotFound
	}
	for _, existing := range pl.Songs {
		if existing.ID == song.ID {
			out := pl.clone()
			s.mu.Unlock()
			return out, false, nil
		}
	}
	song.AddedAt = s.now()
	pl.Songs = append(pl.Songs, song)
	pl.UpdatedAt = song.AddedAt
	if secs, ok := parseClockDuration(song.Duration); ok {
		pl.TotalDuration += secs
	}
	out := pl.clone()
	snap, version := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, snap, version)
	return out, true, nil
}

// RemoveSong deletes the song by id and subtracts its parsed duration,
// clamping the aggregate at zero. A song id that is not present is not an
// error: the unchanged playlist comes back with changed false.
func (s *Store) RemoveSong(ctx context.Context, id, songID string) (pl *Playlist, changed bool, err error) {
	unlock := s.lockPlaylist(id)
	defer unlock()

	s.mu.Lock()
	pl, ok := s.playlists[id]
	if !ok {
		s.mu.Unlock()
		return nil, false, ErrNotFound
	}
	idx := -1
	for i, song := range pl.Songs {
		if song.ID == songID {
			idx = i
			break
		}
	}
	if idx < 0 {
		out := pl.clone()
		s.mu.Unlock()
		return out, false, nil
	}
	removed := pl.Songs[idx]
	pl.Songs = append(pl.Songs[:idx], pl.Songs[idx+1:]...)
	pl.UpdatedAt = s.now()
	if secs, ok := parseClockDuration(removed.Duration); ok {
		pl.TotalDuration -= secs
		if pl.TotalDuration < 0 {
			pl.TotalDuration = 0
		}
	}
	out := pl.clone()
	snap, version := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, snap, version)
	return out, true, nil
}

// Reorder rearranges the song sequence: order lists the current positions in
// their desired new order and must be a full permutation of [0,len). Any
// wrong-length, out-of-range or duplicate index rejects the request with
// ErrInvalidOrder and leaves the playlist untouched.
func (s *Store) Reorder(ctx context.Context, id string, order []int) (*Playlist, error) {
	unlock := s.lockPlaylist(id)
	defer unlock()

	s.mu.Lock()
	pl, ok := s.playlists[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if len(order) != len(pl.Songs) {
		s.mu.Unlock()
		return nil, ErrInvalidOrder
	}
	seen := make([]bool, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= len(order) || seen[idx] {
			s.mu.Unlock()
			return nil, ErrInvalidOrder
		}
		seen[idx] = true
	}
	reordered := make([]Song, 0, len(order))
	for _, idx := range order {
		reordered = append(reordered, pl.Songs[idx])
	}
	pl.Songs = reordered
	pl.UpdatedAt = s.now()
	out := pl.clone()
	snap, version := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, snap, version)
	return out, nil
}

// Search matches the query case-insensitively against name or description.
// An empty query matches everything.
func (s *Store) Search(query string) []*Playlist {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Playlist{}
	for _, pl := range s.playlists {
		if strings.Contains(strings.ToLower(pl.Name), q) ||
			strings.Contains(strings.ToLower(pl.Description), q) {
			out = append(out, pl.clone())
		}
	}
	return out
}

// Stats aggregates over the live collection; nothing here is cached.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{TotalPlaylists: len(s.playlists)}
	for _, pl := range s.playlists {
		st.TotalSongs += len(pl.Songs)
		st.TotalDurationSeconds += pl.TotalDuration
	}
	st.TotalDurationFormatted = formatClock(st.TotalDurationSeconds)
	return st
}

// Recent returns playlists ordered by UpdatedAt descending, truncated to
// limit. Ties keep store-native order.
func (s *Store) Recent(limit int) []*Playlist {
	all := s.List()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
