package library

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the collection as a single JSON document keyed by
// playlist id. Saves go through a temp file plus rename so a crash mid-write
// cannot truncate the previous document.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) (map[string]*Playlist, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]*Playlist{}, nil
	}
	if err != nil {
		return nil, err
	}
	playlists := map[string]*Playlist{}
	if err := json.Unmarshal(data, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (f *FileStore) Save(_ context.Context, playlists map[string]*Playlist) error {
	data, err := json.MarshalIndent(playlists, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".playlists-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
