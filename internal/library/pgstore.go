package library

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the Postgres persistence uses. Tests
// substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PGStore keeps the collection in Postgres, one row per playlist with the
// record serialized into a document column. Save replaces the whole table in
// a transaction, preserving the write-through overwrite semantics of the
// file backend.
type PGStore struct {
	db DB
}

func NewPGStore(ctx context.Context, db DB) (*PGStore, error) {
	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS playlists(
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL
	)`)
	if err != nil {
		return nil, err
	}
	return &PGStore{db: db}, nil
}

func (p *PGStore) Load(ctx context.Context) (map[string]*Playlist, error) {
	rows, err := p.db.Query(ctx, `SELECT id, doc FROM playlists`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := map[string]*Playlist{}
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var pl Playlist
		if err := json.Unmarshal(doc, &pl); err != nil {
			return nil, err
		}
		playlists[id] = &pl
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (p *PGStore) Save(ctx context.Context, playlists map[string]*Playlist) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM playlists`); err != nil {
		return err
	}
	for id, pl := range playlists {
		doc, err := json.Marshal(pl)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO playlists (id, doc) VALUES ($1, $2)`, id, doc); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
