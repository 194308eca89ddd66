package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Rpoore10/health-hire/internal/database"
	"github.com/Rpoore10/health-hire/internal/docstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store keeps documents in a single JSONB table keyed (collection, id).
type Store struct {
	db  database.DB
	now func() time.Time
}

func NewStore(db database.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (docstore.Fields, error) {
	var raw []byte
	row := s.db.QueryRow(ctx,
		`SELECT fields FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}

	var fields docstore.Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// SetDocument upserts the full field set. An existing createdAt survives the
// overwrite, so two racing first writes cannot regress it.
func (s *Store) SetDocument(ctx context.Context, collection, id string, fields docstore.Fields) error {
	raw, err := json.Marshal(docstore.ResolveServerTimestamps(fields, s.now()))
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (collection, id, fields) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET fields =
		 CASE WHEN documents.fields ? 'createdAt'
		      THEN excluded.fields || jsonb_build_object('createdAt', documents.fields->'createdAt')
		      ELSE excluded.fields
		 END`,
		collection, id, raw,
	)
	return err
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, fields docstore.Fields) error {
	raw, err := json.Marshal(docstore.ResolveServerTimestamps(fields, s.now()))
	if err != nil {
		return err
	}

	affected, err := s.db.Exec(ctx,
		`UPDATE documents SET fields = fields || $3 WHERE collection = $1 AND id = $2`,
		collection, id, raw,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) InsertDocument(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	id := uuid.NewString()

	raw, err := json.Marshal(docstore.ResolveServerTimestamps(fields, s.now()))
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (collection, id, fields) VALUES ($1, $2, $3)`,
		collection, id, raw,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}
