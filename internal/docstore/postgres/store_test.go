package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Rpoore10/health-hire/internal/database"
	"github.com/Rpoore10/health-hire/internal/docstore"
)

type execCall struct {
	query string
	args  []any
}

type fakeDB struct {
	execs        []execCall
	execAffected int64
	execErr      error

	rowRaw []byte
	rowErr error
}

func (f *fakeDB) Ping(ctx context.Context) error { return nil }
func (f *fakeDB) Close() error                   { return nil }
func (f *fakeDB) SQLDB() *sql.DB                 { return nil }

func (f *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	f.execs = append(f.execs, execCall{query: query, args: args})
	return f.execAffected, f.execErr
}

func (f *fakeDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return fakeRow{raw: f.rowRaw, err: f.rowErr}
}

type fakeRow struct {
	raw []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	p, ok := dest[0].(*[]byte)
	if !ok {
		return errors.New("unexpected scan dest")
	}
	*p = r.raw
	return nil
}

func newTestStore(db *fakeDB, now time.Time) *Store {
	s := NewStore(db)
	s.now = func() time.Time { return now }
	return s
}

func TestGetDocument(t *testing.T) {
	db := &fakeDB{rowRaw: []byte(`{"email":"a@b.co","orgName":null}`)}
	s := newTestStore(db, time.Now())

	fields, err := s.GetDocument(context.Background(), "employers", "u1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fields["email"] != "a@b.co" {
		t.Fatalf("email = %v", fields["email"])
	}
	if v, ok := fields["orgName"]; !ok || v != nil {
		t.Fatalf("orgName = %v (present=%v)", v, ok)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	db := &fakeDB{rowErr: sql.ErrNoRows}
	s := newTestStore(db, time.Now())

	_, err := s.GetDocument(context.Background(), "employers", "missing")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetDocument_ResolvesServerTimestamps(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{}
	s := newTestStore(db, now)

	err := s.SetDocument(context.Background(), "employers", "u1", docstore.Fields{
		"email":     "a@b.co",
		"createdAt": docstore.ServerTimestamp(),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(db.execs) != 1 {
		t.Fatalf("expected 1 exec, got %d", len(db.execs))
	}

	call := db.execs[0]
	if !strings.Contains(call.query, "ON CONFLICT (collection, id)") {
		t.Fatalf("set must upsert, query: %s", call.query)
	}
	if call.args[0] != "employers" || call.args[1] != "u1" {
		t.Fatalf("args = %v", call.args[:2])
	}

	var stored map[string]any
	if err := json.Unmarshal(call.args[2].([]byte), &stored); err != nil {
		t.Fatalf("stored fields not valid JSON: %v", err)
	}
	ts, _ := stored["createdAt"].(string)
	got, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("createdAt not a timestamp: %v", stored["createdAt"])
	}
	if !got.Equal(now) {
		t.Fatalf("createdAt = %v, want %v", got, now)
	}
}

func TestSetDocument_PreservesExistingCreatedAtInSQL(t *testing.T) {
	db := &fakeDB{}
	s := newTestStore(db, time.Now())

	if err := s.SetDocument(context.Background(), "employers", "u1", docstore.Fields{"email": "a@b.co"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	q := db.execs[0].query
	if !strings.Contains(q, "documents.fields ? 'createdAt'") {
		t.Fatalf("upsert must keep an existing createdAt, query: %s", q)
	}
}

func TestUpdateDocument_NotFound(t *testing.T) {
	db := &fakeDB{execAffected: 0}
	s := newTestStore(db, time.Now())

	err := s.UpdateDocument(context.Background(), "employers", "missing", docstore.Fields{"updatedAt": docstore.ServerTimestamp()})
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDocument_MergesFields(t *testing.T) {
	db := &fakeDB{execAffected: 1}
	s := newTestStore(db, time.Now())

	if err := s.UpdateDocument(context.Background(), "employers", "u1", docstore.Fields{"orgName": "Mercy West"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(db.execs[0].query, "fields = fields || $3") {
		t.Fatalf("update must merge, not replace: %s", db.execs[0].query)
	}
}

func TestInsertDocument_GeneratesID(t *testing.T) {
	db := &fakeDB{execAffected: 1}
	s := newTestStore(db, time.Now())

	id, err := s.InsertDocument(context.Background(), "jobs", docstore.Fields{"title": "ICU RN"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}
	if db.execs[0].args[1] != id {
		t.Fatalf("insert must use returned id, args: %v", db.execs[0].args)
	}
}

func TestInsertDocument_Error(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection reset")}
	s := newTestStore(db, time.Now())

	if _, err := s.InsertDocument(context.Background(), "jobs", docstore.Fields{"title": "ICU RN"}); err == nil {
		t.Fatal("expected error")
	}
}
