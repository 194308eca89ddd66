// Package docstore defines the document-store boundary: documents are
// schemaless field maps addressed by collection and id. Writes may carry a
// server-timestamp sentinel that the backing store resolves against its own
// clock at write time.
package docstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Fields map[string]any

type Store interface {
	// GetDocument returns the fields of collection/id, or ErrNotFound.
	GetDocument(ctx context.Context, collection, id string) (Fields, error)
	// SetDocument writes the full field set of collection/id, creating the
	// document if it does not exist.
	SetDocument(ctx context.Context, collection, id string, fields Fields) error
	// UpdateDocument merges fields into an existing document, or ErrNotFound.
	UpdateDocument(ctx context.Context, collection, id string, fields Fields) error
	// InsertDocument adds a new document with a generated id and returns it.
	InsertDocument(ctx context.Context, collection string, fields Fields) (string, error)
}

type serverTimestamp struct{}

// ServerTimestamp returns a sentinel resolved to the store's write-time
// clock, not the caller's.
func ServerTimestamp() any {
	return serverTimestamp{}
}

func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// ResolveServerTimestamps returns a copy of fields with every sentinel
// replaced by now in UTC. Store adapters call this at write time.
func ResolveServerTimestamps(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if IsServerTimestamp(v) {
			out[k] = now.UTC()
			continue
		}
		out[k] = v
	}
	return out
}
