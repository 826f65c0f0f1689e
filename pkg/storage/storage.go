// Package storage persists radar documents for the HTTP API.
//
// Backends implement [Store]:
//   - [MemoryStore]: in-process map for development and tests
//   - [FileStore]: one JSON file per radar under a directory
//   - [MongoStore]: a MongoDB collection for multi-instance deployments
//
// Records are addressed by a UUID assigned on [Store.Create]. Lookups of
// unknown ids fail with a NOT_FOUND error, so callers can map them to a
// 404 with [errors.Is].
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/errors"
)

// Record is a stored radar document.
type Record struct {
	ID        string             `json:"id" bson:"_id"`
	Document  *document.Document `json:"document" bson:"document"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for radar document backends.
type Store interface {
	// Create stores doc under a new id and returns the record.
	Create(ctx context.Context, doc *document.Document) (*Record, error)

	// Put replaces the document of an existing record.
	Put(ctx context.Context, id string, doc *document.Document) (*Record, error)

	// Get returns the record with id.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes the record with id.
	Delete(ctx context.Context, id string) error

	// List returns all records ordered by creation time.
	List(ctx context.Context) ([]*Record, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a random record id.
func NewID() string {
	return uuid.NewString()
}

// ValidateID rejects ids that are not UUIDs. Stores call it before touching
// the backend, so malformed ids never reach a file path or a query.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid radar id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "radar %s not found", id)
}

func newRecord(doc *document.Document, now time.Time) (*Record, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no document")
	}
	return &Record{ID: NewID(), Document: doc, CreatedAt: now, UpdatedAt: now}, nil
}
