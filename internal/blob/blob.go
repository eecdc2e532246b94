// Package blob persists whole collections as opaque JSON payloads keyed by
// name. It is the narrow seam between the record stores and whatever actually
// holds the data, so backends (files, Postgres, a remote API) can be swapped
// without touching store logic.
package blob

import (
	"context"
	"errors"
)

// Well-known collection names.
const (
	CollectionUsers       = "users"
	CollectionDocuments   = "documents"
	CollectionTasks       = "tasks"
	CollectionPreferences = "preferences"
)

// ErrNotFound is returned by Get when the collection has never been written.
var ErrNotFound = errors.New("blob: collection not found")

// Store reads and writes collections as single payloads. Writes replace the
// whole collection; there is no record-level addressing and no transaction
// spanning two collections. Callers perform read-modify-write cycles, so
// concurrent writers follow last-write-wins semantics.
type Store interface {
	// Get returns the stored payload for the collection, or ErrNotFound.
	Get(ctx context.Context, collection string) ([]byte, error)
	// Put stores the payload, replacing any previous contents.
	Put(ctx context.Context, collection string, data []byte) error
	// Delete removes the collection. Deleting an absent collection is not an error.
	Delete(ctx context.Context, collection string) error
}
