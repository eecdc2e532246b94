// Package repository defines data access contracts for the persisted
// collections. Implementations live in subpackages (blobstore today, a real
// database tomorrow) and contain no business logic: sorting, filtering and
// timestamp rules belong to the service layer.
package repository

import "errors"

var (
	// ErrNotFound means no record with the given key exists in the collection.
	ErrNotFound = errors.New("record not found")

	// ErrCorruptData means the persisted collection payload could not be
	// decoded. Stores treat this as an empty collection rather than failing
	// the whole request.
	ErrCorruptData = errors.New("corrupt collection data")
)
