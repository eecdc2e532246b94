package repository

import (
	"context"

	"docflow/internal/model"
)

// DocumentRepository defines data access for document records.
// Every mutation is a whole-collection read-modify-write; callers own
// timestamps and id assignment.
type DocumentRepository interface {
	// List returns the full collection in storage order.
	List(ctx context.Context) ([]model.Document, error)

	// FindByID returns the document with the given id or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// Create appends the document and returns the stored copy.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Update replaces the record with the same id, or returns ErrNotFound.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes the record by id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines data access for task records with the same
// whole-collection contract as DocumentRepository.
type TaskRepository interface {
	List(ctx context.Context) ([]model.Task, error)
	FindByID(ctx context.Context, id string) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}
