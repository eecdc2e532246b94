package blobstore

import (
	"context"

	"docflow/internal/blob"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// Documents is the blob-backed implementation of repository.DocumentRepository.
type Documents struct {
	c collection[model.Document]
}

// NewDocuments builds a document repository over the given store.
func NewDocuments(store blob.Store) *Documents {
	return &Documents{c: collection[model.Document]{
		store: store,
		name:  blob.CollectionDocuments,
		id:    func(d *model.Document) string { return d.ID },
	}}
}

var _ repository.DocumentRepository = (*Documents)(nil)

func (r *Documents) List(ctx context.Context) ([]model.Document, error) {
	return r.c.load(ctx)
}

func (r *Documents) FindByID(ctx context.Context, id string) (*model.Document, error) {
	return r.c.findByID(ctx, id)
}

func (r *Documents) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	return r.c.create(ctx, doc)
}

func (r *Documents) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	return r.c.update(ctx, doc)
}

func (r *Documents) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}
