package blobstore

import (
	"context"

	"docflow/internal/blob"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// Tasks is the blob-backed implementation of repository.TaskRepository.
type Tasks struct {
	c collection[model.Task]
}

// NewTasks builds a task repository over the given store.
func NewTasks(store blob.Store) *Tasks {
	return &Tasks{c: collection[model.Task]{
		store: store,
		name:  blob.CollectionTasks,
		id:    func(t *model.Task) string { return t.ID },
	}}
}

var _ repository.TaskRepository = (*Tasks)(nil)

func (r *Tasks) List(ctx context.Context) ([]model.Task, error) {
	return r.c.load(ctx)
}

func (r *Tasks) FindByID(ctx context.Context, id string) (*model.Task, error) {
	return r.c.findByID(ctx, id)
}

func (r *Tasks) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	return r.c.create(ctx, task)
}

func (r *Tasks) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	return r.c.update(ctx, task)
}

func (r *Tasks) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}
