// Package blobstore implements the repository contracts on top of a
// blob.Store: each collection is one JSON array (or object) decoded in full,
// mutated in memory, and written back in full.
package blobstore

import (
	"context"
	"encoding/json"
	"fmt"

	"docflow/internal/blob"
	"docflow/internal/repository"
)

// collection handles load/save of one named JSON-array collection.
type collection[T any] struct {
	store blob.Store
	name  string
	id    func(*T) string
}

// load decodes the whole collection. An absent collection is an empty one;
// an undecodable payload maps to repository.ErrCorruptData.
func (c collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.name)
	if err != nil {
		if err == blob.ErrNotFound {
			return []T{}, nil
		}
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrCorruptData, c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	return c.store.Put(ctx, c.name, data)
}

// indexOf returns the position of the record with the given id, or -1.
func (c collection[T]) indexOf(items []T, id string) int {
	for i := range items {
		if c.id(&items[i]) == id {
			return i
		}
	}
	return -1
}

// findByID loads the collection and returns a copy of the matching record.
func (c collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	i := c.indexOf(items, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	item := items[i]
	return &item, nil
}

// create appends the record and persists the collection.
func (c collection[T]) create(ctx context.Context, item *T) (*T, error) {
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	items = append(items, *item)
	if err := c.save(ctx, items); err != nil {
		return nil, err
	}
	stored := *item
	return &stored, nil
}

// update replaces the record with the same id and persists the collection.
func (c collection[T]) update(ctx context.Context, item *T) (*T, error) {
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	i := c.indexOf(items, c.id(item))
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	items[i] = *item
	if err := c.save(ctx, items); err != nil {
		return nil, err
	}
	stored := items[i]
	return &stored, nil
}

// delete removes the record by id and persists the collection.
func (c collection[T]) delete(ctx context.Context, id string) error {
	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	i := c.indexOf(items, id)
	if i < 0 {
		return repository.ErrNotFound
	}
	items = append(items[:i], items[i+1:]...)
	return c.save(ctx, items)
}
