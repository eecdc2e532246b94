package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"docflow/internal/blob"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// Preferences stores per-user preferences as one JSON object keyed by user id.
type Preferences struct {
	store blob.Store
}

// NewPreferences builds a preferences repository over the given store.
func NewPreferences(store blob.Store) *Preferences {
	return &Preferences{store: store}
}

var _ repository.PreferencesRepository = (*Preferences)(nil)

func (r *Preferences) load(ctx context.Context) (map[string]model.Preferences, error) {
	data, err := r.store.Get(ctx, blob.CollectionPreferences)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return map[string]model.Preferences{}, nil
		}
		return nil, err
	}
	var all map[string]model.Preferences
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrCorruptData, blob.CollectionPreferences, err)
	}
	if all == nil {
		all = map[string]model.Preferences{}
	}
	return all, nil
}

func (r *Preferences) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	prefs, ok := all[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &prefs, nil
}

func (r *Preferences) Put(ctx context.Context, userID string, prefs model.Preferences) error {
	all, err := r.load(ctx)
	if err != nil {
		return err
	}
	all[userID] = prefs
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode %s: %w", blob.CollectionPreferences, err)
	}
	return r.store.Put(ctx, blob.CollectionPreferences, data)
}
