package blobstore

import (
	"context"

	"docflow/internal/blob"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// Users is the blob-backed implementation of repository.UserRepository.
type Users struct {
	c collection[model.User]
}

// NewUsers builds a user repository over the given store.
func NewUsers(store blob.Store) *Users {
	return &Users{c: collection[model.User]{
		store: store,
		name:  blob.CollectionUsers,
		id:    func(u *model.User) string { return u.ID },
	}}
}

var _ repository.UserRepository = (*Users)(nil)

func (r *Users) List(ctx context.Context) ([]model.User, error) {
	return r.c.load(ctx)
}

func (r *Users) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.c.findByID(ctx, id)
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.c.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			user := users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) Create(ctx context.Context, user *model.User) (*model.User, error) {
	return r.c.create(ctx, user)
}
