package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres stores each collection as a JSONB row in a single table. It uses
// database/sql with parameterized queries only; schema setup lives in
// internal/database/migration.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

func (p *Postgres) Get(ctx context.Context, collection string) ([]byte, error) {
	const q = `SELECT data FROM collections WHERE name = $1`
	var data []byte
	if err := p.db.QueryRowContext(ctx, q, collection).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blob: select %s: %w", collection, err)
	}
	return data, nil
}

func (p *Postgres) Put(ctx context.Context, collection string, data []byte) error {
	const q = `
		INSERT INTO collections (name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`
	if _, err := p.db.ExecContext(ctx, q, collection, data); err != nil {
		return fmt.Errorf("blob: upsert %s: %w", collection, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection string) error {
	const q = `DELETE FROM collections WHERE name = $1`
	if _, err := p.db.ExecContext(ctx, q, collection); err != nil {
		return fmt.Errorf("blob: delete %s: %w", collection, err)
	}
	return nil
}
