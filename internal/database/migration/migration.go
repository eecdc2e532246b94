package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_collections",
		SQL: `CREATE TABLE IF NOT EXISTS collections (
  name       TEXT        PRIMARY KEY,
  data       JSONB       NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_collections_updated_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_collections_updated_at ON collections (updated_at);`,
	},
}

// EnsureMigrated checks for the collections table and runs the schema steps
// when it is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()

	log.Info("checking database schema", "db_host", dbHost)

	var exists bool
	query := "SELECT to_regclass('public.collections') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("schema check failed",
			"db_host", dbHost,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			"db_host", dbHost,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed",
				"migration_step", step.Name,
				"db_host", dbHost,
				"error", err,
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("migration step applied",
			"migration_step", step.Name,
			"db_host", dbHost,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("database migrated",
		"db_host", dbHost,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
