package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const trackingTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(255) PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrator applies the numbered SQL files of a directory exactly once each
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// migration is one SQL file keyed by the prefix before its first underscore
type migration struct {
	version string
	name    string
}

func migrationVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")
	return version
}

// listMigrations returns the .sql files at the root of fsys in name order
func listMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	out := make([]migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		out = append(out, migration{version: migrationVersion(e.Name()), name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// pending drops the migrations whose version is already recorded
func pending(all []migration, applied map[string]bool) []migration {
	out := all[:0:0]
	for _, m := range all {
		if !applied[m.version] {
			out = append(out, m)
		}
	}
	return out
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// apply runs one file and records its version in the same transaction, so a
// failed file is retried on the next start
func (m *Migrator) apply(ctx context.Context, fsys fs.FS, mig migration) error {
	content, err := fs.ReadFile(fsys, mig.name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	return pgx.BeginFunc(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error executing migration: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.version); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
}

// Migrate applies every pending migration of fsys in name order
func (m *Migrator) Migrate(ctx context.Context, fsys fs.FS) error {
	if _, err := m.db.Exec(ctx, trackingTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	all, err := listMigrations(fsys)
	if err != nil {
		return err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	todo := pending(all, applied)
	for _, mig := range todo {
		if err := m.apply(ctx, fsys, mig); err != nil {
			return fmt.Errorf("migration %s: %w", mig.name, err)
		}
		m.logger.Info().Str("file", mig.name).Msg("Migration applied")
	}
	m.logger.Info().Int("applied", len(todo)).Int("total", len(all)).Msg("Database schema up to date")
	return nil
}

// MigrateFromDirectory applies the pending migrations found in dirPath
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	return m.Migrate(ctx, os.DirFS(dirPath))
}
