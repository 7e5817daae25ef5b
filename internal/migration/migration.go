// Package migration applies the embedded SQL schema files and records them in
// schema_migrations.
package migration

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	dropAllFile      = "000_drop_all.sql"
	consolidatedFile = "000_consolidated.sql"
	upSuffix         = ".up.sql"
)

// DB is the subset of *pgxpool.Pool the runner needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Runner applies migrations read from fsys.
type Runner struct {
	db   DB
	fsys fs.FS
}

// New creates a Runner. fsys must contain the *.up.sql files at its root.
func New(db DB, fsys fs.FS) *Runner {
	return &Runner{db: db, fsys: fsys}
}

// UpFiles は .up.sql ファイル名をソート済みで返す
func (r *Runner) UpFiles() ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), upSuffix) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) ensureSchemaMigrations(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// Incremental applies every migration not yet recorded and returns how many ran.
func (r *Runner) Incremental(ctx context.Context) (int, error) {
	if err := r.ensureSchemaMigrations(ctx); err != nil {
		return 0, err
	}

	upFiles, err := r.UpFiles()
	if err != nil {
		return 0, err
	}

	applied := 0
	for i, filename := range upFiles {
		name := strings.TrimSuffix(filename, upSuffix)

		var exists bool
		if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		sql, err := fs.ReadFile(r.fsys, filename)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.Exec(ctx, string(sql)); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := r.db.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", name, err)
		}
		applied++
		slog.Info("migration completed", "number", i+1, "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
	return applied, nil
}

// Pending は未適用のマイグレーション名を返す
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	if err := r.ensureSchemaMigrations(ctx); err != nil {
		return nil, err
	}
	upFiles, err := r.UpFiles()
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, filename := range upFiles {
		name := strings.TrimSuffix(filename, upSuffix)
		var exists bool
		if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check migration %s: %w", name, err)
		}
		if !exists {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// DropAll drops every table, schema_migrations included.
func (r *Runner) DropAll(ctx context.Context) error {
	slog.Info("dropping all tables")
	if err := r.execFile(ctx, dropAllFile); err != nil {
		return err
	}
	slog.Info("all tables dropped")
	return nil
}

// Consolidated recreates the schema from the single consolidated file and
// marks every incremental migration as applied.
func (r *Runner) Consolidated(ctx context.Context) (int, error) {
	slog.Info("applying consolidated schema")
	if err := r.execFile(ctx, consolidatedFile); err != nil {
		return 0, err
	}

	// 全マイグレーションを適用済みとして記録
	if err := r.ensureSchemaMigrations(ctx); err != nil {
		return 0, err
	}
	upFiles, err := r.UpFiles()
	if err != nil {
		return 0, err
	}
	for _, filename := range upFiles {
		name := strings.TrimSuffix(filename, upSuffix)
		if _, err := r.db.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name); err != nil {
			return 0, fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	slog.Info("consolidated schema applied", "migrations_marked", len(upFiles))
	return len(upFiles), nil
}

func (r *Runner) execFile(ctx context.Context, name string) error {
	sql, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if _, err := r.db.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("exec %s: %w", name, err)
	}
	return nil
}
