package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// isConnectionError reports whether err looks like a transient connection
// problem rather than a SQL error. Only connection errors are retried.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"dial tcp",
		"EOF",
		"server closed the connection unexpectedly",
		"could not connect",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// RunMigrations applies every *.up.sql file at the root of migrations in
// lexical order. Applied versions are tracked in schema_migrations and
// skipped on later runs; each file runs in its own transaction.
func RunMigrations(ctx context.Context, db DBTX, migrations fs.FS, logger *slog.Logger) error {
	var err error
	for attempt := 0; attempt < connectAttempts; attempt++ {
		if attempt > 0 {
			wait := retryBackoff(attempt - 1)
			logger.WarnContext(ctx, "migration failed due to connection error, retrying",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()),
			)
			if serr := sleepCtx(ctx, wait); serr != nil {
				return fmt.Errorf("run migrations: %w", serr)
			}
		}
		if err = migrateOnce(ctx, db, migrations, logger); err == nil || !isConnectionError(err) {
			return err
		}
	}
	return fmt.Errorf("run migrations after %d attempts: %w", connectAttempts, err)
}

func migrateOnce(ctx context.Context, db DBTX, migrations fs.FS, logger *slog.Logger) error {
	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		var applied bool
		if err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", name).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			logger.DebugContext(ctx, "migration already applied", slog.String("version", name))
			continue
		}

		content, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		start := time.Now()
		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx for migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}

		logger.InfoContext(ctx, "migration applied",
			slog.String("version", name),
			slog.Duration("duration", time.Since(start)),
		)
	}

	return nil
}
