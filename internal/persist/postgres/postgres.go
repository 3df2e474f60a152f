// Package postgres stores state blobs in the storefront_state table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const (
	loadQuery = `
		SELECT data
		FROM storefront_state
		WHERE state_key = $1`

	saveQuery = `
		INSERT INTO storefront_state (state_key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (state_key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

	deleteQuery = `
		DELETE FROM storefront_state
		WHERE state_key = $1`
)

// Backend implements persist.Backend using PostgreSQL.
type Backend struct {
	db     database.DBTX
	tracer database.QueryTracer
}

// New creates a PostgreSQL-backed state backend.
func New(db database.DBTX, tracer database.QueryTracer) *Backend {
	return &Backend{db: db, tracer: tracer}
}

// Load retrieves the blob stored under key.
func (b *Backend) Load(ctx context.Context, key string) (data []byte, err error) {
	ctx, end := b.tracer.Trace(ctx, "LoadState", loadQuery)
	defer func() { end(err) }()

	if err = b.db.QueryRow(ctx, loadQuery, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("state", key)
		}
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}
	return data, nil
}

// Save upserts data under key.
func (b *Backend) Save(ctx context.Context, key string, data []byte) (err error) {
	ctx, end := b.tracer.Trace(ctx, "SaveState", saveQuery)
	defer func() { end(err) }()

	if _, err = b.db.Exec(ctx, saveQuery, key, data); err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (b *Backend) Delete(ctx context.Context, key string) (err error) {
	ctx, end := b.tracer.Trace(ctx, "DeleteState", deleteQuery)
	defer func() { end(err) }()

	if _, err = b.db.Exec(ctx, deleteQuery, key); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}
