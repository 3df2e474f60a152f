package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestBackend_Load_Success(t *testing.T) {
	mock := newMock(t)
	b := New(mock, database.QueryTracer{})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data")).
		WithArgs("storefront:s1:cart").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow([]byte(`{"items":[]}`)))

	got, err := b.Load(context.Background(), "storefront:s1:cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_Load_NotFound(t *testing.T) {
	mock := newMock(t)
	b := New(mock, database.QueryTracer{})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data")).
		WithArgs("storefront:s1:cart").
		WillReturnError(pgx.ErrNoRows)

	_, err := b.Load(context.Background(), "storefront:s1:cart")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_Load_QueryError(t *testing.T) {
	mock := newMock(t)
	b := New(mock, database.QueryTracer{})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data")).
		WithArgs("storefront:s1:cart").
		WillReturnError(errors.New("connection reset"))

	_, err := b.Load(context.Background(), "storefront:s1:cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "load state storefront:s1:cart")
}

func TestBackend_Save_Upserts(t *testing.T) {
	mock := newMock(t)
	b := New(mock, database.QueryTracer{})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO storefront_state")).
		WithArgs("storefront:s1:filters", []byte(`{"sort_by":"rating"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, b.Save(context.Background(), "storefront:s1:filters", []byte(`{"sort_by":"rating"}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_Save_Error(t *testing.T) {
	mock := newMock(t)
	b := New(mock, database.QueryTracer{})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO storefront_state")).
		WithArgs("k", []byte("v")).
		WillReturnError(errors.New("disk full"))

	err := b.Save(context.Background(), "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestBackend_Delete(t *testing.T) {
	mock := newMock(t)
	b := New(mock, database.QueryTracer{})

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM storefront_state")).
		WithArgs("k").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, b.Delete(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
