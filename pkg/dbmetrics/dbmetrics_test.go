package dbmetrics

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationName(t *testing.T) {
	cases := map[string]string{
		"SELECT id FROM bookings WHERE id = $1":              "select bookings",
		"INSERT INTO blocked_ranges (tenant_id) VALUES ($1)": "insert blocked_ranges",
		"UPDATE bookings SET status = $1":                    "update bookings",
		"DELETE FROM blocked_ranges WHERE id = $1":           "delete blocked_ranges",
		"SELECT pg_advisory_xact_lock($1)":                   "select",
		"":                                                   "unknown",
	}
	for query, want := range cases {
		assert.Equal(t, want, operationName(query), query)
	}
}

func TestGetExecutor_PrefersTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wrapped := Wrap(db, nil)
	ctx := context.Background()

	assert.Same(t, wrapped, GetExecutor(ctx, wrapped))
	assert.False(t, IsInTransaction(ctx))

	mock.ExpectBegin()
	tx, err := wrapped.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, wrapped))

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}
