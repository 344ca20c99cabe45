package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

func newManager(t *testing.T) (*TransactionManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTransactionManager(dbmetrics.Wrap(db, nil)), mock
}

func TestDo_Commit(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err := m.Do(context.Background(), func(ctx context.Context) error {
		called = true
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_RollbackOnError(t *testing.T) {
	m, mock := newManager(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoReadOnly(ctx, func(inner context.Context) error {
			outer, _ := dbmetrics.TxFromContext(ctx)
			nested, _ := dbmetrics.TxFromContext(inner)
			assert.Same(t, outer, nested)
			return nil
		})
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_BeginFailure(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := m.Do(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run without a transaction")
		return nil
	})

	assert.ErrorIs(t, err, ErrTransaction)
	require.NoError(t, mock.ExpectationsWereMet())
}
