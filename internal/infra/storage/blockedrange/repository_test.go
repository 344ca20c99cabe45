package blockedrange

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

var testDate = time.Date(2030, time.June, 3, 0, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO blocked_ranges").
		WithArgs(int64(2), "2030-06-03", "12:00", "13:00", "lunch").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))

	br, err := repo.Create(context.Background(), &domain.BlockedRange{
		TenantID:  2,
		Date:      testDate,
		StartTime: "12:00",
		EndTime:   "13:00",
		Reason:    "lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), br.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("DELETE FROM blocked_ranges WHERE id = \\$1 AND tenant_id = \\$2").
		WithArgs(int64(11), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 2, 11)
	assert.ErrorIs(t, err, ErrRangeNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByDate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM blocked_ranges WHERE range_date = \\$1 AND tenant_id = \\$2 ORDER BY start_time ASC").
		WithArgs("2030-06-03", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "range_date", "start_time", "end_time", "reason", "created_at"}).
			AddRow(int64(11), int64(2), testDate, "12:00:00", "13:00:00", "lunch", now))

	ranges, err := repo.ListByDate(context.Background(), 2, testDate)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, "12:00", ranges[0].StartTime.String())
	assert.True(t, ranges[0].IsValid())
	require.NoError(t, mock.ExpectationsWereMet())
}
