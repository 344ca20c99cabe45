package blockedrange

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// Repository репозиторий заблокированных интервалов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый заблокированный интервал
func (r *Repository) Create(ctx context.Context, br *domain.BlockedRange) (*domain.BlockedRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_ranges").
		Columns("tenant_id", "range_date", "start_time", "end_time", "reason").
		Values(br.TenantID, br.Date.Format(domain.DateFormat), br.StartTime, br.EndTime, br.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&br.ID, &br.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return br, nil
}

// Delete удаляет заблокированный интервал тенанта
func (r *Repository) Delete(ctx context.Context, tenantID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_ranges").
		Where(squirrel.Eq{"tenant_id": tenantID, "id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRangeNotFound
	}

	return nil
}

// ListByDate возвращает заблокированные интервалы тенанта на дату, по времени начала
func (r *Repository) ListByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.BlockedRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"range_date",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).
		From("blocked_ranges").
		Where(squirrel.Eq{"tenant_id": tenantID, "range_date": date.Format(domain.DateFormat)}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ranges := make([]*domain.BlockedRange, 0)
	for rows.Next() {
		var br domain.BlockedRange
		if err := rows.Scan(&br.ID, &br.TenantID, &br.Date, &br.StartTime, &br.EndTime, &br.Reason, &br.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %v", ErrScanRow, err)
		}
		ranges = append(ranges, &br)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %v", ErrScanRow, err)
	}

	return ranges, nil
}
