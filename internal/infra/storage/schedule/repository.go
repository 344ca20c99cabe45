package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// Repository репозиторий расписаний тенантов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTenant получает расписание тенанта
// Отсутствие расписания - валидное состояние для нового тенанта, возвращается ErrConfigNotFound
func (r *Repository) GetByTenant(ctx context.Context, tenantID int64) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"working_days",
		"start_time",
		"end_time",
		"slot_duration_minutes",
		"min_advance_hours",
		"max_advance_days",
		"timezone",
		"created_at",
		"updated_at",
	).
		From("schedule_configs").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %v", ErrBuildQuery, err)
	}

	var (
		config      domain.ScheduleConfig
		workingDays pq.Int64Array
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.TenantID,
		&workingDays,
		&config.StartTime,
		&config.EndTime,
		&config.SlotDurationMinutes,
		&config.MinAdvanceHours,
		&config.MaxAdvanceDays,
		&config.Timezone,
		&config.CreatedAt,
		&config.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - scan config: %v", ErrScanRow, err)
	}

	config.WorkingDays = toWeekdays(workingDays)

	return &config, nil
}

// Upsert создает или полностью заменяет расписание тенанта
func (r *Repository) Upsert(ctx context.Context, config *domain.ScheduleConfig) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_configs").
		Columns(
			"tenant_id",
			"working_days",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"min_advance_hours",
			"max_advance_days",
			"timezone",
		).
		Values(
			config.TenantID,
			fromWeekdays(config.WorkingDays),
			config.StartTime,
			config.EndTime,
			config.SlotDurationMinutes,
			config.MinAdvanceHours,
			config.MaxAdvanceDays,
			config.Timezone,
		).
		Suffix(`ON CONFLICT (tenant_id) DO UPDATE SET
			working_days = EXCLUDED.working_days,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			min_advance_hours = EXCLUDED.min_advance_hours,
			max_advance_days = EXCLUDED.max_advance_days,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}

func toWeekdays(days pq.Int64Array) []time.Weekday {
	result := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		result = append(result, time.Weekday(d))
	}
	return result
}

func fromWeekdays(days []time.Weekday) pq.Int64Array {
	result := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		result = append(result, int64(d))
	}
	return result
}
