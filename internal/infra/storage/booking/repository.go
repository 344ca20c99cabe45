package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"tenant_id",
	"service_id",
	"booking_date",
	"start_time",
	"duration_minutes",
	"status",
	"customer_name",
	"customer_phone",
	"customer_email",
	"notes",
	"idempotency_key",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// AdvisoryKey ключ транзакционной advisory-блокировки для пары (тенант, дата)
// Младшие 20 бит - номер дня от эпохи, остальные - тенант
// Коллизия ключей только сериализует лишние коммиты, но не нарушает корректность
func AdvisoryKey(tenantID int64, date time.Time) int64 {
	y, m, d := date.Date()
	epochDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return tenantID<<20 | epochDay&0xFFFFF
}

// LockTenantDate берёт pg_advisory_xact_lock на (тенант, дата)
// Блокировка снимается при завершении транзакции, поэтому вызывать только внутри неё
func (r *Repository) LockTenantDate(ctx context.Context, tenantID int64, date time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: LockTenantDate", ErrTransaction)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", AdvisoryKey(tenantID, date)); err != nil {
		return fmt.Errorf("%w: LockTenantDate - acquire lock: %v", classify(err), err)
	}

	return nil
}

// Create создает новое бронирование
// Нарушение exclusion constraint на пересечение активных интервалов возвращается как ErrSlotTaken
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tenant_id",
			"service_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"start_minute",
			"end_minute",
			"status",
			"customer_name",
			"customer_phone",
			"customer_email",
			"notes",
			"idempotency_key",
		).
		Values(
			booking.TenantID,
			booking.ServiceID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.DurationMinutes,
			booking.StartMinute(),
			booking.EndMinute(),
			booking.Status,
			booking.Customer.Name,
			booking.Customer.Phone,
			booking.Customer.Email,
			booking.Customer.Notes,
			booking.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", classify(err), err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование тенанта по ID
// Бронирование другого тенанта не отличается от отсутствующего
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tenant_id": tenantID, "id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListActiveByDate возвращает активные (pending, confirmed) бронирования тенанта на дату
// Внутри транзакции READ COMMITTED после LockTenantDate видит все ранее зафиксированные коммиты
func (r *Repository) ListActiveByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"tenant_id":    tenantID,
			"booking_date": date.Format(domain.DateFormat),
			"status":       activeStatusStrings(),
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDate - execute query: %v", classify(err), err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveByDate - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDate - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// CountActiveByDateRange считает активные бронирования тенанта по дням в диапазоне [from, to]
// Дни без бронирований в результат не попадают
func (r *Repository) CountActiveByDateRange(ctx context.Context, tenantID int64, from, to time.Time) ([]domain.DayCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_date", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"tenant_id": tenantID,
			"status":    activeStatusStrings(),
		}).
		Where(squirrel.GtOrEq{"booking_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"booking_date": to.Format(domain.DateFormat)}).
		GroupBy("booking_date").
		OrderBy("booking_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateRange - execute query: %v", classify(err), err)
	}
	defer rows.Close()

	counts := make([]domain.DayCount, 0)
	for rows.Next() {
		var c domain.DayCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByDateRange - scan row: %v", ErrScanRow, err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateRange - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to
// Условие WHERE status = from не даёт двум конкурентным переходам выиграть одновременно:
// если статус уже изменился, возвращается ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id int64, from, to domain.BookingStatus, reason *string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": id, "status": from})

	if to == domain.StatusCancelled {
		builder = builder.
			Set("cancellation_reason", reason).
			Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := builder.
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", classify(err), err)
	}

	return booking, nil
}

// GetIdempotencyRecord получает запись ключа идемпотентности тенанта
func (r *Repository) GetIdempotencyRecord(ctx context.Context, tenantID int64, key string) (*domain.IdempotencyRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"idempotency_key",
		"booking_id",
		"fingerprint",
		"created_at",
	).
		From("booking_idempotency_keys").
		Where(squirrel.Eq{"tenant_id": tenantID, "idempotency_key": key}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetIdempotencyRecord - build select query: %v", ErrBuildQuery, err)
	}

	var rec domain.IdempotencyRecord
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.TenantID,
		&rec.Key,
		&rec.BookingID,
		&rec.Fingerprint,
		&rec.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrIdempotencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetIdempotencyRecord - scan record: %v", classify(err), err)
	}

	return &rec, nil
}

// SaveIdempotencyRecord сохраняет ключ идемпотентности
// Повторная вставка того же ключа возвращает ErrDuplicateKey
func (r *Repository) SaveIdempotencyRecord(ctx context.Context, rec *domain.IdempotencyRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_idempotency_keys").
		Columns("tenant_id", "idempotency_key", "booking_id", "fingerprint").
		Values(rec.TenantID, rec.Key, rec.BookingID, rec.Fingerprint).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SaveIdempotencyRecord - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveIdempotencyRecord - execute insert: %v", classify(err), err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку в бронирование, порядок колонок - bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.Customer.Name,
		&booking.Customer.Phone,
		&booking.Customer.Email,
		&booking.Customer.Notes,
		&booking.IdempotencyKey,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
