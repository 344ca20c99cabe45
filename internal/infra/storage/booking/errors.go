package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда вставка нарушила ограничение на пересечение интервалов
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrDuplicateKey возвращается при повторной вставке ключа идемпотентности
	ErrDuplicateKey = errors.New("booking.repository: duplicate idempotency key")

	// ErrIdempotencyNotFound возвращается, когда ключ идемпотентности не найден
	ErrIdempotencyNotFound = errors.New("booking.repository: idempotency key not found")

	// ErrStatusConflict возвращается, когда статус бронирования изменился конкурентно
	ErrStatusConflict = errors.New("booking.repository: booking status changed concurrently")

	// ErrUnavailable возвращается, когда БД недоступна или истёк дедлайн запроса
	ErrUnavailable = errors.New("booking.repository: store unavailable")

	// ErrTransaction возвращается при попытке выполнить операцию вне транзакции
	ErrTransaction = errors.New("booking.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)

// SQLSTATE коды PostgreSQL
const (
	codeExclusionViolation   = "23P01"
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeQueryCanceled        = "57014"
)

// classify сопоставляет ошибку драйвера с ошибкой репозитория
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeExclusionViolation, codeSerializationFailure, codeDeadlockDetected:
			return ErrSlotTaken
		case codeUniqueViolation:
			return ErrDuplicateKey
		case codeQueryCanceled:
			return ErrUnavailable
		}
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return ErrUnavailable
	}

	return ErrExecQuery
}
