package get_full_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/fulldates"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveByDateRange(ctx context.Context, tenantID int64, from, to time.Time) ([]domain.DayCount, error)
}

// Cache кэш заполненных дней
type Cache interface {
	Get(ctx context.Context, k fulldates.Key) ([]time.Time, int64, error)
	Set(ctx context.Context, k fulldates.Key, version int64, dates []time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики кэша
type Metrics interface {
	FullDatesCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
