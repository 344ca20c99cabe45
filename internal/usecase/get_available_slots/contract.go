package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.ScheduleConfig, error)
}

// BlockedRangeRepository интерфейс репозитория заблокированных интервалов
type BlockedRangeRepository interface {
	ListByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.BlockedRange, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.ServiceDefinition, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
