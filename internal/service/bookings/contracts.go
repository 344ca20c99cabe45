package bookings

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, from, to domain.BookingStatus, reason *string) (*domain.Booking, error)
}

// FullDatesCache кэш заполненных дней
type FullDatesCache interface {
	Invalidate(ctx context.Context, tenantID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
