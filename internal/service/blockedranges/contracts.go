package blockedranges

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// BlockedRangeRepository интерфейс репозитория заблокированных интервалов
type BlockedRangeRepository interface {
	Create(ctx context.Context, br *domain.BlockedRange) (*domain.BlockedRange, error)
	Delete(ctx context.Context, tenantID, id int64) error
	ListByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.BlockedRange, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
