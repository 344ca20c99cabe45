package schedule

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.ScheduleConfig, error)
	Upsert(ctx context.Context, config *domain.ScheduleConfig) (*domain.ScheduleConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
