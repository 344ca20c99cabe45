package list_blocked_ranges

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/blockedranges/models"
)

type BlockedRangeService interface {
	List(ctx context.Context, tenantID int64, date time.Time) (*models.BlockedRangeListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
