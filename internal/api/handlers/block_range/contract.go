package block_range

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/blockedranges/models"
)

type BlockedRangeService interface {
	Block(ctx context.Context, tenantID int64, req *models.BlockRangeRequest) (*models.BlockedRangeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
