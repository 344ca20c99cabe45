package unblock_range

import "context"

type BlockedRangeService interface {
	Unblock(ctx context.Context, tenantID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
