package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BlockedRange is an administrator-declared window in which nothing can be booked
type BlockedRange struct {
	ID        int64
	TenantID  int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    string
	CreatedAt time.Time
}

// IsValid checks the StartTime < EndTime invariant
func (r *BlockedRange) IsValid() bool {
	start, end := r.StartTime.Minutes(), r.EndTime.Minutes()
	return start >= 0 && end >= 0 && start < end
}
