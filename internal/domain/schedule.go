package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// ScheduleConfig is the per-tenant working schedule consumed by the engine
type ScheduleConfig struct {
	TenantID            int64
	WorkingDays         []time.Weekday
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	MinAdvanceHours     int
	MaxAdvanceDays      int    // 0 = unlimited
	Timezone            string // IANA name, empty = UTC
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsWorkingDay returns true if the tenant works on the weekday of date
func (c *ScheduleConfig) IsWorkingDay(date time.Time) bool {
	weekday := date.Weekday()
	for _, d := range c.WorkingDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *ScheduleConfig) HasAdvanceBookingLimit() bool {
	return c.MaxAdvanceDays > 0
}

// Location returns the tenant's time zone, falling back to UTC
func (c *ScheduleConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
