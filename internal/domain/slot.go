package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// UnavailableCode classifies why a slot cannot be booked
type UnavailableCode string

const (
	CodeAfterClosing    UnavailableCode = "after_closing"
	CodeBookingConflict UnavailableCode = "booking_conflict"
	CodeBlocked         UnavailableCode = "blocked"
	CodeAdvanceNotice   UnavailableCode = "advance_notice"
)

// TimeSlot is a candidate start time on one date. Derived, never persisted.
type TimeSlot struct {
	Time      types.TimeString
	Date      time.Time
	Available bool
	Reason    string
	Code      UnavailableCode
}

// MarkUnavailable annotates the slot unless an earlier filter already did
func (s *TimeSlot) MarkUnavailable(code UnavailableCode, reason string) {
	if !s.Available {
		return
	}
	s.Available = false
	s.Code = code
	s.Reason = reason
}
