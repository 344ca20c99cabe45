package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultMinAdvanceHours     = 0
	DefaultMaxAdvanceDays      = 0 // 0 = unlimited
	DefaultDayCapacityCeiling  = 8
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MinAdvanceHours        = 0
	MaxAdvanceHours        = 168 // 1 week
	MinAdvanceDays         = 0
	MaxAdvanceDays         = 365 // 1 year
	MaxCustomerNameLength  = 200
	MaxPhoneLength         = 32
	MaxEmailLength         = 255
	MaxNotesLength         = 500
	MaxReasonLength        = 500
	MaxIdempotencyKeyLen   = 128
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Slot annotation reasons
const (
	ReasonAfterClosing  = "would finish after closing"
	ReasonAdvanceNotice = "inside minimum notice window"
	ReasonBlocked       = "blocked"
)

// ActiveStatuses statuses that occupy time
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
