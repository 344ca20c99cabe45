package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Customer is the customer payload attached to a booking
type Customer struct {
	Name  string
	Phone *string
	Email *string
	Notes *string
}

// Booking represents a reservation of a time window for one service
type Booking struct {
	ID              int64
	TenantID        int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int // derived from the service at creation time
	Status          BookingStatus
	Customer        Customer
	IdempotencyKey  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies time (pending or confirmed)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// StartMinute returns the booking start in minutes from midnight
func (b *Booking) StartMinute() int {
	return b.StartTime.Minutes()
}

// EndMinute returns the exclusive end of the booking in minutes from midnight
func (b *Booking) EndMinute() int {
	return b.StartTime.Minutes() + b.DurationMinutes
}

// CanTransitionTo reports whether the status machine allows moving to next.
// pending -> confirmed, pending -> cancelled, confirmed -> cancelled.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IdempotencyRecord links a client idempotency key to the booking it produced
type IdempotencyRecord struct {
	TenantID    int64
	Key         string
	BookingID   int64
	Fingerprint string
	CreatedAt   time.Time
}

// DayCount is the number of active bookings on one date
type DayCount struct {
	Date  time.Time
	Count int
}
