package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	createBooking "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID   int64           `json:"serviceId"`
	BookingDate string          `json:"bookingDate"` // "2025-10-15"
	StartTime   string          `json:"startTime"`   // "10:00"
	Status      string          `json:"status,omitempty"`
	Customer    CustomerRequest `json:"customer"`
}

// CustomerRequest данные клиента
type CustomerRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID int64, idempotencyKey string) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createBooking.Request{
		TenantID:  tenantID,
		ServiceID: r.ServiceID,
		Date:      bookingDate,
		StartTime: startTime,
		Customer: domain.Customer{
			Name:  r.Customer.Name,
			Phone: r.Customer.Phone,
			Email: r.Customer.Email,
			Notes: r.Customer.Notes,
		},
		IdempotencyKey: idempotencyKey,
		Status:         domain.BookingStatus(r.Status),
	}, nil
}
