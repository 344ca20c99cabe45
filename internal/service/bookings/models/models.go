package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// Response модели

// CustomerResponse данные клиента
type CustomerResponse struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64            `json:"id"`
	TenantID        int64            `json:"tenantId"`
	ServiceID       int64            `json:"serviceId"`
	BookingDate     string           `json:"bookingDate"` // "2025-10-15"
	StartTime       string           `json:"startTime"`   // "10:00"
	EndTime         string           `json:"endTime"`
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`
	Customer        CustomerResponse `json:"customer"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		TenantID:        b.TenantID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Customer: CustomerResponse{
			Name:  b.Customer.Name,
			Phone: b.Customer.Phone,
			Email: b.Customer.Email,
			Notes: b.Customer.Notes,
		},
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if end, err := b.StartTime.AddMinutes(b.DurationMinutes); err == nil {
		resp.EndTime = end.String()
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}
