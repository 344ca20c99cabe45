package get_full_dates

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getFullDates "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_full_dates"
)

// FullDatesResponse HTTP response model
// Basis всегда "booking_count": день считается полным по числу бронирований, а не по свободным слотам
type FullDatesResponse struct {
	TenantID int64    `json:"tenantId"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Ceiling  int      `json:"ceiling"`
	Basis    string   `json:"basis"`
	Dates    []string `json:"dates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getFullDates.Response) *FullDatesResponse {
	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, d.Format(domain.DateFormat))
	}

	return &FullDatesResponse{
		TenantID: resp.TenantID,
		From:     resp.From.Format(domain.DateFormat),
		To:       resp.To.Format(domain.DateFormat),
		Ceiling:  resp.Ceiling,
		Basis:    getFullDates.Basis,
		Dates:    dates,
	}
}
