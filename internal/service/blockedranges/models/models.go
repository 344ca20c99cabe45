package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// BlockRangeRequest запрос на блокировку интервала
type BlockRangeRequest struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "12:00"
	EndTime   string `json:"endTime"`   // "13:00"
	Reason    string `json:"reason"`
}

// BlockedRangeResponse ответ с данными заблокированного интервала
type BlockedRangeResponse struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenantId"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockedRangeListResponse ответ со списком интервалов
type BlockedRangeListResponse struct {
	Ranges []BlockedRangeResponse `json:"ranges"`
}

// FromDomain конвертирует domain модель в DTO
func FromDomain(r *domain.BlockedRange) *BlockedRangeResponse {
	if r == nil {
		return nil
	}
	return &BlockedRangeResponse{
		ID:        r.ID,
		TenantID:  r.TenantID,
		Date:      r.Date.Format(domain.DateFormat),
		StartTime: r.StartTime.String(),
		EndTime:   r.EndTime.String(),
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt,
	}
}

// FromDomainList конвертирует список domain моделей в DTO
func FromDomainList(ranges []*domain.BlockedRange) *BlockedRangeListResponse {
	resp := &BlockedRangeListResponse{Ranges: make([]BlockedRangeResponse, 0, len(ranges))}
	for _, r := range ranges {
		resp.Ranges = append(resp.Ranges, *FromDomain(r))
	}
	return resp
}
