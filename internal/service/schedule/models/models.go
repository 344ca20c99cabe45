package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модели

// UpdateScheduleRequest запрос на изменение расписания
// Все поля опциональны - обновляются только переданные значения
type UpdateScheduleRequest struct {
	WorkingDays         []int   `json:"workingDays,omitempty"` // 0 = воскресенье
	StartTime           *string `json:"startTime,omitempty"`
	EndTime             *string `json:"endTime,omitempty"`
	SlotDurationMinutes *int    `json:"slotDurationMinutes,omitempty"`
	MinAdvanceHours     *int    `json:"minAdvanceHours,omitempty"`
	MaxAdvanceDays      *int    `json:"maxAdvanceDays,omitempty"` // 0 = без ограничений
	Timezone            *string `json:"timezone,omitempty"`
}

// ApplyToConfig применяет переданные поля к расписанию
func (r *UpdateScheduleRequest) ApplyToConfig(c *domain.ScheduleConfig) {
	if r.WorkingDays != nil {
		days := make([]time.Weekday, 0, len(r.WorkingDays))
		for _, d := range r.WorkingDays {
			days = append(days, time.Weekday(d))
		}
		c.WorkingDays = days
	}
	if r.StartTime != nil {
		c.StartTime = types.TimeString(*r.StartTime)
	}
	if r.EndTime != nil {
		c.EndTime = types.TimeString(*r.EndTime)
	}
	if r.SlotDurationMinutes != nil {
		c.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.MinAdvanceHours != nil {
		c.MinAdvanceHours = *r.MinAdvanceHours
	}
	if r.MaxAdvanceDays != nil {
		c.MaxAdvanceDays = *r.MaxAdvanceDays
	}
	if r.Timezone != nil {
		c.Timezone = *r.Timezone
	}
}

// Response модели

// ScheduleResponse ответ с расписанием тенанта
type ScheduleResponse struct {
	TenantID            int64     `json:"tenantId"`
	WorkingDays         []int     `json:"workingDays"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	MinAdvanceHours     int       `json:"minAdvanceHours"`
	MaxAdvanceDays      int       `json:"maxAdvanceDays"`
	Timezone            string    `json:"timezone"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.ScheduleConfig) *ScheduleResponse {
	if c == nil {
		return nil
	}

	days := make([]int, 0, len(c.WorkingDays))
	for _, d := range c.WorkingDays {
		days = append(days, int(d))
	}

	tz := c.Timezone
	if tz == "" {
		tz = "UTC"
	}

	return &ScheduleResponse{
		TenantID:            c.TenantID,
		WorkingDays:         days,
		StartTime:           c.StartTime.String(),
		EndTime:             c.EndTime.String(),
		SlotDurationMinutes: c.SlotDurationMinutes,
		MinAdvanceHours:     c.MinAdvanceHours,
		MaxAdvanceDays:      c.MaxAdvanceDays,
		Timezone:            tz,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}
