package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                   string          `json:"date"`
	TenantID               int64           `json:"tenantId"`
	ServiceID              int64           `json:"serviceId"`
	ServiceDurationMinutes int             `json:"serviceDurationMinutes"`
	Configured             bool            `json:"configured"`
	WorkingDay             bool            `json:"workingDay"`
	Slots                  []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Code      string `json:"code,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:      slot.Time.String(),
			Available: slot.Available,
			Reason:    slot.Reason,
			Code:      string(slot.Code),
		}
	}

	return &AvailableSlotsResponse{
		Date:                   resp.Date.Format(domain.DateFormat),
		TenantID:               resp.TenantID,
		ServiceID:              resp.ServiceID,
		ServiceDurationMinutes: resp.ServiceDurationMinutes,
		Configured:             resp.Configured,
		WorkingDay:             resp.WorkingDay,
		Slots:                  slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров
func ToUseCaseRequest(tenantID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		TenantID:  tenantID,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
