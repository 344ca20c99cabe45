package availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Input данные для расчёта слотов на одну дату
type Input struct {
	Date                   time.Time
	Config                 *domain.ScheduleConfig
	ServiceDurationMinutes int
	Bookings               []*domain.Booking
	BlockedRanges          []*domain.BlockedRange
	Now                    time.Time
}

// Build прогоняет полный конвейер:
// сетка -> время закрытия -> бронирования -> блокировки -> минимальное уведомление
// Нерабочий день даёт пустой список. Первая причина недоступности сохраняется
func Build(in Input) []domain.TimeSlot {
	if in.Config == nil || !in.Config.IsWorkingDay(in.Date) {
		return []domain.TimeSlot{}
	}

	cfg := in.Config
	slots := GenerateSlots(in.Date, cfg.StartTime, cfg.EndTime, cfg.SlotDurationMinutes)
	slots = ApplyClosingTime(slots, cfg.EndTime, in.ServiceDurationMinutes)
	slots = ApplyBookingConflicts(slots, in.Bookings, in.ServiceDurationMinutes)
	slots = ApplyBlockedRanges(slots, in.BlockedRanges, in.ServiceDurationMinutes)
	slots = ApplyAdvanceNotice(slots, in.Date, in.Now, cfg.Location(), cfg.MinAdvanceHours)

	return slots
}
