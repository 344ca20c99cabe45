package availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// GenerateSlots строит сетку слотов [start, end) с шагом stepMinutes
// Количество итераций вычисляется заранее, поэтому некорректный конфиг
// (start >= end, шаг <= 0) даёт пустую сетку, а не бесконечный цикл
func GenerateSlots(date time.Time, start, end types.TimeString, stepMinutes int) []domain.TimeSlot {
	startMin, endMin := start.Minutes(), end.Minutes()
	if startMin < 0 || endMin < 0 || stepMinutes <= 0 || startMin >= endMin {
		return []domain.TimeSlot{}
	}

	count := (endMin - startMin + stepMinutes - 1) / stepMinutes
	slots := make([]domain.TimeSlot, 0, count)

	for i := 0; i < count; i++ {
		t, err := types.NewTimeStringFromMinutes(startMin + i*stepMinutes)
		if err != nil {
			break
		}
		slots = append(slots, domain.TimeSlot{
			Time:      t,
			Date:      date,
			Available: true,
		})
	}

	return slots
}

// ApplyClosingTime помечает слоты, в которых услуга не успевает закончиться до закрытия
// Используется длительность услуги, а не шаг сетки
func ApplyClosingTime(slots []domain.TimeSlot, closing types.TimeString, serviceDurationMinutes int) []domain.TimeSlot {
	result := copySlots(slots)
	closingMin := closing.Minutes()

	for i := range result {
		if result[i].Time.Minutes()+serviceDurationMinutes > closingMin {
			result[i].MarkUnavailable(domain.CodeAfterClosing, domain.ReasonAfterClosing)
		}
	}

	return result
}

// ApplyAdvanceNotice помечает слоты внутри окна минимального уведомления
// Применяется только если date - сегодняшний день в часовом поясе тенанта
func ApplyAdvanceNotice(slots []domain.TimeSlot, date, now time.Time, loc *time.Location, minAdvanceHours int) []domain.TimeSlot {
	result := copySlots(slots)
	if !IsToday(date, now, loc) {
		return result
	}

	minBookable := now.Add(time.Duration(minAdvanceHours) * time.Hour)
	for i := range result {
		if result[i].Time.On(date, loc).Before(minBookable) {
			result[i].MarkUnavailable(domain.CodeAdvanceNotice, domain.ReasonAdvanceNotice)
		}
	}

	return result
}

// Lookup находит слот с указанным временем начала
// false означает, что время не лежит на сетке
func Lookup(slots []domain.TimeSlot, start types.TimeString) (domain.TimeSlot, bool) {
	target := start.Minutes()
	for _, s := range slots {
		if s.Time.Minutes() == target {
			return s, true
		}
	}
	return domain.TimeSlot{}, false
}

func copySlots(slots []domain.TimeSlot) []domain.TimeSlot {
	result := make([]domain.TimeSlot, len(slots))
	copy(result, slots)
	return result
}
