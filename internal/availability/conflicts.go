package availability

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Интервалы, которые только касаются границей, не пересекаются:
// - [11:30, 12:00) и [11:00, 11:30) - нет пересечения
// - [11:30, 12:00) и [11:20, 11:40) - есть пересечение
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ApplyBookingConflicts помечает слоты, пересекающиеся с активными бронированиями
// Интервал слота - [time, time+serviceDuration), интервал бронирования - его собственная длительность
// Отменённые бронирования игнорируются, даже если попали во входные данные
func ApplyBookingConflicts(slots []domain.TimeSlot, bookings []*domain.Booking, serviceDurationMinutes int) []domain.TimeSlot {
	result := copySlots(slots)

	for i := range result {
		slotStart := result[i].Time.Minutes()
		slotEnd := slotStart + serviceDurationMinutes

		for _, b := range bookings {
			if b == nil || !b.IsActive() {
				continue
			}
			if Overlaps(slotStart, slotEnd, b.StartMinute(), b.EndMinute()) {
				result[i].MarkUnavailable(domain.CodeBookingConflict,
					fmt.Sprintf("conflicts with booking at %s", b.StartTime))
				break
			}
		}
	}

	return result
}

// ApplyBlockedRanges помечает слоты, пересекающиеся с заблокированными интервалами
func ApplyBlockedRanges(slots []domain.TimeSlot, ranges []*domain.BlockedRange, serviceDurationMinutes int) []domain.TimeSlot {
	result := copySlots(slots)

	for i := range result {
		slotStart := result[i].Time.Minutes()
		slotEnd := slotStart + serviceDurationMinutes

		for _, r := range ranges {
			if r == nil || !r.IsValid() {
				continue
			}
			if Overlaps(slotStart, slotEnd, r.StartTime.Minutes(), r.EndTime.Minutes()) {
				result[i].MarkUnavailable(domain.CodeBlocked, blockedReason(r))
				break
			}
		}
	}

	return result
}

func blockedReason(r *domain.BlockedRange) string {
	if r.Reason == "" {
		return domain.ReasonBlocked
	}
	return domain.ReasonBlocked + ": " + r.Reason
}
