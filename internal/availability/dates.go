package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// CivilDate отбрасывает время и часовой пояс: полночь UTC того же календарного дня
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today возвращает текущую календарную дату в часовом поясе loc
func Today(now time.Time, loc *time.Location) time.Time {
	return CivilDate(now.In(loc))
}

// IsToday проверяет, что календарная дата date совпадает с "сегодня" в loc
func IsToday(date, now time.Time, loc *time.Location) bool {
	return CivilDate(date).Equal(Today(now, loc))
}

// FullDates возвращает даты, количество активных бронирований на которые >= ceiling
// Сигнал основан только на количестве бронирований, а не на свободных слотах:
// день может быть "заполнен" и при наличии технически свободного слота
// ceiling <= 0 отключает сигнал
func FullDates(counts []domain.DayCount, ceiling int) []time.Time {
	result := make([]time.Time, 0)
	if ceiling <= 0 {
		return result
	}

	perDay := make(map[time.Time]int, len(counts))
	for _, c := range counts {
		perDay[CivilDate(c.Date)] += c.Count
	}

	for day, count := range perDay {
		if count >= ceiling {
			result = append(result, day)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}

// ValidateDate проверяет окно бронирования: не раньше сегодняшнего дня в loc
// и не дальше maxAdvanceDays от него (0 = без ограничения)
func ValidateDate(date, now time.Time, loc *time.Location, maxAdvanceDays int) error {
	day := CivilDate(date)
	today := Today(now, loc)

	if day.Before(today) {
		return ErrDateInPast
	}

	if maxAdvanceDays > 0 && day.After(today.AddDate(0, 0, maxAdvanceDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFar, maxAdvanceDays)
	}

	return nil
}
