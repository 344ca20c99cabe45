package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	timeLayout    = "15:04"
	minutesPerDay = 24 * 60
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfRange возвращается, когда результат выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// TimeString время суток в формате "HH:MM"
// "24:00" допустимо только как конец рабочего дня
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит и валидирует строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет формат "HH:MM"
func (t TimeString) Validate() error {
	if t == "24:00" {
		return nil
	}
	if len(t) != len(timeLayout) {
		return ErrInvalidTimeString
	}
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return ErrInvalidTimeString
	}
	return nil
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут от полуночи
// Для некорректного значения возвращает -1
func (t TimeString) Minutes() int {
	if t == "24:00" {
		return minutesPerDay
	}
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// AddMinutes возвращает время, сдвинутое на указанное количество минут
// Результат должен оставаться в пределах [00:00, 24:00]
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current := t.Minutes()
	if current < 0 {
		return "", ErrInvalidTimeString
	}
	return NewTimeStringFromMinutes(current + minutes)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// On возвращает момент времени t в указанную дату и часовой пояс
// Считается по показаниям часов, а не от полуночи: в дни перевода часов сутки не равны 24h
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	minutes := t.Minutes()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// Scan реализует sql.Scanner
// PostgreSQL возвращает TIME как "HH:MM:SS", lib/pq отдаёт его байтами
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	if len(s) < len(timeLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	parsed, err := NewTimeStringFromString(s[:len(timeLayout)])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
