package availability

import "errors"

var (
	// ErrDateInPast возвращается, когда запрошенная дата раньше сегодняшней
	ErrDateInPast = errors.New("availability: date is in the past")

	// ErrDateTooFar возвращается, когда дата дальше горизонта MaxAdvanceDays
	ErrDateTooFar = errors.New("availability: date is beyond the booking horizon")
)
