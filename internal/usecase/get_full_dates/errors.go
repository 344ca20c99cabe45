package get_full_dates

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном диапазоне дат
	ErrInvalidInput = errors.New("get_full_dates: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_full_dates: internal error")
)
