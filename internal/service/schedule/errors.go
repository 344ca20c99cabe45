package schedule

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у тенанта нет расписания
	ErrConfigNotFound = errors.New("schedule not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
