package blockedranges

import "errors"

var (
	// ErrRangeNotFound возвращается, когда блокировка не найдена
	ErrRangeNotFound = errors.New("blocked range not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
