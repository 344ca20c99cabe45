package catalogservice

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = errors.New("catalogservice client: service not found")

	// ErrInternal возвращается при внутренних ошибках клиента и недоступности сервиса
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
