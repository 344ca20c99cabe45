package get_full_dates

import "time"

// Basis основание признака заполненности дня
const Basis = "booking_count"

// Request входные данные
type Request struct {
	TenantID int64
	From     time.Time
	To       time.Time
}

// Response заполненные дни диапазона по возрастанию
type Response struct {
	TenantID int64
	From     time.Time
	To       time.Time
	Ceiling  int
	Dates    []time.Time
}
