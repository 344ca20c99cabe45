package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrConfigMissing возвращается, когда у тенанта нет расписания
	ErrConfigMissing = errors.New("create_booking: tenant has no schedule config")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrClosedDay возвращается, когда дата - нерабочий день тенанта
	ErrClosedDay = errors.New("create_booking: tenant is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не на сетке слотов или услуга не успевает до закрытия
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда слот внутри окна минимального уведомления
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotConflict возвращается, когда слот занят бронированием или заблокирован
	// Клиент должен заново запросить доступность, повтор того же слота бессмысленен
	ErrSlotConflict = errors.New("create_booking: slot is no longer available")

	// ErrIdempotencyKeyReused возвращается, когда ключ уже использован для другого запроса
	ErrIdempotencyKeyReused = errors.New("create_booking: idempotency key reused with a different request")

	// ErrCommitTimeout возвращается, когда хранилище недоступно или коммит не уложился в дедлайн
	// Частичного бронирования не остаётся, запрос можно повторить с тем же ключом
	ErrCommitTimeout = errors.New("create_booking: commit timed out")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")

	// errReplay внутренний сигнал: ключ идемпотентности записан конкурентным запросом
	errReplay = errors.New("create_booking: idempotency key committed concurrently")
)
