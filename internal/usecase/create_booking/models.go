package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID       int64                // ID тенанта
	ServiceID      int64                // ID услуги
	Date           time.Time            // Дата бронирования (без времени)
	StartTime      types.TimeString     // Время начала слота (например, "10:00")
	Customer       domain.Customer      // Данные клиента
	IdempotencyKey string               // Ключ идемпотентности (опционально)
	Status         domain.BookingStatus // pending (по умолчанию) или confirmed
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking  *domain.Booking
	Replayed bool // true, если бронирование создано ранее запросом с тем же ключом
}
