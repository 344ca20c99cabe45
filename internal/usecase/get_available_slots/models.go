package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	TenantID  int64     // ID тенанта
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов
// Configured = false означает, что у тенанта нет расписания: слотов нет, но это не ошибка
type Response struct {
	TenantID               int64
	ServiceID              int64
	Date                   time.Time
	ServiceDurationMinutes int
	Configured             bool
	WorkingDay             bool
	Slots                  []domain.TimeSlot
}
