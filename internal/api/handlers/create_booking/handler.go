package create_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	bookingModels "github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_booking"
)

// IdempotencyKeyHeader заголовок с ключом идемпотентности клиента
const IdempotencyKeyHeader = "Idempotency-Key"

const (
	msgInvalidTenantID     = "некорректный ID тенанта"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotConflict        = "выбранный временной слот уже занят, запросите доступность заново"
	msgServiceNotFound     = "услуга не найдена"
	msgConfigMissing       = "расписание тенанта не настроено"
	msgClosedDay           = "в выбранную дату тенант не работает"
	msgInvalidBookingDate  = "дата бронирования в прошлом"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
	msgIdempotencyReused   = "ключ идемпотентности уже использован для другого запроса"
	msgCommitTimeout       = "не удалось подтвердить бронирование, повторите запрос с тем же ключом"
	retryAfterCommitSecond = 1
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/bookings
// 201 для нового бронирования, 200 для повтора с тем же Idempotency-Key
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	idempotencyKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))

	useCaseReq, err := req.ToUseCaseRequest(tenantID, idempotencyKey)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: tenant_id=%d, date=%s, time=%s", tenantID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createBooking.ErrCommitTimeout):
			h.logger.Warn("POST /bookings - Commit timeout: tenant_id=%d: %v", tenantID, err)
			handlers.RespondServiceUnavailable(w, msgCommitTimeout, retryAfterCommitSecond)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrConfigMissing):
			handlers.RespondUnprocessable(w, msgConfigMissing)

		case errors.Is(err, createBooking.ErrIdempotencyKeyReused):
			handlers.RespondUnprocessable(w, msgIdempotencyReused)

		case errors.Is(err, createBooking.ErrClosedDay):
			handlers.RespondBadRequest(w, msgClosedDay)

		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /bookings - Booking committed: booking_id=%d, tenant_id=%d, replayed=%t",
		result.Booking.ID, tenantID, result.Replayed)
	handlers.RespondJSON(w, status, bookingModels.FromDomainBooking(result.Booking))
}
