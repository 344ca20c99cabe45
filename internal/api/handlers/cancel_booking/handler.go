package cancel_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgCannotCancel       = "бронирование не может быть отменено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/tenants/{tenantId}/bookings/{bookingId}/cancel
// Тело с причиной отмены необязательно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Cancel(r.Context(), tenantID, bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d: %v", bookingID, err)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d, tenant_id=%d", bookingID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
