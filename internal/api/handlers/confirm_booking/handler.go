package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
)

const (
	msgInvalidTenantID  = "некорректный ID тенанта"
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgCannotConfirm    = "бронирование не может быть подтверждено"
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

// Handle PATCH /api/v1/tenants/{tenantId}/bookings/{bookingId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Confirm(r.Context(), tenantID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Cannot confirm: booking_id=%d: %v", bookingID, err)
			handlers.RespondConflict(w, msgCannotConfirm)

		default:
			h.logger.Error("PATCH /bookings/{id}/confirm - Failed to confirm booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/confirm - Booking confirmed: booking_id=%d, tenant_id=%d", bookingID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
