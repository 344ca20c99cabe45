package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

const (
	msgInvalidTenantID  = "некорректный ID тенанта"
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound  = "услуга не найдена"
	msgDateInPast       = "дата в прошлом"
	msgDateTooFar       = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/services/{serviceId}/slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(tenantID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /slots - Service not found: tenant_id=%d, service_id=%d", tenantID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /slots - Failed to get slots: tenant_id=%d, service_id=%d, error=%v",
				tenantID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Slots retrieved: tenant_id=%d, service_id=%d, slots_count=%d",
		tenantID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
