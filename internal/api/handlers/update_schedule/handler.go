package update_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tenants/{tenantId}/schedule
// Создает расписание или обновляет переданные поля существующего
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("PUT /schedule - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), tenantID, &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("PUT /schedule - Failed to update schedule: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /schedule - Schedule updated: tenant_id=%d", tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
