package unblock_range

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/blockedranges"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidRangeID  = "некорректный ID блокировки"
	msgNotFound        = "блокировка не найдена"
)

type Handler struct {
	service BlockedRangeService
	logger  Logger
}

func NewHandler(service BlockedRangeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/tenants/{tenantId}/blocked-ranges/{rangeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	rangeID, err := handlers.PathInt64(r, "rangeId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRangeID)
		return
	}

	if err := h.service.Unblock(r.Context(), tenantID, rangeID); err != nil {
		if errors.Is(err, blockedranges.ErrRangeNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /blocked-ranges/{id} - Failed to unblock: tenant_id=%d, range_id=%d, error=%v",
			tenantID, rangeID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /blocked-ranges/{id} - Range removed: tenant_id=%d, range_id=%d", tenantID, rangeID)
	w.WriteHeader(http.StatusNoContent)
}
