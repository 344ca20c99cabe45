package block_range

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/blockedranges"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/blockedranges/models"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle POST /api/v1/tenants/{tenantId}/blocked-ranges
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req models.BlockRangeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocked-ranges - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Block(r.Context(), tenantID, &req)
	if err != nil {
		if errors.Is(err, blockedranges.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("POST /blocked-ranges - Failed to block range: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /blocked-ranges - Range blocked: tenant_id=%d, range_id=%d", tenantID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
