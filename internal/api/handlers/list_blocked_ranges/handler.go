package list_blocked_ranges

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/tenants/{tenantId}/blocked-ranges?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.List(r.Context(), tenantID, date)
	if err != nil {
		h.logger.Error("GET /blocked-ranges - Failed to list: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
