package get_full_dates

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getFullDates "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_full_dates"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidRange    = "некорректный диапазон дат, ожидается from и to в формате YYYY-MM-DD"
)

type Handler struct {
	useCase GetFullDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetFullDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/full-dates?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /full-dates - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	from, errFrom := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	to, errTo := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if errFrom != nil || errTo != nil {
		h.logger.Warn("GET /full-dates - Invalid range: from=%q, to=%q",
			r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getFullDates.Request{TenantID: tenantID, From: from, To: to})
	if err != nil {
		if errors.Is(err, getFullDates.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /full-dates - Failed: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
