package handlers

import (
	"net/http"
	"strconv"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AnalyticsHandler struct {
	Analytics *usecase.AnalyticsUseCase
}

func NewAnalyticsHandler(analytics *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics}
}

func (h *AnalyticsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondErrorCode(w, "UNAUTHORIZED", "Token de autenticação ausente")
		return
	}

	mine := r.URL.Query().Get("mine") == "true"
	out, err := h.Analytics.Overview(r.Context(), principal, mine)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *AnalyticsHandler) HandleByOwner(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.Analytics.ByOwner(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

func (h *AnalyticsHandler) HandleLeadsByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Analytics.StatusDistribution(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, counts)
}

func (h *AnalyticsHandler) HandleActivities7d(w http.ResponseWriter, r *http.Request) {
	series, err := h.Analytics.ActivitySeries7d(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, series)
}
