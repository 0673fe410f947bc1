package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ActivityHandler struct {
	CreateUC   *usecase.CreateActivityUseCase
	Activities usecase.ActivityRepository
}

func NewActivityHandler(createUC *usecase.CreateActivityUseCase, activities usecase.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{CreateUC: createUC, Activities: activities}
}

func (h *ActivityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondErrorCode(w, "UNAUTHORIZED", "Token de autenticação ausente")
		return
	}

	var input usecase.CreateActivityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondErrorCode(w, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	activity, err := h.CreateUC.Execute(r.Context(), principal, input)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.RecordActivityCreated(activity.Type)
	respondJSON(w, http.StatusCreated, activity)
}

func (h *ActivityHandler) HandleListByLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	activities, err := h.Activities.FindByLead(r.Context(), leadID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}
