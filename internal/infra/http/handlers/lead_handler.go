package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	CreateUC *usecase.CreateLeadUseCase
	UpdateUC *usecase.UpdateLeadUseCase
	DeleteUC *usecase.DeleteLeadUseCase
	Leads    usecase.LeadRepository
}

func NewLeadHandler(createUC *usecase.CreateLeadUseCase, updateUC *usecase.UpdateLeadUseCase, deleteUC *usecase.DeleteLeadUseCase, leads usecase.LeadRepository) *LeadHandler {
	return &LeadHandler{CreateUC: createUC, UpdateUC: updateUC, DeleteUC: deleteUC, Leads: leads}
}

type leadPage struct {
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
	Pages int           `json:"pages"`
	Items []entity.Lead `json:"items"`
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondErrorCode(w, "UNAUTHORIZED", "Token de autenticação ausente")
		return
	}

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondErrorCode(w, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), principal, input)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.RecordLeadCreated()
	respondJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondErrorCode(w, "UNAUTHORIZED", "Token de autenticação ausente")
		return
	}

	q := r.URL.Query()
	page, limit := parsePagination(q.Get("page"), q.Get("limit"))

	filter := usecase.LeadFilter{
		Status: q.Get("status"),
		Search: q.Get("q"),
	}
	if q.Get("mine") == "true" {
		filter.OwnerID = principal.ID
	}

	sort := usecase.LeadSort{Field: q.Get("sort"), Order: q.Get("order")}

	skip := (page - 1) * limit
	items, err := h.Leads.FindMany(r.Context(), filter, sort, skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	total, err := h.Leads.Count(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, leadPage{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
		Items: items,
	})
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lead, err := h.Leads.FindByIDWithActivities(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			respondErrorCode(w, usecase.CodeLeadNotFound, "Lead não encontrado")
			return
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondErrorCode(w, "UNAUTHORIZED", "Token de autenticação ausente")
		return
	}

	var input usecase.UpdateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondErrorCode(w, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	lead, err := h.UpdateUC.Execute(r.Context(), principal, id, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondErrorCode(w, "UNAUTHORIZED", "Token de autenticação ausente")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.DeleteUC.Execute(r.Context(), principal, id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// parsePagination normaliza page (mínimo 1) e limit (entre 1 e 100).
func parsePagination(pageStr, limitStr string) (page, limit int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
