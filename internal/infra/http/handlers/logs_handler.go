package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LogsHandler struct {
	Logs usecase.AuditLogRepository
}

func NewLogsHandler(logs usecase.AuditLogRepository) *LogsHandler {
	return &LogsHandler{Logs: logs}
}

type logsPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int               `json:"total"`
	Items []entity.AuditLog `json:"items"`
}

func (h *LogsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := parseLogsPagination(q.Get("page"), q.Get("limit"))

	filter := usecase.AuditFilter{
		UserID:   q.Get("userId"),
		Action:   q.Get("action"),
		Resource: q.Get("resource"),
		Search:   q.Get("q"),
	}
	if since := q.Get("since"); since != "" {
		if d, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = d
		} else if d, err := time.Parse("2006-01-02", since); err == nil {
			filter.Since = d
		}
	}

	h.respondPage(w, r, filter, page, limit)
}

func (h *LogsHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondErrorCode(w, "UNAUTHORIZED", "Token de autenticação ausente")
		return
	}

	q := r.URL.Query()
	page, limit := parseLogsPagination(q.Get("page"), q.Get("limit"))

	h.respondPage(w, r, usecase.AuditFilter{UserID: principal.ID}, page, limit)
}

func (h *LogsHandler) respondPage(w http.ResponseWriter, r *http.Request, filter usecase.AuditFilter, page, limit int) {
	items, err := h.Logs.FindMany(r.Context(), filter, (page-1)*limit, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	total, err := h.Logs.Count(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, logsPage{Page: page, Limit: limit, Total: total, Items: items})
}

func parseLogsPagination(pageStr, limitStr string) (page, limit int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
