package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type UserHandler struct {
	Users usecase.UserRepository
}

func NewUserHandler(users usecase.UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

// HandleList devolve usuários sem credencial, ordenados por nome.
// Usado pelo frontend para montar o seletor de owner.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.FindMany(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}
