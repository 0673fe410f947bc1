package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AuthHandler struct {
	RegisterUC *usecase.RegisterUseCase
	LoginUC    *usecase.LoginUseCase
	Users      usecase.UserRepository
}

func NewAuthHandler(registerUC *usecase.RegisterUseCase, loginUC *usecase.LoginUseCase, users usecase.UserRepository) *AuthHandler {
	return &AuthHandler{RegisterUC: registerUC, LoginUC: loginUC, Users: users}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondErrorCode(w, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	// Principal presente só quando um admin cadastra alguém com papel elevado.
	var requester *auth.Principal
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		requester = &p
	}

	user, err := h.RegisterUC.Execute(r.Context(), input, requester)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondErrorCode(w, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	output, err := h.LoginUC.Execute(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, output)
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondErrorCode(w, "UNAUTHORIZED", "Token de autenticação ausente")
		return
	}

	user, err := h.Users.FindByID(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			respondErrorCode(w, usecase.CodeUserNotFound, "Usuário não encontrado")
			return
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}
