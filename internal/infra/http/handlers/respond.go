package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondErrorCode(w http.ResponseWriter, code, message string) {
	respondJSON(w, statusForCode(code), errorResponse{Error: errorBody{Code: code, Message: message}})
}

// respondError traduz o erro do caso de uso para um status HTTP. Erros
// técnicos não vazam detalhe interno para o cliente.
func respondError(w http.ResponseWriter, err error) {
	if derr, ok := usecase.IsDomainError(err); ok {
		respondErrorCode(w, derr.Code, derr.Message)
		return
	}

	log.Printf("http: erro interno: %v", err)
	respondErrorCode(w, "INTERNAL_ERROR", "Erro interno do servidor")
}

func statusForCode(code string) int {
	switch code {
	case usecase.CodeValidation, "INVALID_JSON":
		return http.StatusBadRequest
	case usecase.CodeInvalidCredentials, "UNAUTHORIZED":
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeLeadNotFound, usecase.CodeUserNotFound, usecase.CodeOwnerNotFound:
		return http.StatusNotFound
	case usecase.CodeEmailInUse:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
