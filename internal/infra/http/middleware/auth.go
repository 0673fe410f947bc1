package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/auth"
)

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticator exige um token JWT válido e injeta o principal no contexto.
func Authenticator(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token de autenticação ausente")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token de autenticação inválido ou expirado")
				return
			}

			principal := auth.Principal{ID: claims.Subject, Role: claims.Role}
			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticator injeta o principal quando o token é válido, mas deixa
// a requisição seguir anônima quando ele está ausente ou inválido.
func OptionalAuthenticator(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			principal := auth.Principal{ID: claims.Subject, Role: claims.Role}
			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole restringe a rota aos papéis listados. Deve vir depois do Authenticator.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token de autenticação ausente")
				return
			}
			if _, ok := allowed[principal.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Permissão insuficiente para este recurso")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
