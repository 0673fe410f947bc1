package auth

import "context"

// Principal é a identidade verificada do chamador (subject + papel do token).
type Principal struct {
	ID   string
	Role string
}

type principalContextKey struct{}

// ContextWithPrincipal anexa o principal autenticado ao contexto da request.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extrai o principal autenticado, se presente.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}
