package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type RegisterUseCase struct {
	Users UserRepository
	Audit AuditRecorder
}

func NewRegisterUseCase(users UserRepository, audit AuditRecorder) *RegisterUseCase {
	return &RegisterUseCase{Users: users, Audit: audit}
}

// Execute registra um novo usuário. requester é o principal autenticado da
// request, se houver: um papel elevado no body só é honrado quando o
// requester é ADMIN — qualquer outro caso cai silenciosamente para
// SALES_EXEC, sem erro.
func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput, requester *auth.Principal) (*entity.PublicUser, error) {
	if errs := ValidateRegisterInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	role := entity.RoleSalesExec
	if input.Role != "" {
		if requester != nil && requester.Role == entity.RoleAdmin {
			role = input.Role
		} else {
			log.Printf("register: role %q ignorado em cadastro público", input.Role)
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: err.Error()}
	}

	user := entity.NewUser(input.Name, input.Email, hash, role)
	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: CodeEmailInUse, Message: "email already in use"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	uc.Audit.Record(&user.ID, entity.AuditUserRegister, "user", user.ID, map[string]any{
		"email": user.Email,
		"role":  user.Role,
	})

	return user.Public(), nil
}
