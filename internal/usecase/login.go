package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LoginUseCase struct {
	Users  UserRepository
	Tokens *auth.TokenManager
}

func NewLoginUseCase(users UserRepository, tokens *auth.TokenManager) *LoginUseCase {
	return &LoginUseCase{Users: users, Tokens: tokens}
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if errs := ValidateLoginInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	// Credencial inválida nunca distingue "email não existe" de "senha errada".
	invalid := &DomainError{Code: CodeInvalidCredentials, Message: "invalid credentials"}

	user, err := uc.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if err := auth.VerifyPassword(user.Password, input.Password); err != nil {
		return nil, invalid
	}

	token, err := uc.Tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: err.Error()}
	}

	return &LoginOutput{Token: token, User: user.Public()}, nil
}
