package entity

import (
	"time"

	"github.com/google/uuid"
)

// Papéis do CRM — hierarquia estrita para leads (ver usecase).
const (
	RoleAdmin     = "ADMIN"
	RoleManager   = "MANAGER"
	RoleSalesExec = "SALES_EXEC"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, nunca serializado
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Factory
func NewUser(name, email, passwordHash, role string) *User {
	if !IsValidRole(role) {
		role = RoleSalesExec
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleSalesExec:
		return true
	}
	return false
}

// PublicUser é a projeção sem credencial que vai em respostas e embeds.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
