package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ações de auditoria conhecidas. O campo é livre, mas essas são as emitidas hoje.
const (
	AuditLeadCreate     = "LEAD_CREATE"
	AuditLeadUpdate     = "LEAD_UPDATE"
	AuditLeadAssign     = "LEAD_ASSIGN"
	AuditLeadUnassign   = "LEAD_UNASSIGN"
	AuditLeadDelete     = "LEAD_DELETE"
	AuditActivityCreate = "ACTIVITY_CREATE"
	AuditUserRegister   = "USER_REGISTER"
)

// AuditLog é append-only: a aplicação nunca atualiza nem remove entradas.
type AuditLog struct {
	ID         string         `json:"id"`
	UserID     *string        `json:"userId"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource,omitempty"`
	ResourceID string         `json:"resourceId,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func NewAuditLog(userID *string, action, resource, resourceID string, meta map[string]any) *AuditLog {
	return &AuditLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Meta:       meta,
		CreatedAt:  time.Now().UTC(),
	}
}
