package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// LeadFilter restringe consultas de leads. Campos vazios não filtram.
type LeadFilter struct {
	Status  string
	OwnerID string
	Search  string // ILIKE em name/email/phone
}

// LeadSort é o par campo+direção aceito na listagem.
type LeadSort struct {
	Field string // createdAt, updatedAt, name, status
	Order string // asc, desc
}

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	// FindMany lista usuários (sem credencial), ordenados por nome.
	// role vazio = todos os papéis.
	FindMany(ctx context.Context, role string) ([]entity.PublicUser, error)
}

type LeadRepository interface {
	Create(ctx context.Context, l *entity.Lead) error
	// FindByID carrega o lead com o owner embutido.
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	// FindByIDWithActivities carrega owner + timeline (mais recente primeiro).
	FindByIDWithActivities(ctx context.Context, id string) (*entity.Lead, error)
	FindMany(ctx context.Context, f LeadFilter, sort LeadSort, skip, take int) ([]entity.Lead, error)
	Count(ctx context.Context, f LeadFilter) (int, error)
	Update(ctx context.Context, l *entity.Lead) error
	// Delete remove o lead e, na mesma transação, todas as suas activities.
	// Retorna entity.ErrLeadNotFound quando o id não existe.
	Delete(ctx context.Context, id string) error
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	// CreationDatesSince devolve os createdAt dos leads criados a partir de
	// since. leadIDs nil = sem restrição de escopo.
	CreationDatesSince(ctx context.Context, since time.Time, leadIDs []string) ([]time.Time, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
	// FindByLead devolve a timeline do lead, mais recente primeiro.
	FindByLead(ctx context.Context, leadID string) ([]entity.Activity, error)
	// DatesSince devolve os createdAt das activities desde since,
	// opcionalmente restritas aos leads informados (nil = todas).
	DatesSince(ctx context.Context, since time.Time, leadIDs []string) ([]time.Time, error)
}

// AuditFilter restringe a listagem de logs.
type AuditFilter struct {
	UserID   string
	Action   string
	Resource string
	Search   string // ILIKE em action/resource
	Since    time.Time
}

type AuditLogRepository interface {
	Create(ctx context.Context, l *entity.AuditLog) error
	FindMany(ctx context.Context, f AuditFilter, skip, take int) ([]entity.AuditLog, error)
	Count(ctx context.Context, f AuditFilter) (int, error)
}

// EventBus é o registry de assinaturas injetado nos use cases — instância
// explícita, sem singleton. Emissões são best-effort: sem garantia além de
// "no máximo uma vez por assinante conectado".
type EventBus interface {
	// Broadcast entrega o evento a todos os clientes conectados.
	Broadcast(event string, payload any)
	// Notify entrega só aos clientes inscritos na sala do usuário.
	Notify(userID string, event string, payload any)
}

// AuditRecorder grava trilha de auditoria em modo fire-and-forget: falha é
// logada e nunca propaga para a mutação que a disparou.
type AuditRecorder interface {
	Record(userID *string, action, resource, resourceID string, meta map[string]any)
}

// MailService avisa o novo dono por e-mail quando um lead é atribuído.
type MailService interface {
	SendLeadAssigned(to, ownerName, leadName string) error
}

// OverviewCache guarda o overview por alguns segundos para aliviar o banco.
type OverviewCache interface {
	Get(ctx context.Context, key string) (*OverviewOutput, bool)
	Set(ctx context.Context, key string, out *OverviewOutput)
}
