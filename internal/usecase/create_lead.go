package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateLeadUseCase struct {
	Leads  LeadRepository
	Users  UserRepository
	Events EventBus
	Audit  AuditRecorder
}

func NewCreateLeadUseCase(leads LeadRepository, users UserRepository, events EventBus, audit AuditRecorder) *CreateLeadUseCase {
	return &CreateLeadUseCase{Leads: leads, Users: users, Events: events, Audit: audit}
}

// Execute cria um lead. Sem status o default é NEW; sem owner o lead fica
// com o criador. A notificação privada de atribuição só sai quando o owner
// foi atribuído explicitamente e não é o próprio criador.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, actor auth.Principal, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	ownerID := input.OwnerID
	explicitOwner := ownerID != ""
	if !explicitOwner {
		ownerID = actor.ID
	}

	owner, err := uc.Users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, &DomainError{Code: CodeOwnerNotFound, Message: "owner not found"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	lead := entity.NewLead(input.Name, input.Email, input.Phone, input.Status, &owner.ID)
	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	lead.Owner = owner.Public()

	uc.Events.Broadcast(EventLeadCreated, lead)
	if explicitOwner && owner.ID != actor.ID {
		uc.Events.Notify(owner.ID, EventLeadAssigned, LeadAssignedEvent{
			LeadID:   lead.ID,
			OwnerID:  owner.ID,
			LeadName: lead.Name,
		})
	}

	uc.Audit.Record(&actor.ID, entity.AuditLeadCreate, "lead", lead.ID, map[string]any{
		"name":    lead.Name,
		"ownerId": owner.ID,
	})

	return lead, nil
}
