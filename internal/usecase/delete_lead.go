package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type DeleteLeadUseCase struct {
	Leads  LeadRepository
	Events EventBus
	Audit  AuditRecorder
}

func NewDeleteLeadUseCase(leads LeadRepository, events EventBus, audit AuditRecorder) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{Leads: leads, Events: events, Audit: audit}
}

// Execute remove o lead e toda a sua timeline (cascade na mesma transação).
// Id inexistente é not-found, nunca erro de servidor.
func (uc *DeleteLeadUseCase) Execute(ctx context.Context, actor auth.Principal, id string) error {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if !canMutateLead(actor, lead) {
		return &DomainError{Code: CodeForbidden, Message: "not your lead"}
	}

	if err := uc.Leads.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	uc.Events.Broadcast(EventLeadDeleted, LeadDeletedEvent{ID: lead.ID, Name: lead.Name})
	if lead.OwnerID != nil {
		uc.Events.Notify(*lead.OwnerID, EventLeadUnassigned, LeadUnassignedEvent{
			LeadID:      lead.ID,
			PrevOwnerID: *lead.OwnerID,
			LeadName:    lead.Name,
		})
	}

	uc.Audit.Record(&actor.ID, entity.AuditLeadDelete, "lead", lead.ID, map[string]any{
		"name": lead.Name,
	})

	return nil
}
