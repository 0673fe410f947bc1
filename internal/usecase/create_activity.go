package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateActivityUseCase struct {
	Activities ActivityRepository
	Leads      LeadRepository
	Events     EventBus
	Audit      AuditRecorder
}

func NewCreateActivityUseCase(activities ActivityRepository, leads LeadRepository, events EventBus, audit AuditRecorder) *CreateActivityUseCase {
	return &CreateActivityUseCase{Activities: activities, Leads: leads, Events: events, Audit: audit}
}

// Execute adiciona uma entrada na timeline do lead. Timeline é append-only.
func (uc *CreateActivityUseCase) Execute(ctx context.Context, actor auth.Principal, input CreateActivityInput) (*entity.Activity, error) {
	if errs := ValidateCreateActivityInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	if _, err := uc.Leads.FindByID(ctx, input.LeadID); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	activity := entity.NewActivity(input.LeadID, input.Type, input.Note, &actor.ID)
	if err := uc.Activities.Create(ctx, activity); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	uc.Events.Broadcast(EventActivityCreated, activity)

	uc.Audit.Record(&actor.ID, entity.AuditActivityCreate, "activity", activity.ID, map[string]any{
		"type":   activity.Type,
		"leadId": activity.LeadID,
	})

	return activity, nil
}
