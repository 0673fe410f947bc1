package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UpdateLeadUseCase struct {
	Leads      LeadRepository
	Users      UserRepository
	Activities ActivityRepository
	Events     EventBus
	Audit      AuditRecorder
	Mail       MailService // opcional; nil desliga o aviso por e-mail

	// OnStatusChange é um gancho opcional (métricas) chamado uma vez por
	// transição de status persistida.
	OnStatusChange func(from, to string)
}

func NewUpdateLeadUseCase(leads LeadRepository, users UserRepository, activities ActivityRepository, events EventBus, audit AuditRecorder, mail MailService) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{
		Leads:      leads,
		Users:      users,
		Activities: activities,
		Events:     events,
		Audit:      audit,
		Mail:       mail,
	}
}

// Execute aplica o PUT de lead como um pipeline ordenado:
// persistir → derivar activity de status → emitir eventos → auditar.
// Auditoria e e-mail são best-effort e nunca falham a mutação.
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, actor auth.Principal, id string, input UpdateLeadInput) (*entity.Lead, error) {
	prev, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if !canMutateLead(actor, prev) {
		return nil, &DomainError{Code: CodeForbidden, Message: "not your lead"}
	}

	if errs := ValidateUpdateLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	next := *prev
	next.Activities = nil
	if input.Name != nil {
		next.Name = *input.Name
	}
	if input.Email != nil {
		next.Email = *input.Email
	}
	if input.Phone != nil {
		next.Phone = *input.Phone
	}
	if input.Status != nil {
		next.Status = *input.Status
	}

	var newOwner *entity.User
	if input.OwnerSet {
		if input.OwnerID == nil {
			next.OwnerID = nil
			next.Owner = nil
		} else {
			owner, err := uc.Users.FindByID(ctx, *input.OwnerID)
			if err != nil {
				if errors.Is(err, entity.ErrUserNotFound) {
					return nil, &DomainError{Code: CodeOwnerNotFound, Message: "owner not found"}
				}
				return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
			}
			newOwner = owner
			next.OwnerID = &owner.ID
			next.Owner = owner.Public()
		}
	}

	if err := uc.Leads.Update(ctx, &next); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	// Transição de status gera exatamente uma activity sintética; valor
	// igual não gera nada.
	statusChanged := input.Status != nil && *input.Status != prev.Status
	if statusChanged {
		activity := entity.NewActivity(next.ID, entity.ActivityStatusChange,
			fmt.Sprintf("%s → %s", prev.Status, next.Status), &actor.ID)
		if err := uc.Activities.Create(ctx, activity); err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
		}
	}

	uc.Events.Broadcast(EventLeadUpdated, &next)
	if statusChanged {
		uc.Events.Broadcast(EventLeadStatusChanged, StatusChangedEvent{
			LeadID: next.ID,
			From:   prev.Status,
			To:     next.Status,
		})
		if uc.OnStatusChange != nil {
			uc.OnStatusChange(prev.Status, next.Status)
		}
	}

	uc.emitOwnerChange(prev, &next)

	changed := leadDiff(prev, &next)
	if len(changed) > 0 {
		uc.Audit.Record(&actor.ID, entity.AuditLeadUpdate, "lead", next.ID, map[string]any{
			"changed": changed,
		})
	}
	uc.auditOwnerChange(actor, prev, &next)

	if newOwner != nil && !sameOwner(prev.OwnerID, next.OwnerID) && uc.Mail != nil {
		go func(to, name, lead string) {
			if err := uc.Mail.SendLeadAssigned(to, name, lead); err != nil {
				log.Printf("mail: falha ao avisar novo dono: %v", err)
			}
		}(newOwner.Email, newOwner.Name, next.Name)
	}

	return &next, nil
}

// emitOwnerChange dispara o par de notificações privadas de reatribuição:
// unassign para o dono antigo, assign para o novo — ou só um lado quando o
// outro é nulo.
func (uc *UpdateLeadUseCase) emitOwnerChange(prev, next *entity.Lead) {
	if sameOwner(prev.OwnerID, next.OwnerID) {
		return
	}
	if next.OwnerID != nil {
		uc.Events.Notify(*next.OwnerID, EventLeadAssigned, LeadAssignedEvent{
			LeadID:   next.ID,
			OwnerID:  *next.OwnerID,
			LeadName: next.Name,
		})
	}
	if prev.OwnerID != nil {
		uc.Events.Notify(*prev.OwnerID, EventLeadUnassigned, LeadUnassignedEvent{
			LeadID:      next.ID,
			PrevOwnerID: *prev.OwnerID,
			LeadName:    next.Name,
		})
	}
}

func (uc *UpdateLeadUseCase) auditOwnerChange(actor auth.Principal, prev, next *entity.Lead) {
	if sameOwner(prev.OwnerID, next.OwnerID) {
		return
	}
	if next.OwnerID != nil {
		uc.Audit.Record(&actor.ID, entity.AuditLeadAssign, "lead", next.ID, map[string]any{
			"from": derefOrNil(prev.OwnerID),
			"to":   *next.OwnerID,
		})
		return
	}
	uc.Audit.Record(&actor.ID, entity.AuditLeadUnassign, "lead", next.ID, map[string]any{
		"from": derefOrNil(prev.OwnerID),
	})
}

// leadDiff monta o diff before/after dos campos escalares mutáveis.
func leadDiff(prev, next *entity.Lead) map[string]map[string]any {
	changed := map[string]map[string]any{}
	if prev.Name != next.Name {
		changed["name"] = map[string]any{"before": prev.Name, "after": next.Name}
	}
	if prev.Email != next.Email {
		changed["email"] = map[string]any{"before": prev.Email, "after": next.Email}
	}
	if prev.Phone != next.Phone {
		changed["phone"] = map[string]any{"before": prev.Phone, "after": next.Phone}
	}
	if prev.Status != next.Status {
		changed["status"] = map[string]any{"before": prev.Status, "after": next.Status}
	}
	if !sameOwner(prev.OwnerID, next.OwnerID) {
		changed["ownerId"] = map[string]any{"before": derefOrNil(prev.OwnerID), "after": derefOrNil(next.OwnerID)}
	}
	return changed
}

// canMutateLead aplica a hierarquia de papéis: ADMIN e MANAGER mexem em
// qualquer lead, SALES_EXEC só nos que possui.
func canMutateLead(actor auth.Principal, lead *entity.Lead) bool {
	if actor.Role == entity.RoleAdmin || actor.Role == entity.RoleManager {
		return true
	}
	return lead.OwnerID != nil && *lead.OwnerID == actor.ID
}

func sameOwner(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
