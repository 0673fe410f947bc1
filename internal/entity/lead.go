package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusNew       = "NEW"
	StatusContacted = "CONTACTED"
	StatusQualified = "QUALIFIED"
	StatusWon       = "WON"
	StatusLost      = "LOST"
)

// LeadStatuses na ordem fixa que o analytics reporta.
var LeadStatuses = []string{StatusNew, StatusContacted, StatusQualified, StatusWon, StatusLost}

func IsValidLeadStatus(status string) bool {
	for _, s := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Lead struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	Status     string      `json:"status"`
	OwnerID    *string     `json:"ownerId"` // nil = sem dono
	Owner      *PublicUser `json:"owner,omitempty"`
	Activities []Activity  `json:"activities,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Factory
func NewLead(name, email, phone, status string, ownerID *string) *Lead {
	if status == "" {
		status = StatusNew
	}
	now := time.Now().UTC()
	return &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Status:    status,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
