package usecase

import (
	"encoding/json"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Token string             `json:"token"`
	User  *entity.PublicUser `json:"user"`
}

type CreateLeadInput struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Status  string `json:"status,omitempty"`
	OwnerID string `json:"ownerId,omitempty"`
}

// UpdateLeadInput distingue "campo ausente" de "campo null" — necessário
// porque ownerId:null significa desatribuir, e ownerId ausente significa
// não mexer. O UnmarshalJSON registra a presença da chave.
type UpdateLeadInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Status   *string
	OwnerID  *string
	OwnerSet bool
}

func (in *UpdateLeadInput) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Status  *string `json:"status"`
		OwnerID *string `json:"ownerId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	in.Name = raw.Name
	in.Email = raw.Email
	in.Phone = raw.Phone
	in.Status = raw.Status
	in.OwnerID = raw.OwnerID
	_, in.OwnerSet = keys["ownerId"]
	return nil
}

type CreateActivityInput struct {
	LeadID string `json:"leadId"`
	Type   string `json:"type"`
	Note   string `json:"note,omitempty"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"` // YYYY-MM-DD (UTC)
	Count int    `json:"count"`
}

type OverviewTotals struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Contacted int `json:"contacted"`
	Qualified int `json:"qualified"`
	Won       int `json:"won"`
	Lost      int `json:"lost"`
}

type OverviewOutput struct {
	Scope          string         `json:"scope"` // "mine" ou "all"
	CountsByStatus []StatusCount  `json:"countsByStatus"`
	Totals         OverviewTotals `json:"totals"`
	WinRate        float64        `json:"winRate"`
	Activities7d   []DateCount    `json:"activities7d"`
	Leads30d       []DateCount    `json:"leads30d"`
}

// OwnerRow é uma linha do leaderboard por sales exec.
type OwnerRow struct {
	OwnerID    string  `json:"ownerId"`
	OwnerName  string  `json:"ownerName"`
	OwnerEmail string  `json:"ownerEmail"`
	Total      int     `json:"total"`
	WinRate    float64 `json:"winRate"`
	New        int     `json:"NEW"`
	Contacted  int     `json:"CONTACTED"`
	Qualified  int     `json:"QUALIFIED"`
	Won        int     `json:"WON"`
	Lost       int     `json:"LOST"`
}
