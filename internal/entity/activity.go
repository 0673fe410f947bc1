package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityNote         = "NOTE"
	ActivityCall         = "CALL"
	ActivityMeeting      = "MEETING"
	ActivityStatusChange = "STATUS_CHANGE"
)

var ActivityTypes = []string{ActivityNote, ActivityCall, ActivityMeeting, ActivityStatusChange}

func IsValidActivityType(t string) bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Activity é a timeline append-only de um lead. Nunca é atualizada.
type Activity struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Type      string    `json:"type"`
	Note      string    `json:"note,omitempty"`
	UserID    *string   `json:"userId"` // ator, pode ser nil
	CreatedAt time.Time `json:"createdAt"`
}

func NewActivity(leadID, activityType, note string, userID *string) *Activity {
	return &Activity{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Type:      activityType,
		Note:      note,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}
