package usecase

// Eventos nomeados entregues pelo fan-out.
const (
	EventLeadCreated       = "lead:created"
	EventLeadUpdated       = "lead:updated"
	EventLeadDeleted       = "lead:deleted"
	EventLeadStatusChanged = "lead:statusChanged"
	EventActivityCreated   = "activity:created"
	EventLeadAssigned      = "notification:leadAssigned"
	EventLeadUnassigned    = "notification:leadUnassigned"
)

type StatusChangedEvent struct {
	LeadID string `json:"leadId"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type LeadAssignedEvent struct {
	LeadID   string `json:"leadId"`
	OwnerID  string `json:"ownerId"`
	LeadName string `json:"leadName"`
}

type LeadUnassignedEvent struct {
	LeadID      string `json:"leadId"`
	PrevOwnerID string `json:"prevOwnerId"`
	LeadName    string `json:"leadName"`
}

type LeadDeletedEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
