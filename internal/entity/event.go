package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventEmployeeCreated     EventType = "employee.created"
	EventEmployeeUpdated     EventType = "employee.updated"
	EventEmployeeActivated   EventType = "employee.activated"
	EventEmployeeDeactivated EventType = "employee.deactivated"
	EventEmployeeDeleted     EventType = "employee.deleted"
	EventLeadCreated         EventType = "lead.created"
	EventLeadUpdated         EventType = "lead.updated"
	EventLeadDeleted         EventType = "lead.deleted"
	EventLeadStatusChanged   EventType = "lead.status_changed"
	EventLeadsImported       EventType = "leads.imported"
	EventLeadsAssigned       EventType = "leads.assigned"
	EventCustomerCreated     EventType = "customer.created"
	EventFollowUpAdded       EventType = "followup.added"
)

// Event describes a state change that has already been persisted.
type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func NewEvent(t EventType, at time.Time, payload any) Event {
	ev := Event{
		ID:         uuid.New().String(),
		Type:       t,
		OccurredAt: at,
	}
	if payload != nil {
		if body, err := json.Marshal(payload); err == nil {
			ev.Payload = body
		}
	}
	return ev
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

type EmployeeDeactivatedPayload struct {
	EmployeeID        string   `json:"employee_id"`
	RecycledLeadCount int      `json:"recycled_lead_count"`
	RecycledLeadIDs   []string `json:"recycled_lead_ids"`
}

type LeadsAssignedPayload struct {
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name"`
	EmployeeEmail string   `json:"employee_email"`
	Mode          string   `json:"mode"` // manual, auto
	LeadIDs       []string `json:"lead_ids"`
}

type LeadStatusChangedPayload struct {
	LeadID string     `json:"lead_id"`
	From   LeadStatus `json:"from"`
	To     LeadStatus `json:"to"`
}

type LeadsImportedPayload struct {
	BatchIDs []string `json:"batch_ids"`
	Count    int      `json:"count"`
}

const (
	AssignModeManual = "manual"
	AssignModeAuto   = "auto"
)
