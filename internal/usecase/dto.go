package usecase

import (
	"time"

	"github.com/leadflow/crm-directory/internal/entity"
)

type CreateEmployeeInput struct {
	Name   string                `json:"name"`
	Email  string                `json:"email"`
	Role   entity.Role           `json:"role,omitempty"`
	Status entity.EmployeeStatus `json:"status,omitempty"`
}

type DeactivateResult struct {
	RecycledLeadCount int `json:"recycledLeadCount"`
}

// LeadFilter narrows ListLeads. Set fields are AND-combined by exact
// match, except Query which is a substring match on name or phone.
type LeadFilter struct {
	OwnerID  string
	Status   entity.LeadStatus
	Recycled bool
	Query    string
}

func (f LeadFilter) match(l *entity.Lead) bool {
	if f.OwnerID != "" && l.OwnerID != f.OwnerID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.Recycled && !l.IsRecycled() {
		return false
	}
	return l.Matches(f.Query)
}

type ImportResult struct {
	ImportedCount int      `json:"importedCount"`
	LeadIDs       []string `json:"leadIds"`
}

type AssignResult struct {
	AssignedCount int `json:"assignedCount"`
}

type AutoAssignResult struct {
	AssignedCount int `json:"assignedCount"`
}

type StatusUpdateResult struct {
	Lead     entity.Lead      `json:"lead"`
	Customer *entity.Customer `json:"customer,omitempty"`
}

type AddFollowUpInput struct {
	LeadID         string     `json:"leadId"`
	OwnerID        string     `json:"ownerId"`
	Content        string     `json:"content"`
	NextFollowUpAt *time.Time `json:"nextFollowUpAt,omitempty"`
}
