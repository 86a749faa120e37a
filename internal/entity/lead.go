package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadUnassigned LeadStatus = "UNASSIGNED" // in the pool
	LeadAssigned   LeadStatus = "ASSIGNED"
	LeadFollowing  LeadStatus = "FOLLOWING"
	LeadDeal       LeadStatus = "DEAL"
	LeadInvalid    LeadStatus = "INVALID"
)

func (s LeadStatus) Valid() bool {
	_, ok := leadTransitions[s]
	return ok
}

// IsTerminal reports DEAL and INVALID. Terminal leads are never recycled
// and do not count as active.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadDeal || s == LeadInvalid
}

// Allowed targets of an explicit status update. UNASSIGNED is only ever
// reached through recycling.
var leadTransitions = map[LeadStatus]map[LeadStatus]bool{
	LeadUnassigned: {LeadAssigned: true, LeadFollowing: true, LeadDeal: true, LeadInvalid: true},
	LeadAssigned:   {LeadAssigned: true, LeadFollowing: true, LeadDeal: true, LeadInvalid: true},
	LeadFollowing:  {LeadFollowing: true, LeadDeal: true, LeadInvalid: true},
	LeadDeal:       {},
	LeadInvalid:    {},
}

func CanTransition(from, to LeadStatus) bool {
	return leadTransitions[from][to]
}

type RecycleReason string

const (
	RecycleEmployeeLeft RecycleReason = "EMPLOYEE_LEFT"
	RecycleManual       RecycleReason = "MANUAL"
)

const (
	DefaultLeadName   = "Unnamed"
	ManualEntrySource = "Manual Entry"
	ManualEntryBatch  = "Manual Entry"
)

type Lead struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Phone         string        `json:"phone" yaml:"phone"`
	Source        string        `json:"source" yaml:"source"`
	BatchID       string        `json:"batchId" yaml:"batchId"`
	Status        LeadStatus    `json:"status" yaml:"status"`
	Region        string        `json:"region,omitempty" yaml:"region,omitempty"`
	OwnerID       string        `json:"ownerId,omitempty" yaml:"ownerId,omitempty"` // empty while in the pool
	CreatedAt     time.Time     `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" yaml:"updatedAt"`
	RecycledAt    *time.Time    `json:"recycledAt,omitempty" yaml:"recycledAt,omitempty"`
	RecycleReason RecycleReason `json:"recycleReason,omitempty" yaml:"recycleReason,omitempty"`
	Notes         string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// LeadPatch carries the descriptive fields of a lead. Status and owner
// are not editable this way; they move through assignment, status updates
// and recycling.
type LeadPatch struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Source  string `json:"source,omitempty"`
	BatchID string `json:"batchId,omitempty"`
	Region  string `json:"region,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// NewLead builds a pool lead from the given fields. No defaults are
// applied; see NewManualLead for single entry.
func NewLead(fields LeadPatch, at time.Time) *Lead {
	return &Lead{
		ID:        "lead_" + uuid.New().String(),
		Name:      fields.Name,
		Phone:     fields.Phone,
		Source:    fields.Source,
		BatchID:   fields.BatchID,
		Region:    fields.Region,
		Notes:     fields.Notes,
		Status:    LeadUnassigned,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// NewManualLead is NewLead with the manual entry defaults filled in.
func NewManualLead(fields LeadPatch, at time.Time) *Lead {
	if fields.Name == "" {
		fields.Name = DefaultLeadName
	}
	if fields.Source == "" {
		fields.Source = ManualEntrySource
	}
	if fields.BatchID == "" {
		fields.BatchID = ManualEntryBatch
	}
	return NewLead(fields, at)
}

func (l *Lead) IsActive() bool {
	return !l.Status.IsTerminal()
}

func (l *Lead) IsRecycled() bool {
	return l.RecycledAt != nil
}

// AssignTo hands the lead to ownerID, forcing ASSIGNED whatever the
// previous status and dropping recycle metadata.
func (l *Lead) AssignTo(ownerID string, at time.Time) {
	l.OwnerID = ownerID
	l.Status = LeadAssigned
	l.RecycledAt = nil
	l.RecycleReason = ""
	l.UpdatedAt = at
}

// Recycle returns the lead to the pool.
func (l *Lead) Recycle(reason RecycleReason, at time.Time) {
	recycled := at
	l.OwnerID = ""
	l.Status = LeadUnassigned
	l.RecycledAt = &recycled
	l.RecycleReason = reason
	l.UpdatedAt = at
}

func (l *Lead) Touch(at time.Time) {
	l.UpdatedAt = at
}

// Matches reports whether query is a substring of the lead's name or phone.
func (l *Lead) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(l.Name, query) || strings.Contains(l.Phone, query)
}
