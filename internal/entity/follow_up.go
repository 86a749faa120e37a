package entity

import (
	"time"

	"github.com/google/uuid"
)

// FollowUp is an immutable note an employee leaves on a lead.
type FollowUp struct {
	ID             string     `json:"id" yaml:"id"`
	LeadID         string     `json:"leadId" yaml:"leadId"`
	OwnerID        string     `json:"ownerId" yaml:"ownerId"`
	Content        string     `json:"content" yaml:"content"`
	CreatedAt      time.Time  `json:"createdAt" yaml:"createdAt"`
	NextFollowUpAt *time.Time `json:"nextFollowUpAt,omitempty" yaml:"nextFollowUpAt,omitempty"`
}

func NewFollowUp(leadID, ownerID, content string, next *time.Time, at time.Time) *FollowUp {
	fu := &FollowUp{
		ID:        "fu_" + uuid.New().String(),
		LeadID:    leadID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: at,
	}
	if next != nil {
		n := *next
		fu.NextFollowUpAt = &n
	}
	return fu
}
