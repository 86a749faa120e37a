package entity

import (
	"time"

	"github.com/google/uuid"
)

// Customer is created once, when its lead closes as a DEAL. Name, phone
// and owner are snapshotted from the lead at that moment.
type Customer struct {
	ID         string     `json:"id" yaml:"id"`
	LeadID     string     `json:"leadId" yaml:"leadId"`
	Name       string     `json:"name" yaml:"name"`
	Phone      string     `json:"phone" yaml:"phone"`
	OwnerID    string     `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	DealAt     time.Time  `json:"dealAt" yaml:"dealAt"`
	UpdatedAt  time.Time  `json:"updatedAt" yaml:"updatedAt"`
	Tags       []string   `json:"tags" yaml:"tags"`
	RecycledAt *time.Time `json:"recycledAt,omitempty" yaml:"recycledAt,omitempty"`
}

// NewCustomerFromLead closes lead as a customer. dealName overrides the
// lead's name when set.
func NewCustomerFromLead(lead *Lead, dealName string, at time.Time) *Customer {
	name := dealName
	if name == "" {
		name = lead.Name
	}
	return &Customer{
		ID:        "cust_" + uuid.New().String(),
		LeadID:    lead.ID,
		Name:      name,
		Phone:     lead.Phone,
		OwnerID:   lead.OwnerID,
		DealAt:    at,
		UpdatedAt: at,
		Tags:      []string{},
	}
}
