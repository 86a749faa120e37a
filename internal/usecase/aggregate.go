package usecase

import "github.com/leadflow/crm-directory/internal/entity"

// ActiveLeadCount counts the non-terminal leads owned by employeeID.
func ActiveLeadCount(leads []*entity.Lead, employeeID string) int {
	n := 0
	for _, l := range leads {
		if l.OwnerID == employeeID && l.IsActive() {
			n++
		}
	}
	return n
}

// CustomerCount counts the customers owned by employeeID.
func CustomerCount(customers []*entity.Customer, employeeID string) int {
	n := 0
	for _, c := range customers {
		if c.OwnerID == employeeID {
			n++
		}
	}
	return n
}
