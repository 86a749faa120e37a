package usecase

import (
	"context"

	"github.com/leadflow/crm-directory/internal/entity"
)

// UnknownOwnerName stands in for an owner id that no longer resolves to
// an employee.
const UnknownOwnerName = "Unknown"

// ListCustomers returns the customers, optionally only those of ownerID,
// in creation order.
func (d *Directory) ListCustomers(ctx context.Context, ownerID string) ([]entity.Customer, error) {
	var out []entity.Customer
	err := d.read(func(s *entity.Snapshot) {
		out = []entity.Customer{}
		for _, c := range s.Customers {
			if ownerID == "" || c.OwnerID == ownerID {
				out = append(out, *c.Clone())
			}
		}
	})
	return out, err
}

// ResolveOwnerNames maps each owner id to the employee's name. Empty ids
// map to "" and dangling ids to UnknownOwnerName. It does not simulate
// latency; it backs presentation of data already fetched.
func (d *Directory) ResolveOwnerNames(ids []string) map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if id == "" {
			names[id] = ""
			continue
		}
		names[id] = UnknownOwnerName
		if d.state == nil {
			continue
		}
		if e := d.state.Employee(id); e != nil {
			names[id] = e.Name
		}
	}
	return names
}
