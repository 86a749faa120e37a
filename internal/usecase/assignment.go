package usecase

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/entity"
)

// AssignLeads hands the listed leads to employeeID. Status is forced to
// ASSIGNED whatever it was and recycle metadata is cleared. Unknown lead
// ids are skipped.
func (d *Directory) AssignLeads(ctx context.Context, leadIDs []string, employeeID string) (*AssignResult, error) {
	result := &AssignResult{}
	err := d.mutate(ctx, "assign_leads", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		emp := s.Employee(employeeID)
		if emp == nil {
			return nil, notFound(entity.ErrEmployeeNotFound, employeeID)
		}

		assigned := []string{}
		for _, lead := range s.Leads {
			if slices.Contains(leadIDs, lead.ID) {
				lead.AssignTo(employeeID, now)
				assigned = append(assigned, lead.ID)
			}
		}
		result.AssignedCount = len(assigned)
		if len(assigned) == 0 {
			return nil, errNoChange
		}
		return []entity.Event{assignedEvent(emp, entity.AssignModeManual, assigned, now)}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AutoAssignLeads distributes every pool lead over the active EMPLOYEE
// role members by round robin: the i-th pool lead, in collection order,
// goes to eligible employee i mod n. With no eligible employee or an empty
// pool nothing changes.
func (d *Directory) AutoAssignLeads(ctx context.Context) (*AutoAssignResult, error) {
	result := &AutoAssignResult{}
	err := d.mutate(ctx, "auto_assign_leads", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		var eligible []*entity.Employee
		for _, e := range s.Employees {
			if e.ReceivesAutoAssignment() {
				eligible = append(eligible, e)
			}
		}
		var pool []*entity.Lead
		for _, l := range s.Leads {
			if l.Status == entity.LeadUnassigned {
				pool = append(pool, l)
			}
		}
		if len(eligible) == 0 || len(pool) == 0 {
			return nil, errNoChange
		}

		perEmployee := make([][]string, len(eligible))
		for i, lead := range pool {
			slot := i % len(eligible)
			lead.AssignTo(eligible[slot].ID, now)
			perEmployee[slot] = append(perEmployee[slot], lead.ID)
		}
		result.AssignedCount = len(pool)

		var events []entity.Event
		for slot, ids := range perEmployee {
			if len(ids) > 0 {
				events = append(events, assignedEvent(eligible[slot], entity.AssignModeAuto, ids, now))
			}
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	d.logger.Info("auto assignment finished", zap.Int("assigned", result.AssignedCount))
	return result, nil
}

func assignedEvent(emp *entity.Employee, mode string, leadIDs []string, at time.Time) entity.Event {
	return entity.NewEvent(entity.EventLeadsAssigned, at, entity.LeadsAssignedPayload{
		EmployeeID:    emp.ID,
		EmployeeName:  emp.Name,
		EmployeeEmail: emp.Email,
		Mode:          mode,
		LeadIDs:       leadIDs,
	})
}
