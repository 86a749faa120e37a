package usecase

import (
	"context"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/entity"
)

// ListEmployees returns every employee with its active lead and customer
// counters computed from the current collections.
func (d *Directory) ListEmployees(ctx context.Context) ([]entity.EmployeeView, error) {
	var out []entity.EmployeeView
	err := d.read(func(s *entity.Snapshot) {
		out = make([]entity.EmployeeView, 0, len(s.Employees))
		for _, e := range s.Employees {
			out = append(out, entity.EmployeeView{
				Employee:           *e.Clone(),
				AssignedLeadsCount: ActiveLeadCount(s.Leads, e.ID),
				CustomerCount:      CustomerCount(s.Customers, e.ID),
			})
		}
	})
	return out, err
}

func (d *Directory) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*entity.Employee, error) {
	if input.Role != "" && !input.Role.Valid() {
		return nil, invalid(entity.ErrInvalidRole, string(input.Role))
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, invalid(entity.ErrInvalidStatus, string(input.Status))
	}

	var created *entity.Employee
	err := d.mutate(ctx, "create_employee", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		emp := entity.NewEmployee(input.Name, input.Email, input.Role, input.Status)
		s.Employees = append(s.Employees, emp)
		created = emp.Clone()
		return []entity.Event{entity.NewEvent(entity.EventEmployeeCreated, now, emp)}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateEmployee merges the non-empty fields of patch into the employee;
// empty fields keep their current value. Status is not editable here; use
// Activate and Deactivate.
func (d *Directory) UpdateEmployee(ctx context.Context, id string, patch entity.EmployeePatch) (*entity.Employee, error) {
	if patch.Role != "" && !patch.Role.Valid() {
		return nil, invalid(entity.ErrInvalidRole, string(patch.Role))
	}

	var updated *entity.Employee
	err := d.mutate(ctx, "update_employee", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		emp := s.Employee(id)
		if emp == nil {
			return nil, notFound(entity.ErrEmployeeNotFound, id)
		}
		if err := copier.CopyWithOption(emp, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
			return nil, err
		}
		updated = emp.Clone()
		return []entity.Event{entity.NewEvent(entity.EventEmployeeUpdated, now, emp)}, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ActivateEmployee marks the employee active again. Leads recycled when
// they left stay in the pool.
func (d *Directory) ActivateEmployee(ctx context.Context, id string) error {
	return d.mutate(ctx, "activate_employee", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		emp := s.Employee(id)
		if emp == nil {
			return nil, notFound(entity.ErrEmployeeNotFound, id)
		}
		emp.Activate()
		return []entity.Event{entity.NewEvent(entity.EventEmployeeActivated, now, emp)}, nil
	})
}

// DeactivateEmployee offboards the employee and, in the same step,
// returns every non-terminal lead they own to the pool with reason
// EMPLOYEE_LEFT.
func (d *Directory) DeactivateEmployee(ctx context.Context, id string) (*DeactivateResult, error) {
	result := &DeactivateResult{}
	err := d.mutate(ctx, "deactivate_employee", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		emp := s.Employee(id)
		if emp == nil {
			return nil, notFound(entity.ErrEmployeeNotFound, id)
		}
		emp.Deactivate(now)

		recycled := []string{}
		for _, lead := range s.Leads {
			if lead.OwnerID == id && lead.IsActive() {
				lead.Recycle(entity.RecycleEmployeeLeft, now)
				recycled = append(recycled, lead.ID)
			}
		}
		result.RecycledLeadCount = len(recycled)

		return []entity.Event{entity.NewEvent(entity.EventEmployeeDeactivated, now, entity.EmployeeDeactivatedPayload{
			EmployeeID:        id,
			RecycledLeadCount: len(recycled),
			RecycledLeadIDs:   recycled,
		})}, nil
	})
	if err != nil {
		return nil, err
	}
	d.logger.Info("employee deactivated",
		zap.String("employee_id", id),
		zap.Int("recycled", result.RecycledLeadCount))
	return result, nil
}

// DeleteEmployee removes the employee record. Leads, follow-ups and
// customers referencing it are left as they are; owner names resolve to
// UnknownOwnerName afterwards.
func (d *Directory) DeleteEmployee(ctx context.Context, id string) error {
	return d.mutate(ctx, "delete_employee", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		idx := -1
		for i, e := range s.Employees {
			if e.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, notFound(entity.ErrEmployeeNotFound, id)
		}
		s.Employees = append(s.Employees[:idx], s.Employees[idx+1:]...)
		return []entity.Event{entity.NewEvent(entity.EventEmployeeDeleted, now, map[string]string{"employee_id": id})}, nil
	})
}
