package entity

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEmployee   Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeInactive EmployeeStatus = "INACTIVE"
)

func (s EmployeeStatus) Valid() bool {
	return s == EmployeeActive || s == EmployeeInactive
}

const (
	DefaultEmployeeName  = "New Employee"
	DefaultEmployeeEmail = "new@crm.com"
)

// Employee is a member of the sales organisation. Lead and customer
// counters are never stored here, see EmployeeView.
type Employee struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Email  string         `json:"email" yaml:"email"`
	Role   Role           `json:"role" yaml:"role"`
	Status EmployeeStatus `json:"status" yaml:"status"`
	LeftAt *time.Time     `json:"leftAt,omitempty" yaml:"leftAt,omitempty"`
}

// EmployeeView is an employee plus the counters computed at read time.
type EmployeeView struct {
	Employee
	AssignedLeadsCount int `json:"assignedLeadsCount"`
	CustomerCount      int `json:"customerCount"`
}

// EmployeePatch carries the editable attributes of an employee. Empty
// fields are left untouched when merged.
type EmployeePatch struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

// NewEmployee applies the creation defaults: role EMPLOYEE, status ACTIVE.
func NewEmployee(name, email string, role Role, status EmployeeStatus) *Employee {
	if name == "" {
		name = DefaultEmployeeName
	}
	if email == "" {
		email = DefaultEmployeeEmail
	}
	if role == "" {
		role = RoleEmployee
	}
	if status == "" {
		status = EmployeeActive
	}
	return &Employee{
		ID:     "emp_" + uuid.New().String(),
		Name:   name,
		Email:  email,
		Role:   role,
		Status: status,
	}
}

func (e *Employee) IsActive() bool {
	return e.Status == EmployeeActive
}

// ReceivesAutoAssignment reports whether round robin may hand leads to e.
// Admins and super admins only get leads by manual assignment.
func (e *Employee) ReceivesAutoAssignment() bool {
	return e.IsActive() && e.Role == RoleEmployee
}

func (e *Employee) Activate() {
	e.Status = EmployeeActive
	e.LeftAt = nil
}

func (e *Employee) Deactivate(at time.Time) {
	e.Status = EmployeeInactive
	left := at
	e.LeftAt = &left
}
