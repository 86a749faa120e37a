package entity

import (
	"context"
	"slices"
	"time"
)

// Snapshot is the whole persisted state, written in full after every
// mutation under one versioned key.
type Snapshot struct {
	Employees []*Employee `json:"employees" yaml:"employees"`
	Leads     []*Lead     `json:"leads" yaml:"leads"`
	FollowUps []*FollowUp `json:"followUps" yaml:"followUps"`
	Customers []*Customer `json:"customers" yaml:"customers"`
}

// SnapshotRepository stores snapshots by key. Load returns
// ErrSnapshotNotFound when nothing is stored under key.
type SnapshotRepository interface {
	Load(ctx context.Context, key string) (*Snapshot, error)
	Save(ctx context.Context, key string, snap *Snapshot) error
}

// Seedable reports whether the snapshot should be replaced by defaults.
func (s *Snapshot) Seedable() bool {
	return s == nil || len(s.Employees) == 0
}

// Normalize replaces nil collections with empty ones.
func (s *Snapshot) Normalize() {
	if s.Employees == nil {
		s.Employees = []*Employee{}
	}
	if s.Leads == nil {
		s.Leads = []*Lead{}
	}
	if s.FollowUps == nil {
		s.FollowUps = []*FollowUp{}
	}
	if s.Customers == nil {
		s.Customers = []*Customer{}
	}
	for _, c := range s.Customers {
		if c.Tags == nil {
			c.Tags = []string{}
		}
	}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Employees: make([]*Employee, 0, len(s.Employees)),
		Leads:     make([]*Lead, 0, len(s.Leads)),
		FollowUps: make([]*FollowUp, 0, len(s.FollowUps)),
		Customers: make([]*Customer, 0, len(s.Customers)),
	}
	for _, e := range s.Employees {
		out.Employees = append(out.Employees, e.Clone())
	}
	for _, l := range s.Leads {
		out.Leads = append(out.Leads, l.Clone())
	}
	for _, f := range s.FollowUps {
		out.FollowUps = append(out.FollowUps, f.Clone())
	}
	for _, c := range s.Customers {
		out.Customers = append(out.Customers, c.Clone())
	}
	return out
}

func (s *Snapshot) Employee(id string) *Employee {
	for _, e := range s.Employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *Snapshot) Lead(id string) *Lead {
	for _, l := range s.Leads {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (e *Employee) Clone() *Employee {
	c := *e
	c.LeftAt = cloneTime(e.LeftAt)
	return &c
}

func (l *Lead) Clone() *Lead {
	c := *l
	c.RecycledAt = cloneTime(l.RecycledAt)
	return &c
}

func (f *FollowUp) Clone() *FollowUp {
	c := *f
	c.NextFollowUpAt = cloneTime(f.NextFollowUpAt)
	return &c
}

func (c *Customer) Clone() *Customer {
	out := *c
	out.Tags = slices.Clone(c.Tags)
	out.RecycledAt = cloneTime(c.RecycledAt)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
