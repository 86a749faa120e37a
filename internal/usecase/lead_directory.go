package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/jinzhu/copier"

	"github.com/leadflow/crm-directory/internal/entity"
)

// ListLeads returns the leads matching filter, most recently updated
// first.
func (d *Directory) ListLeads(ctx context.Context, filter LeadFilter) ([]entity.Lead, error) {
	var out []entity.Lead
	err := d.read(func(s *entity.Snapshot) {
		out = make([]entity.Lead, 0, len(s.Leads))
		for _, l := range s.Leads {
			if filter.match(l) {
				out = append(out, *l.Clone())
			}
		}
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b entity.Lead) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out, nil
}

// CreateLead adds one lead to the pool. Name, source and batch fall back
// to the manual entry defaults.
func (d *Directory) CreateLead(ctx context.Context, input entity.LeadPatch) (*entity.Lead, error) {
	var created *entity.Lead
	err := d.mutate(ctx, "create_lead", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		lead := entity.NewManualLead(input, now)
		s.Leads = append([]*entity.Lead{lead}, s.Leads...)
		created = lead.Clone()
		return []entity.Event{entity.NewEvent(entity.EventLeadCreated, now, lead)}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateLeadInfo merges the non-empty fields of patch into the lead and
// refreshes its updated timestamp. Empty fields are skipped, so a region or
// note cannot be cleared this way.
func (d *Directory) UpdateLeadInfo(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	var updated *entity.Lead
	err := d.mutate(ctx, "update_lead_info", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		lead := s.Lead(id)
		if lead == nil {
			return nil, notFound(entity.ErrLeadNotFound, id)
		}
		if err := copier.CopyWithOption(lead, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
			return nil, err
		}
		lead.Touch(now)
		updated = lead.Clone()
		return []entity.Event{entity.NewEvent(entity.EventLeadUpdated, now, lead)}, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLead hard deletes the lead. Its follow-ups and customer stay.
func (d *Directory) DeleteLead(ctx context.Context, id string) error {
	return d.mutate(ctx, "delete_lead", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		idx := slices.IndexFunc(s.Leads, func(l *entity.Lead) bool { return l.ID == id })
		if idx < 0 {
			return nil, notFound(entity.ErrLeadNotFound, id)
		}
		s.Leads = slices.Delete(s.Leads, idx, idx+1)
		return []entity.Event{entity.NewEvent(entity.EventLeadDeleted, now, map[string]string{"lead_id": id})}, nil
	})
}

// ImportLeads appends the records to the pool in input order. The whole
// batch shares one creation instant.
func (d *Directory) ImportLeads(ctx context.Context, records []entity.LeadPatch) (*ImportResult, error) {
	result := &ImportResult{LeadIDs: []string{}}
	err := d.mutate(ctx, "import_leads", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		if len(records) == 0 {
			return nil, errNoChange
		}
		batches := []string{}
		for _, rec := range records {
			lead := entity.NewLead(rec, now)
			s.Leads = append(s.Leads, lead)
			result.LeadIDs = append(result.LeadIDs, lead.ID)
			if !slices.Contains(batches, lead.BatchID) {
				batches = append(batches, lead.BatchID)
			}
		}
		result.ImportedCount = len(records)
		return []entity.Event{entity.NewEvent(entity.EventLeadsImported, now, entity.LeadsImportedPayload{
			BatchIDs: batches,
			Count:    len(records),
		})}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ImportSampleLeads imports the canned batch stamped with today's date.
func (d *Directory) ImportSampleLeads(ctx context.Context) (*ImportResult, error) {
	return d.ImportLeads(ctx, SampleImportBatch(d.now()))
}

// UpdateLeadStatus moves the lead to status. Closing a lead as DEAL
// creates its customer in the same step; dealName overrides the
// customer's name when set. Terminal leads cannot move.
func (d *Directory) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus, dealName string) (*StatusUpdateResult, error) {
	if !status.Valid() {
		return nil, invalid(entity.ErrInvalidStatus, string(status))
	}

	result := &StatusUpdateResult{}
	err := d.mutate(ctx, "update_lead_status", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		lead := s.Lead(id)
		if lead == nil {
			return nil, notFound(entity.ErrLeadNotFound, id)
		}
		from := lead.Status
		if from.IsTerminal() {
			return nil, conflict(entity.ErrTerminalLead, id)
		}
		if !entity.CanTransition(from, status) {
			return nil, invalid(entity.ErrInvalidStatus, string(from)+" -> "+string(status))
		}

		lead.Status = status
		lead.Touch(now)
		events := []entity.Event{entity.NewEvent(entity.EventLeadStatusChanged, now, entity.LeadStatusChangedPayload{
			LeadID: id,
			From:   from,
			To:     status,
		})}

		if status == entity.LeadDeal {
			customer := entity.NewCustomerFromLead(lead, dealName, now)
			s.Customers = append(s.Customers, customer)
			result.Customer = customer.Clone()
			events = append(events, entity.NewEvent(entity.EventCustomerCreated, now, customer))
		}
		result.Lead = *lead.Clone()
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
