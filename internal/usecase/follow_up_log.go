package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/leadflow/crm-directory/internal/entity"
)

// ListFollowUps returns the follow-ups recorded for leadID, newest first.
// Follow-ups of a deleted lead are still listed.
func (d *Directory) ListFollowUps(ctx context.Context, leadID string) ([]entity.FollowUp, error) {
	var out []entity.FollowUp
	err := d.read(func(s *entity.Snapshot) {
		out = []entity.FollowUp{}
		for _, f := range s.FollowUps {
			if f.LeadID == leadID {
				out = append(out, *f.Clone())
			}
		}
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b entity.FollowUp) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// AddFollowUp records a note on the lead and refreshes the lead's updated
// timestamp. The lead's status is left alone: moving ASSIGNED to
// FOLLOWING is the caller's decision.
func (d *Directory) AddFollowUp(ctx context.Context, input AddFollowUpInput) (*entity.FollowUp, error) {
	var created *entity.FollowUp
	err := d.mutate(ctx, "add_follow_up", func(s *entity.Snapshot, now time.Time) ([]entity.Event, error) {
		lead := s.Lead(input.LeadID)
		if lead == nil {
			return nil, notFound(entity.ErrLeadNotFound, input.LeadID)
		}
		fu := entity.NewFollowUp(input.LeadID, input.OwnerID, input.Content, input.NextFollowUpAt, now)
		s.FollowUps = append([]*entity.FollowUp{fu}, s.FollowUps...)
		lead.Touch(now)
		created = fu.Clone()
		return []entity.Event{entity.NewEvent(entity.EventFollowUpAdded, now, fu)}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
