package usecase

import (
	"context"
	"errors"

	"github.com/leadflow/crm-directory/internal/entity"
)

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, entity.Event) error { return nil }

// FanoutPublisher delivers each event to every publisher and joins their
// errors.
type FanoutPublisher []EventPublisher

func (f FanoutPublisher) Publish(ctx context.Context, event entity.Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
