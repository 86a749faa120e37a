package usecase

import (
	"context"
	"time"

	"github.com/leadflow/crm-directory/internal/entity"
)

// EventPublisher receives events after the change they describe has been
// persisted. Publishing is best effort and happens outside the directory
// lock, so events from concurrent mutations may arrive in a different order
// than the changes were committed. Consumers that need order should compare
// OccurredAt.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

// Clock returns the current instant.
type Clock func() time.Time
