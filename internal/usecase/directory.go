package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/entity"
)

// DefaultStorageKey is the versioned snapshot key. Bumping the version
// is the migration mechanism: data under an older key is ignored.
const DefaultStorageKey = "crm_mock_db_v3"

// Directory is the lead and employee directory service. It owns the
// in-memory collections; every mutation is applied and persisted under one
// lock before the caller sees the result.
type Directory struct {
	mu        sync.RWMutex
	state     *entity.Snapshot
	store     entity.SnapshotRepository
	key       string
	now       Clock
	latency   Latency
	publisher EventPublisher
	logger    *zap.Logger
}

type Option func(*Directory)

func WithClock(c Clock) Option {
	return func(d *Directory) { d.now = c }
}

func WithLatency(min, max time.Duration) Option {
	return func(d *Directory) { d.latency = Latency{Min: min, Max: max} }
}

func WithoutLatency() Option {
	return func(d *Directory) { d.latency = Latency{} }
}

func WithPublisher(p EventPublisher) Option {
	return func(d *Directory) { d.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Directory) { d.logger = l }
}

func WithStorageKey(key string) Option {
	return func(d *Directory) { d.key = key }
}

func NewDirectory(store entity.SnapshotRepository, opts ...Option) *Directory {
	d := &Directory{
		store:     store,
		key:       DefaultStorageKey,
		now:       func() time.Time { return time.Now().UTC() },
		latency:   DefaultLatency,
		publisher: NopPublisher{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open loads the snapshot stored under the directory key. An absent
// snapshot, or one without employees, is replaced by the default dataset,
// which is persisted immediately.
func (d *Directory) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap, err := d.store.Load(ctx, d.key)
	if err != nil && !errors.Is(err, entity.ErrSnapshotNotFound) {
		return &TechnicalError{Code: CodePersistFailed, Message: "failed to load snapshot: " + err.Error(), Err: err}
	}
	if !snap.Seedable() {
		snap.Normalize()
		d.state = snap
		d.logger.Info("snapshot loaded",
			zap.String("key", d.key),
			zap.Int("employees", len(snap.Employees)),
			zap.Int("leads", len(snap.Leads)))
		return nil
	}
	return d.seedLocked(ctx)
}

// Reset discards the current state and persists the default dataset.
func (d *Directory) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seedLocked(ctx)
}

func (d *Directory) seedLocked(ctx context.Context) error {
	seed, err := entity.DefaultSnapshot()
	if err != nil {
		return &TechnicalError{Code: CodeSeedFailed, Message: err.Error(), Err: err}
	}
	if err := d.store.Save(context.WithoutCancel(ctx), d.key, seed); err != nil {
		return &TechnicalError{Code: CodePersistFailed, Message: "failed to persist seed: " + err.Error(), Err: err}
	}
	d.state = seed
	d.logger.Info("snapshot seeded with defaults", zap.String("key", d.key))
	return nil
}

// errNoChange tells mutate that the operation left the state untouched
// and nothing needs persisting.
var errNoChange = errors.New("no change")

// mutation applies a change to the snapshot and returns the events that
// describe it. It must validate before touching state.
type mutation func(s *entity.Snapshot, now time.Time) ([]entity.Event, error)

func (d *Directory) mutate(ctx context.Context, name string, fn mutation) error {
	d.latency.Wait()

	// The caller may stop waiting; the mutation still completes.
	ctx = context.WithoutCancel(ctx)

	d.mu.Lock()
	if d.state == nil {
		d.mu.Unlock()
		return &TechnicalError{Code: CodePersistFailed, Message: "directory is not open"}
	}

	now := d.now()
	backup := d.state.Clone()
	var events []entity.Event

	txn := NewTransaction(d.logger)
	txn.AddOperation("apply_"+name, func(context.Context) error {
		var err error
		events, err = fn(d.state, now)
		if err != nil {
			d.state = backup
		}
		return err
	})
	txn.AddCompensation("restore_"+name, func(context.Context) error {
		d.state = backup
		return nil
	})
	txn.AddOperation("persist_snapshot", func(ctx context.Context) error {
		return d.store.Save(ctx, d.key, d.state)
	})

	err := txn.Execute(ctx)
	d.mu.Unlock()

	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		var de *DomainError
		if errors.As(err, &de) {
			return de
		}
		d.logger.Error("mutation rolled back", zap.String("operation", name), zap.Error(err))
		return &TechnicalError{Code: CodePersistFailed, Message: fmt.Sprintf("%s: %v", name, err), Err: err}
	}

	d.logger.Debug("mutation applied", zap.String("operation", name), zap.Int("events", len(events)))
	d.publish(ctx, events)
	return nil
}

// read runs fn under the read lock after the simulated latency.
func (d *Directory) read(fn func(s *entity.Snapshot)) error {
	d.latency.Wait()
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state == nil {
		return &TechnicalError{Code: CodePersistFailed, Message: "directory is not open"}
	}
	fn(d.state)
	return nil
}

func (d *Directory) publish(ctx context.Context, events []entity.Event) {
	if d.publisher == nil {
		return
	}
	for _, ev := range events {
		if err := d.publisher.Publish(ctx, ev); err != nil {
			d.logger.Warn("event publish failed",
				zap.String("event", string(ev.Type)),
				zap.String("event_id", ev.ID),
				zap.Error(err))
		}
	}
}
