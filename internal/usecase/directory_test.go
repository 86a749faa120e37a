package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadflow/crm-directory/internal/entity"
	"github.com/leadflow/crm-directory/internal/infra/database"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// stepClock advances one second per call so consecutive mutations get
// distinct timestamps.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// MockSnapshotStore
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Load(ctx context.Context, key string) (*entity.Snapshot, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Snapshot), args.Error(1)
}

func (m *MockSnapshotStore) Save(ctx context.Context, key string, snap *entity.Snapshot) error {
	args := m.Called(ctx, key, snap)
	return args.Error(0)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event entity.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// recordingPublisher keeps every event it receives.
type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event entity.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(t entity.EventType) []entity.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []entity.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newTestDirectory(t *testing.T, opts ...Option) (*Directory, *database.MemorySnapshotStore) {
	t.Helper()
	store := database.NewMemorySnapshotStore()
	clock := &stepClock{t: testNow}
	all := append([]Option{WithoutLatency(), WithClock(clock.Now)}, opts...)
	dir := NewDirectory(store, all...)
	require.NoError(t, dir.Open(context.Background()))
	return dir, store
}

func leadByID(t *testing.T, dir *Directory, id string) entity.Lead {
	t.Helper()
	leads, err := dir.ListLeads(context.Background(), LeadFilter{})
	require.NoError(t, err)
	for _, l := range leads {
		if l.ID == id {
			return l
		}
	}
	t.Fatalf("lead %s not found", id)
	return entity.Lead{}
}

func employeeByID(t *testing.T, dir *Directory, id string) entity.EmployeeView {
	t.Helper()
	employees, err := dir.ListEmployees(context.Background())
	require.NoError(t, err)
	for _, e := range employees {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("employee %s not found", id)
	return entity.EmployeeView{}
}

func TestOpenSeedsDefaultsWhenStoreIsEmpty(t *testing.T) {
	dir, store := newTestDirectory(t)

	employees, err := dir.ListEmployees(context.Background())
	require.NoError(t, err)
	assert.Len(t, employees, 5)

	leads, err := dir.ListLeads(context.Background(), LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, leads, 7)

	persisted, err := store.Load(context.Background(), DefaultStorageKey)
	require.NoError(t, err)
	assert.Len(t, persisted.Employees, 5)
	assert.Len(t, persisted.Leads, 7)
	assert.Len(t, persisted.FollowUps, 1)
	assert.Empty(t, persisted.Customers)
}

func TestOpenKeepsExistingSnapshot(t *testing.T) {
	store := database.NewMemorySnapshotStore()
	existing := &entity.Snapshot{
		Employees: []*entity.Employee{{ID: "emp_x", Name: "Solo", Email: "solo@crm.com", Role: entity.RoleEmployee, Status: entity.EmployeeActive}},
	}
	require.NoError(t, store.Save(context.Background(), DefaultStorageKey, existing))

	dir := NewDirectory(store, WithoutLatency())
	require.NoError(t, dir.Open(context.Background()))

	employees, err := dir.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Solo", employees[0].Name)

	leads, err := dir.ListLeads(context.Background(), LeadFilter{})
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestOpenReseedsSnapshotWithoutEmployees(t *testing.T) {
	store := database.NewMemorySnapshotStore()
	require.NoError(t, store.Save(context.Background(), DefaultStorageKey, &entity.Snapshot{
		Leads: []*entity.Lead{{ID: "lead_orphan", Status: entity.LeadUnassigned}},
	}))

	dir := NewDirectory(store, WithoutLatency())
	require.NoError(t, dir.Open(context.Background()))

	employees, err := dir.ListEmployees(context.Background())
	require.NoError(t, err)
	assert.Len(t, employees, 5)
}

func TestOpenIgnoresOtherStorageKeys(t *testing.T) {
	store := database.NewMemorySnapshotStore()
	require.NoError(t, store.Save(context.Background(), "crm_mock_db_v2", &entity.Snapshot{
		Employees: []*entity.Employee{{ID: "emp_old", Role: entity.RoleEmployee, Status: entity.EmployeeActive}},
	}))

	dir := NewDirectory(store, WithoutLatency())
	require.NoError(t, dir.Open(context.Background()))

	employees, err := dir.ListEmployees(context.Background())
	require.NoError(t, err)
	assert.Len(t, employees, 5)
}

func TestOpenFailsWhenStoreLoadFails(t *testing.T) {
	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything, DefaultStorageKey).Return(nil, errors.New("disk on fire"))

	dir := NewDirectory(store, WithoutLatency())
	err := dir.Open(context.Background())

	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestOperationsBeforeOpenFail(t *testing.T) {
	dir := NewDirectory(database.NewMemorySnapshotStore(), WithoutLatency())

	_, err := dir.ListEmployees(context.Background())
	assert.Error(t, err)

	_, err = dir.CreateLead(context.Background(), entity.LeadPatch{Name: "x"})
	assert.Error(t, err)
}

func TestStateSurvivesReopen(t *testing.T) {
	dir, store := newTestDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateLead(ctx, entity.LeadPatch{Name: "Persisted", Phone: "13811112222"})
	require.NoError(t, err)
	_, err = dir.DeactivateEmployee(ctx, "emp_004")
	require.NoError(t, err)

	reopened := NewDirectory(store, WithoutLatency())
	require.NoError(t, reopened.Open(ctx))

	got := leadByID(t, reopened, created.ID)
	assert.Equal(t, "Persisted", got.Name)
	assert.Equal(t, entity.LeadUnassigned, got.Status)

	recycled := leadByID(t, reopened, "lead_105")
	assert.Equal(t, entity.LeadUnassigned, recycled.Status)
	assert.Empty(t, recycled.OwnerID)

	emp := employeeByID(t, reopened, "emp_004")
	assert.Equal(t, entity.EmployeeInactive, emp.Status)
}

func TestResetRestoresSeedData(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, dir.DeleteEmployee(ctx, "emp_001"))
	_, err := dir.ImportSampleLeads(ctx)
	require.NoError(t, err)

	require.NoError(t, dir.Reset(ctx))

	employees, err := dir.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 5)
	leads, err := dir.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, leads, 7)
}

func TestPersistFailureRollsBackMemory(t *testing.T) {
	seed, err := entity.DefaultSnapshot()
	require.NoError(t, err)

	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything, DefaultStorageKey).Return(seed, nil)
	store.On("Save", mock.Anything, DefaultStorageKey, mock.Anything).Return(errors.New("quota exceeded"))

	publisher := new(MockEventPublisher)

	dir := NewDirectory(store, WithoutLatency(), WithPublisher(publisher))
	require.NoError(t, dir.Open(context.Background()))

	res, err := dir.DeactivateEmployee(context.Background(), "emp_003")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsTechnicalError(err))

	emp := employeeByID(t, dir, "emp_003")
	assert.Equal(t, entity.EmployeeActive, emp.Status)
	assert.Equal(t, 2, emp.AssignedLeadsCount)

	lead := leadByID(t, dir, "lead_103")
	assert.Equal(t, entity.LeadFollowing, lead.Status)
	assert.Equal(t, "emp_003", lead.OwnerID)

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDomainErrorLeavesStateUntouched(t *testing.T) {
	dir, _ := newTestDirectory(t)

	_, err := dir.UpdateLeadStatus(context.Background(), "lead_103", entity.LeadAssigned, "")
	require.Error(t, err)
	assert.True(t, IsDomainError(err))

	lead := leadByID(t, dir, "lead_103")
	assert.Equal(t, entity.LeadFollowing, lead.Status)
}

func TestEventsArePublishedAfterCommit(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e entity.Event) bool {
		return e.Type == entity.EventEmployeeDeactivated
	})).Return(nil).Once()

	dir, _ := newTestDirectory(t, WithPublisher(publisher))

	_, err := dir.DeactivateEmployee(context.Background(), "emp_004")
	require.NoError(t, err)

	publisher.AssertExpectations(t)
	call := publisher.Calls[0]
	ev := call.Arguments.Get(1).(entity.Event)

	var payload entity.EmployeeDeactivatedPayload
	require.NoError(t, ev.Decode(&payload))
	assert.Equal(t, "emp_004", payload.EmployeeID)
	assert.Equal(t, 1, payload.RecycledLeadCount)
	assert.Equal(t, []string{"lead_105"}, payload.RecycledLeadIDs)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	dir, _ := newTestDirectory(t, WithPublisher(publisher))

	lead, err := dir.CreateLead(context.Background(), entity.LeadPatch{Name: "Still saved"})
	require.NoError(t, err)
	assert.Equal(t, "Still saved", leadByID(t, dir, lead.ID).Name)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	dir, store := newTestDirectory(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := dir.CreateLead(ctx, entity.LeadPatch{Name: "Parallel"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	leads, err := dir.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, leads, 27)

	persisted, err := store.Load(ctx, DefaultStorageKey)
	require.NoError(t, err)
	assert.Len(t, persisted.Leads, 27)
}

func TestCancelledCallerStillCompletesMutation(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lead, err := dir.CreateLead(ctx, entity.LeadPatch{Name: "Late"})
	require.NoError(t, err)
	assert.Equal(t, "Late", leadByID(t, dir, lead.ID).Name)
}

func TestLatencyStaysInBounds(t *testing.T) {
	l := Latency{Min: 100 * time.Millisecond, Max: 400 * time.Millisecond}
	for i := 0; i < 200; i++ {
		d := l.Next()
		assert.GreaterOrEqual(t, d, l.Min)
		assert.Less(t, d, l.Max)
	}

	assert.Zero(t, Latency{}.Next())
	assert.False(t, Latency{}.Enabled())
}
