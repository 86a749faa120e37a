package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSnapshot(t *testing.T) {
	snap, err := DefaultSnapshot()
	require.NoError(t, err)

	require.Len(t, snap.Employees, 5)
	assert.Equal(t, RoleSuperAdmin, snap.Employee("emp_001").Role)
	assert.Equal(t, RoleAdmin, snap.Employee("emp_002").Role)

	left := snap.Employee("emp_005")
	require.NotNil(t, left)
	assert.Equal(t, EmployeeInactive, left.Status)
	require.NotNil(t, left.LeftAt)
	assert.Equal(t, time.Date(2023, 10, 1, 10, 0, 0, 0, time.UTC), left.LeftAt.UTC())

	require.Len(t, snap.Leads, 7)
	for _, l := range snap.Leads {
		assert.True(t, l.Status.Valid(), l.ID)
		assert.False(t, l.Status.IsTerminal(), l.ID)
		if l.Status == LeadUnassigned {
			assert.Empty(t, l.OwnerID, l.ID)
		} else {
			assert.NotNil(t, snap.Employee(l.OwnerID), l.ID)
		}
	}
	assert.Equal(t, "emp_004", snap.Lead("lead_105").OwnerID)

	require.Len(t, snap.FollowUps, 1)
	assert.Equal(t, "lead_103", snap.FollowUps[0].LeadID)
	assert.NotNil(t, snap.Customers)
	assert.Empty(t, snap.Customers)
}

func TestDefaultSnapshotReturnsFreshCopies(t *testing.T) {
	a, err := DefaultSnapshot()
	require.NoError(t, err)
	b, err := DefaultSnapshot()
	require.NoError(t, err)

	a.Lead("lead_101").Name = "changed"
	assert.Equal(t, "Mr. Chen", b.Lead("lead_101").Name)
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	snap, err := DefaultSnapshot()
	require.NoError(t, err)
	snap.Customers = append(snap.Customers, &Customer{ID: "cust_1", Tags: []string{"vip"}})

	clone := snap.Clone()
	*clone.Employee("emp_005").LeftAt = time.Time{}
	clone.Lead("lead_102").Status = LeadDeal
	clone.Customers[0].Tags[0] = "churned"

	assert.False(t, snap.Employee("emp_005").LeftAt.IsZero())
	assert.Equal(t, LeadAssigned, snap.Lead("lead_102").Status)
	assert.Equal(t, "vip", snap.Customers[0].Tags[0])
}

func TestSnapshotJSONLayout(t *testing.T) {
	snap, err := DefaultSnapshot()
	require.NoError(t, err)

	body, err := json.Marshal(snap)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	for _, key := range []string{"employees", "leads", "followUps", "customers"} {
		assert.Contains(t, raw, key)
	}
	assert.Contains(t, string(body), `"batchId":"BATCH-001"`)
	assert.Contains(t, string(body), `"ownerId":"emp_003"`)
}

func TestSeedable(t *testing.T) {
	var missing *Snapshot
	assert.True(t, missing.Seedable())
	assert.True(t, (&Snapshot{}).Seedable())
	assert.False(t, (&Snapshot{Employees: []*Employee{{ID: "e"}}}).Seedable())
}

func TestNormalizeFillsCollections(t *testing.T) {
	snap := &Snapshot{Customers: []*Customer{{ID: "c"}}}
	snap.Normalize()

	assert.NotNil(t, snap.Employees)
	assert.NotNil(t, snap.Leads)
	assert.NotNil(t, snap.FollowUps)
	assert.NotNil(t, snap.Customers[0].Tags)
}

func TestEventDecode(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := NewEvent(EventLeadsAssigned, at, LeadsAssignedPayload{EmployeeID: "emp_1", LeadIDs: []string{"a", "b"}, Mode: AssignModeAuto})

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, at, ev.OccurredAt)

	var p LeadsAssignedPayload
	require.NoError(t, ev.Decode(&p))
	assert.Equal(t, "emp_1", p.EmployeeID)
	assert.Equal(t, []string{"a", "b"}, p.LeadIDs)
}
