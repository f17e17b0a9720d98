package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetgrid/wsreport/telemetry"
	"github.com/fleetgrid/wsreport/types"
)

type mockCloud struct {
	listWorkspacesFunc   func(ctx context.Context) ([]types.Workspace, error)
	connectionStatusFunc func(ctx context.Context, workspaceID string) (types.ConnectionStatus, error)
	classifyActivityFunc func(ctx context.Context, workspaceID string, window types.ActivityWindow) (types.ActivityVerdict, error)
	resolveSubnetFunc    func(ctx context.Context, subnetID string) (types.SubnetInfo, error)
	bundleNameFunc       func(ctx context.Context, bundleID string) string
	directoryNameFunc    func(ctx context.Context, directoryID string) string
	workspaceTagsFunc    func(ctx context.Context, workspaceID string) map[string]string
}

func (m *mockCloud) ListWorkspaces(ctx context.Context) ([]types.Workspace, error) {
	return m.listWorkspacesFunc(ctx)
}

func (m *mockCloud) ConnectionStatus(ctx context.Context, workspaceID string) (types.ConnectionStatus, error) {
	if m.connectionStatusFunc == nil {
		return types.ConnectionStatus{}, nil
	}
	return m.connectionStatusFunc(ctx, workspaceID)
}

func (m *mockCloud) ClassifyActivity(ctx context.Context, workspaceID string, window types.ActivityWindow) (types.ActivityVerdict, error) {
	if m.classifyActivityFunc == nil {
		return types.ActivityVerdict{Window: window}, nil
	}
	return m.classifyActivityFunc(ctx, workspaceID, window)
}

func (m *mockCloud) ResolveSubnet(ctx context.Context, subnetID string) (types.SubnetInfo, error) {
	if m.resolveSubnetFunc == nil {
		return types.SubnetInfo{}, nil
	}
	return m.resolveSubnetFunc(ctx, subnetID)
}

func (m *mockCloud) BundleName(ctx context.Context, bundleID string) string {
	if m.bundleNameFunc == nil {
		return ""
	}
	return m.bundleNameFunc(ctx, bundleID)
}

func (m *mockCloud) DirectoryName(ctx context.Context, directoryID string) string {
	if m.directoryNameFunc == nil {
		return ""
	}
	return m.directoryNameFunc(ctx, directoryID)
}

func (m *mockCloud) WorkspaceTags(ctx context.Context, workspaceID string) map[string]string {
	if m.workspaceTagsFunc == nil {
		return map[string]string{}
	}
	return m.workspaceTagsFunc(ctx, workspaceID)
}

type mockDirectory struct {
	resolveUserFunc     func(samAccountName string) (types.UserInfo, error)
	resolveComputerFunc func(computerName string) (types.ComputerInfo, error)
}

func (m *mockDirectory) ResolveUser(samAccountName string) (types.UserInfo, error) {
	if m.resolveUserFunc == nil {
		return types.UserInfo{}, nil
	}
	return m.resolveUserFunc(samAccountName)
}

func (m *mockDirectory) ResolveComputer(computerName string) (types.ComputerInfo, error) {
	if m.resolveComputerFunc == nil {
		return types.ComputerInfo{}, nil
	}
	return m.resolveComputerFunc(computerName)
}

func inventory(n int) []types.Workspace {
	ws := make([]types.Workspace, n)
	for i := range ws {
		ws[i] = types.Workspace{
			ID:           fmt.Sprintf("ws-%d", i+1),
			UserName:     fmt.Sprintf("user%d", i+1),
			ComputerName: fmt.Sprintf("WSAMZN-%d", i+1),
			SubnetID:     "subnet-1",
			DirectoryID:  "d-1234567890",
			BundleID:     "wsb-abc",
		}
	}
	return ws
}

func testLogger() *telemetry.Logger {
	return telemetry.NewLogger("enrich-test")
}

func TestRunJoinsAllLookups(t *testing.T) {
	cloud := &mockCloud{
		listWorkspacesFunc: func(ctx context.Context) ([]types.Workspace, error) {
			return inventory(2), nil
		},
		connectionStatusFunc: func(ctx context.Context, workspaceID string) (types.ConnectionStatus, error) {
			return types.ConnectionStatus{State: "DISCONNECTED"}, nil
		},
		classifyActivityFunc: func(ctx context.Context, workspaceID string, window types.ActivityWindow) (types.ActivityVerdict, error) {
			return types.ActivityVerdict{Window: window, Unused: workspaceID == "ws-2"}, nil
		},
		resolveSubnetFunc: func(ctx context.Context, subnetID string) (types.SubnetInfo, error) {
			return types.SubnetInfo{Label: "prod-a", Zone: "eu-west-1a"}, nil
		},
		bundleNameFunc: func(ctx context.Context, bundleID string) string {
			return "Standard Bundle"
		},
		directoryNameFunc: func(ctx context.Context, directoryID string) string {
			return "corp.example.com"
		},
		workspaceTagsFunc: func(ctx context.Context, workspaceID string) map[string]string {
			return map[string]string{"Team": "infra"}
		},
	}
	dir := &mockDirectory{
		resolveUserFunc: func(sam string) (types.UserInfo, error) {
			return types.UserInfo{Found: true, FullName: "User " + sam, Enabled: true}, nil
		},
		resolveComputerFunc: func(name string) (types.ComputerInfo, error) {
			return types.ComputerInfo{Found: true, OS: "Windows 10"}, nil
		},
	}

	e := New(cloud, dir, testLogger(), Options{InactivityDays: 90, Concurrency: 2})
	rows, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Slot order matches inventory order.
	assert.Equal(t, "ws-1", rows[0].Workspace.ID)
	assert.Equal(t, "ws-2", rows[1].Workspace.ID)

	assert.Equal(t, "User user1", rows[0].User.FullName)
	assert.Equal(t, "Windows 10", rows[0].Computer.OS)
	assert.Equal(t, "DISCONNECTED", rows[0].Connection.State)
	assert.Equal(t, "prod-a", rows[0].Subnet.Label)
	assert.Equal(t, "corp.example.com", rows[0].DirectoryName)
	assert.Equal(t, "Standard Bundle", rows[0].BundleName)
	assert.Equal(t, map[string]string{"Team": "infra"}, rows[0].Tags)
	assert.False(t, rows[0].Activity.Unused)
	assert.True(t, rows[1].Activity.Unused)
	assert.False(t, rows[0].Failed())
}

func TestRunUnknownUserStillCompletes(t *testing.T) {
	cloud := &mockCloud{
		listWorkspacesFunc: func(ctx context.Context) ([]types.Workspace, error) {
			return inventory(1), nil
		},
	}
	dir := &mockDirectory{
		resolveUserFunc: func(sam string) (types.UserInfo, error) {
			return types.UserInfo{}, nil // not found, not an error
		},
	}

	e := New(cloud, dir, testLogger(), Options{InactivityDays: 90, Concurrency: 1})
	rows, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].User.Found)
	assert.Empty(t, rows[0].User.FullName)
	assert.False(t, rows[0].Failed())
}

func TestRunIsolatesFailedRows(t *testing.T) {
	metricsDown := errors.New("metrics query failed: throttled")
	cloud := &mockCloud{
		listWorkspacesFunc: func(ctx context.Context) ([]types.Workspace, error) {
			return inventory(5), nil
		},
		classifyActivityFunc: func(ctx context.Context, workspaceID string, window types.ActivityWindow) (types.ActivityVerdict, error) {
			// The metrics source goes down at the third workspace and
			// stays down.
			switch workspaceID {
			case "ws-3", "ws-4", "ws-5":
				return types.ActivityVerdict{}, metricsDown
			}
			return types.ActivityVerdict{Window: window}, nil
		},
	}

	e := New(cloud, nil, testLogger(), Options{InactivityDays: 90, Concurrency: 1})
	rows, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 5)

	var failed int
	for _, row := range rows {
		if row.Failed() {
			failed++
		}
	}
	assert.Equal(t, 3, failed)
	assert.False(t, rows[0].Failed())
	assert.False(t, rows[1].Failed())
	assert.Equal(t, metricsDown.Error(), rows[2].EnrichmentError)
	// Failed rows keep their inventory identity.
	assert.Equal(t, "ws-3", rows[2].Workspace.ID)
}

func TestRunFailFastYieldsZeroRows(t *testing.T) {
	cloud := &mockCloud{
		listWorkspacesFunc: func(ctx context.Context) ([]types.Workspace, error) {
			return inventory(5), nil
		},
		classifyActivityFunc: func(ctx context.Context, workspaceID string, window types.ActivityWindow) (types.ActivityVerdict, error) {
			if workspaceID == "ws-3" {
				return types.ActivityVerdict{}, errors.New("metrics query failed")
			}
			return types.ActivityVerdict{Window: window}, nil
		},
	}

	e := New(cloud, nil, testLogger(), Options{InactivityDays: 90, Concurrency: 1, FailFast: true})
	rows, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, rows)
}

func TestRunInventoryErrorIsFatal(t *testing.T) {
	cloud := &mockCloud{
		listWorkspacesFunc: func(ctx context.Context) ([]types.Workspace, error) {
			return nil, errors.New("inventory unavailable")
		},
	}

	e := New(cloud, nil, testLogger(), Options{InactivityDays: 90, Concurrency: 1})
	_, err := e.Run(context.Background())
	require.Error(t, err)
}

func TestRunEmptyInventory(t *testing.T) {
	cloud := &mockCloud{
		listWorkspacesFunc: func(ctx context.Context) ([]types.Workspace, error) {
			return nil, nil
		},
	}

	e := New(cloud, nil, testLogger(), Options{InactivityDays: 90, Concurrency: 4})
	rows, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunWindowCoversConfiguredDays(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	var gotWindow types.ActivityWindow

	cloud := &mockCloud{
		listWorkspacesFunc: func(ctx context.Context) ([]types.Workspace, error) {
			return inventory(1), nil
		},
		classifyActivityFunc: func(ctx context.Context, workspaceID string, window types.ActivityWindow) (types.ActivityVerdict, error) {
			gotWindow = window
			return types.ActivityVerdict{Window: window}, nil
		},
	}

	e := New(cloud, nil, testLogger(), Options{InactivityDays: 90, Concurrency: 1})
	e.now = func() time.Time { return now }

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now, gotWindow.End)
	assert.Equal(t, 90, gotWindow.Days())
}

func TestRunNoDuplicateRows(t *testing.T) {
	cloud := &mockCloud{
		listWorkspacesFunc: func(ctx context.Context) ([]types.Workspace, error) {
			return inventory(8), nil
		},
	}

	e := New(cloud, nil, testLogger(), Options{InactivityDays: 30, Concurrency: 4})
	rows, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 8)

	seen := make(map[string]bool)
	for _, row := range rows {
		assert.False(t, seen[row.Workspace.ID], "duplicate row for %s", row.Workspace.ID)
		seen[row.Workspace.ID] = true
	}
}
