package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetgrid/wsreport/types"
)

func row(userName, fullName, id string) types.ReportRow {
	return types.ReportRow{
		Workspace: types.Workspace{ID: id, UserName: userName},
		User:      types.UserInfo{Found: fullName != "", FullName: fullName},
	}
}

func TestAssembleStableSort(t *testing.T) {
	rows := []types.ReportRow{
		row("bob", "B", "ws-1"),
		row("alice", "A", "ws-2"),
		row("bob", "B", "ws-3"),
	}

	sorted := Assemble(rows)

	require.Len(t, sorted, 3)
	assert.Equal(t, "alice", sorted[0].Workspace.UserName)
	assert.Equal(t, "bob", sorted[1].Workspace.UserName)
	assert.Equal(t, "bob", sorted[2].Workspace.UserName)
	// Equal keys keep insertion order.
	assert.Equal(t, "ws-1", sorted[1].Workspace.ID)
	assert.Equal(t, "ws-3", sorted[2].Workspace.ID)
}

func TestAssembleSecondaryKey(t *testing.T) {
	rows := []types.ReportRow{
		row("shared", "Zoe Young", "ws-1"),
		row("shared", "Adam Apple", "ws-2"),
	}

	sorted := Assemble(rows)
	assert.Equal(t, "ws-2", sorted[0].Workspace.ID)
	assert.Equal(t, "ws-1", sorted[1].Workspace.ID)
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	rows := []types.ReportRow{
		row("bob", "B", "ws-1"),
		row("alice", "A", "ws-2"),
	}

	_ = Assemble(rows)
	assert.Equal(t, "ws-1", rows[0].Workspace.ID)
}

func TestSummarize(t *testing.T) {
	rows := []types.ReportRow{
		{Activity: types.ActivityVerdict{Unused: true}},
		{EnrichmentError: "metrics query failed"},
		{},
	}

	s := Summarize(rows)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Unused)
}

func TestWriteCSV(t *testing.T) {
	created := time.Date(2024, 3, 17, 9, 30, 55, 0, time.UTC)
	rows := []types.ReportRow{
		{
			Workspace: types.Workspace{
				ID:            "ws-1",
				UserName:      "alice",
				ComputerName:  "WSAMZN-ABC123",
				State:         "AVAILABLE",
				ComputeType:   "PERFORMANCE",
				IPAddress:     "10.0.1.5",
				DirectoryID:   "d-1234567890",
				BundleID:      "wsb-abc",
				SubnetID:      "subnet-1",
				RootEncrypted: true,
				RootVolumeGiB: 80,
				UserVolumeGiB: 100,
				RunningMode:   "AUTO_STOP",
				Region:        "eu-west-1",
			},
			User:          types.UserInfo{Found: true, FullName: "Alice Martin"},
			Computer:      types.ComputerInfo{Found: true, Created: created, OS: "Windows 10"},
			Activity:      types.ActivityVerdict{Unused: true},
			DirectoryName: "corp.example.com",
			BundleName:    "Standard Bundle",
			Subnet:        types.SubnetInfo{Label: "prod-a", Zone: "eu-west-1a", ZoneID: "euw1-az1", AvailableIPs: 200},
			Tags:          map[string]string{"Team": "infra", "Owner": "ops"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "csv", rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, len(header), len(records[0]))
	require.Equal(t, len(header), len(records[1]))

	byColumn := make(map[string]string, len(header))
	for i, name := range records[0] {
		byColumn[name] = records[1][i]
	}
	assert.Equal(t, "alice", byColumn["user_name"])
	assert.Equal(t, "Alice Martin", byColumn["full_name"])
	assert.Equal(t, "2024-03-17T09:30:55Z", byColumn["computer_created"])
	assert.Equal(t, "true", byColumn["unused"])
	assert.Equal(t, "prod-a", byColumn["subnet_label"])
	assert.Equal(t, "200", byColumn["subnet_available_ips"])
	assert.Equal(t, "Owner:ops;Team:infra", byColumn["tags"])
	assert.Equal(t, "", byColumn["enrichment_error"])
	assert.Equal(t, "", byColumn["last_connection"])
}

func TestWriteCSVUnresolvedFieldsEmpty(t *testing.T) {
	rows := []types.ReportRow{
		{Workspace: types.Workspace{ID: "ws-1", UserName: "ghost"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "csv", rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	byColumn := make(map[string]string, len(header))
	for i, name := range records[0] {
		byColumn[name] = records[1][i]
	}
	assert.Equal(t, "", byColumn["full_name"])
	assert.Equal(t, "", byColumn["computer_created"])
	assert.Equal(t, "", byColumn["operating_system"])
}

func TestWriteTable(t *testing.T) {
	rows := []types.ReportRow{
		{
			Workspace: types.Workspace{ID: "ws-1", UserName: "alice", State: "AVAILABLE"},
			User:      types.UserInfo{Found: true, FullName: "Alice Martin"},
			Subnet:    types.SubnetInfo{Label: "prod-a"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "table", rows))

	out := buf.String()
	assert.Contains(t, out, "USER")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Alice Martin")
	assert.Contains(t, out, "prod-a")
}

func TestWriteJSON(t *testing.T) {
	rows := []types.ReportRow{
		{Workspace: types.Workspace{ID: "ws-1", UserName: "alice"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", rows))

	var decoded []types.ReportRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "ws-1", decoded[0].Workspace.ID)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "xml", nil)
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := t.TempDir() + "/report.csv"
	rows := []types.ReportRow{
		{Workspace: types.Workspace{ID: "ws-1", UserName: "alice"}},
	}

	require.NoError(t, WriteFile(path, "csv", rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "user_name")
	assert.Contains(t, string(data), "ws-1")
}
