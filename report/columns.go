package report

import (
	"strconv"
	"time"

	"github.com/fleetgrid/wsreport/types"
)

const timestampFormat = time.RFC3339

// header is the fixed column set of the tabular output. Column order
// carries no semantic meaning; only row order does.
var header = []string{
	"user_name",
	"full_name",
	"computer_name",
	"computer_created",
	"operating_system",
	"workspace_id",
	"connection_state",
	"state_check",
	"last_connection",
	"unused",
	"workspace_state",
	"compute_type",
	"ip_address",
	"directory_name",
	"directory_id",
	"bundle_name",
	"bundle_id",
	"subnet_label",
	"subnet_id",
	"subnet_az",
	"subnet_az_id",
	"subnet_available_ips",
	"root_encrypted",
	"root_volume_gib",
	"user_encrypted",
	"user_volume_gib",
	"running_mode",
	"auto_stop_minutes",
	"region",
	"tags",
	"enrichment_error",
}

// rowValues flattens one row into the header's column order. Unresolved
// directory fields serialize as empty here, at the boundary; internal
// code keeps the explicit Found distinction.
func rowValues(r *types.ReportRow) []string {
	return []string{
		r.Workspace.UserName,
		r.User.FullName,
		r.Workspace.ComputerName,
		formatTime(r.Computer.Created),
		r.Computer.OS,
		r.Workspace.ID,
		r.Connection.State,
		formatTime(r.Connection.LastCheck),
		formatTime(r.Connection.LastUserLogin),
		strconv.FormatBool(r.Activity.Unused),
		r.Workspace.State,
		r.Workspace.ComputeType,
		r.Workspace.IPAddress,
		r.DirectoryName,
		r.Workspace.DirectoryID,
		r.BundleName,
		r.Workspace.BundleID,
		r.Subnet.Label,
		r.Workspace.SubnetID,
		r.Subnet.Zone,
		r.Subnet.ZoneID,
		strconv.Itoa(int(r.Subnet.AvailableIPs)),
		strconv.FormatBool(r.Workspace.RootEncrypted),
		strconv.Itoa(int(r.Workspace.RootVolumeGiB)),
		strconv.FormatBool(r.Workspace.UserEncrypted),
		strconv.Itoa(int(r.Workspace.UserVolumeGiB)),
		r.Workspace.RunningMode,
		strconv.Itoa(int(r.Workspace.AutoStopMinutes)),
		r.Workspace.Region,
		types.JoinTags(r.Tags),
		r.EnrichmentError,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampFormat)
}
