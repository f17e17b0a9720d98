// Package types defines the data model shared by the report pipeline.
package types

import "time"

// Workspace is one inventoried virtual desktop with its static attributes.
// Read once from the inventory service, never mutated afterwards.
type Workspace struct {
	ID              string `json:"id"`
	UserName        string `json:"user_name"`
	ComputerName    string `json:"computer_name"`
	IPAddress       string `json:"ip_address"`
	DirectoryID     string `json:"directory_id"`
	BundleID        string `json:"bundle_id"`
	SubnetID        string `json:"subnet_id"`
	State           string `json:"state"`
	RootEncrypted   bool   `json:"root_encrypted"`
	UserEncrypted   bool   `json:"user_encrypted"`
	ComputeType     string `json:"compute_type"`
	RootVolumeGiB   int32  `json:"root_volume_gib"`
	UserVolumeGiB   int32  `json:"user_volume_gib"`
	RunningMode     string `json:"running_mode"`
	AutoStopMinutes int32  `json:"auto_stop_minutes"`
	Region          string `json:"region"`
}

// ConnectionStatus is the point-in-time connection state of a workspace.
type ConnectionStatus struct {
	State         string    `json:"state"`
	LastCheck     time.Time `json:"last_check"`
	LastUserLogin time.Time `json:"last_user_login"`
}
