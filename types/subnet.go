package types

// SubnetInfo describes the network placement of a workspace.
// Label comes from the subnet's "Name" tag and may be empty.
type SubnetInfo struct {
	Label        string `json:"label"`
	Zone         string `json:"zone"`
	ZoneID       string `json:"zone_id"`
	AvailableIPs int32  `json:"available_ips"`
}
