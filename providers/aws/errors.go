package aws

import "errors"

// Sentinel errors for the failure taxonomy. Callers classify with errors.Is.
var (
	// ErrInventoryUnavailable means the workspace inventory could not be
	// listed at all. Fatal to a run: with no inventory there is nothing
	// to enrich.
	ErrInventoryUnavailable = errors.New("workspace inventory unavailable")

	// ErrConnectionQuery means the connection-status lookup failed.
	ErrConnectionQuery = errors.New("connection status query failed")

	// ErrMetricsQuery means the metrics source errored. A window with no
	// datapoints is not an error.
	ErrMetricsQuery = errors.New("metrics query failed")

	// ErrTopologyQuery means the subnet lookup failed. A subnet without a
	// Name tag is not an error.
	ErrTopologyQuery = errors.New("network topology query failed")
)
