package types

// ReportRow is the full join for one workspace, keyed by workspace ID.
// Created once after every sub-lookup for that workspace finishes,
// appended to the run's collection, never mutated afterwards.
type ReportRow struct {
	Workspace  Workspace        `json:"workspace"`
	User       UserInfo         `json:"user"`
	Computer   ComputerInfo     `json:"computer"`
	Connection ConnectionStatus `json:"connection"`
	Subnet     SubnetInfo       `json:"subnet"`
	Activity   ActivityVerdict  `json:"activity"`

	DirectoryName string            `json:"directory_name"`
	BundleName    string            `json:"bundle_name"`
	Tags          map[string]string `json:"tags,omitempty"`

	// EnrichmentError is set when one of the sub-lookups failed and the
	// row carries only partial data. Empty on fully enriched rows.
	EnrichmentError string `json:"enrichment_error,omitempty"`
}

// Failed reports whether this row is an enrichment-failure marker.
func (r *ReportRow) Failed() bool {
	return r.EnrichmentError != ""
}
