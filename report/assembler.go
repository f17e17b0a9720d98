// Package report orders enriched rows and serializes them to the
// configured sink.
package report

import (
	"sort"

	"github.com/fleetgrid/wsreport/types"
)

// Assemble returns the rows sorted by (owning user name, directory
// display name). The sort is stable: rows comparing equal keep their
// insertion order. This is the only ordering guarantee on the output.
func Assemble(rows []types.ReportRow) []types.ReportRow {
	sorted := make([]types.ReportRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.Workspace.UserName != b.Workspace.UserName {
			return a.Workspace.UserName < b.Workspace.UserName
		}
		return a.User.FullName < b.User.FullName
	})

	return sorted
}

// Summary aggregates row counts for the run-complete log line.
type Summary struct {
	Total  int
	Failed int
	Unused int
}

// Summarize counts total, failed and unused rows.
func Summarize(rows []types.ReportRow) Summary {
	s := Summary{Total: len(rows)}
	for i := range rows {
		if rows[i].Failed() {
			s.Failed++
		}
		if rows[i].Activity.Unused {
			s.Unused++
		}
	}
	return s
}
