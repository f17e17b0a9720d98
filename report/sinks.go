package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fleetgrid/wsreport/types"
)

// Write serializes the assembled rows in the given format.
func Write(w io.Writer, format string, rows []types.ReportRow) error {
	switch format {
	case "csv":
		return writeCSV(w, rows)
	case "table":
		return writeTable(w, rows)
	case "json":
		return writeJSON(w, rows)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteFile writes the report to path, creating or truncating it.
func WriteFile(path, format string, rows []types.ReportRow) error {
	f, err := os.Create(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := Write(f, format, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(w io.Writer, rows []types.ReportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range rows {
		if err := cw.Write(rowValues(&rows[i])); err != nil {
			return fmt.Errorf("write csv row %s: %w", rows[i].Workspace.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeTable renders a human-width subset of the columns. The full
// column set is for the machine formats.
func writeTable(w io.Writer, rows []types.ReportRow) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "USER\tFULL NAME\tWORKSPACE\tSTATE\tUNUSED\tLAST CONNECTION\tSUBNET\tERROR")
	for i := range rows {
		r := &rows[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\t%s\t%s\n",
			r.Workspace.UserName,
			r.User.FullName,
			r.Workspace.ID,
			r.Workspace.State,
			r.Activity.Unused,
			formatTime(r.Connection.LastUserLogin),
			r.Subnet.Label,
			r.EnrichmentError,
		)
	}

	return tw.Flush()
}

func writeJSON(w io.Writer, rows []types.ReportRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if rows == nil {
		rows = []types.ReportRow{}
	}
	return enc.Encode(rows)
}
