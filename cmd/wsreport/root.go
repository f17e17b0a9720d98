package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "wsreport",
		Short: "WorkSpaces fleet usage report",
		Long: `wsreport - WorkSpaces fleet usage report

Joins the WorkSpaces inventory of a region with directory lookups,
connection status, subnet topology and per-workspace activity
classification into one deterministic report, so fleet owners can see
who owns what, what sits unused, and what violates compliance rules.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`wsreport {{.Version}}
`)
}
