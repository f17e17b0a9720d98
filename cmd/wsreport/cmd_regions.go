package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetgrid/wsreport/config"
)

// regionsCmd represents the regions command
var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the regions the report supports",
	RunE:  runRegionsCmd,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegionsCmd(cmd *cobra.Command, args []string) error {
	for _, region := range config.SupportedRegions {
		fmt.Fprintln(cmd.OutOrStdout(), region)
	}
	return nil
}
