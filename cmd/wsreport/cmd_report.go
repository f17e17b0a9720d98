package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetgrid/wsreport/config"
	"github.com/fleetgrid/wsreport/telemetry"
	"github.com/fleetgrid/wsreport/types"
)

var (
	reportConfigPath  string
	reportRegion      string
	reportDays        int
	reportOutput      string
	reportFormat      string
	reportFailFast    bool
	reportConcurrency int
	reportPolicyDir   string
	reportStorage     string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the fleet usage report for one region",
	Long: `Run one full report: list every workspace in the region, enrich each
with directory, connection, subnet and activity lookups, and write the
sorted result to the configured sink.`,
	Example: `  wsreport report --region eu-west-1                  # CSV to default path
  wsreport report --region eu-west-1 --days 180       # longer inactivity window
  wsreport report --format table --output -           # human table to stdout
  wsreport report --fail-fast                         # abort whole run on first failure`,
	RunE: runReportCmd,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportConfigPath, "config", "c", "", "Path to config file")
	reportCmd.Flags().StringVarP(&reportRegion, "region", "r", "", "AWS region to report on")
	reportCmd.Flags().IntVarP(&reportDays, "days", "d", 0, "Inactivity window in days (1-999)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output path ('-' for stdout)")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Output format: csv, table, json")
	reportCmd.Flags().BoolVar(&reportFailFast, "fail-fast", false, "Abort the whole run on the first failed lookup")
	reportCmd.Flags().IntVar(&reportConcurrency, "concurrency", 0, "Workspaces enriched in parallel")
	reportCmd.Flags().StringVar(&reportPolicyDir, "policy-dir", "", "Directory of .rego compliance policies (default: built-in rules)")
	reportCmd.Flags().StringVar(&reportStorage, "storage", "", "Directory for run history (disabled when empty)")
}

// buildConfig merges the config file (if any) with flag overrides.
func buildConfig() (*config.Config, error) {
	var cfg *config.Config
	if reportConfigPath != "" {
		loaded, err := config.LoadConfig(reportConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if reportRegion != "" {
		cfg.Region = reportRegion
	}
	if reportDays != 0 {
		cfg.InactivityDays = reportDays
	}
	if reportOutput != "" {
		cfg.Output.Path = reportOutput
	}
	if reportFormat != "" {
		cfg.Output.Format = reportFormat
	}
	if reportConcurrency != 0 {
		cfg.Concurrency = reportConcurrency
	}
	if reportFailFast {
		cfg.FailFast = true
	}
	if reportStorage != "" {
		cfg.StoragePath = reportStorage
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if cfg.RetentionAdvisory() {
		fmt.Fprintf(os.Stderr,
			"warning: the metrics store keeps less than one sample per day beyond %d days; "+
				"classification stays correct but works from sparser data\n",
			types.RetentionAdvisoryDays)
	}

	ctx := cmd.Context()

	shutdown, err := telemetry.InitOTEL(ctx, telemetry.Config{
		ServiceName:    "wsreport",
		ServiceVersion: version,
		OTELEndpoint:   cfg.OTELEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer shutdown(ctx)

	r, err := newRunner(ctx, cfg, reportPolicyDir)
	if err != nil {
		return err
	}
	defer r.close()

	return r.run(ctx)
}
