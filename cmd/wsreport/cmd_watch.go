package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/fleetgrid/wsreport/telemetry"
)

var (
	watchInterval    time.Duration
	watchMetricsAddr string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the report on an interval and serve metrics",
	Long: `Run the report repeatedly and keep a metrics endpoint up, so a fleet
dashboard can track unused counts and newly-unused workspaces between
runs. Run history is compared across iterations when --storage is set.`,
	Example: `  wsreport watch --region eu-west-1 --interval 1h
  wsreport watch --config fleet.yaml --metrics :9090`,
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&reportConfigPath, "config", "c", "", "Path to config file")
	watchCmd.Flags().StringVarP(&reportRegion, "region", "r", "", "AWS region to report on")
	watchCmd.Flags().IntVarP(&reportDays, "days", "d", 0, "Inactivity window in days (1-999)")
	watchCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output path")
	watchCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Output format: csv, table, json")
	watchCmd.Flags().StringVar(&reportPolicyDir, "policy-dir", "", "Directory of .rego compliance policies")
	watchCmd.Flags().StringVar(&reportStorage, "storage", "", "Directory for run history")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Hour, "Time between report runs")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics", ":9090", "Metrics server address")
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
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

	var g run.Group

	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(telemetry.PrometheusRegistry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              watchMetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Add(func() error {
		r.logger.Info().Str("addr", watchMetricsAddr).Msg("starting metrics server")
		return server.ListenAndServe()
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	})

	loopCtx, cancelLoop := context.WithCancel(ctx)
	g.Add(func() error {
		return watchLoop(loopCtx, r, watchInterval)
	}, func(error) {
		cancelLoop()
	})

	err = g.Run()
	var sig run.SignalError
	if errors.As(err, &sig) {
		r.logger.Info().Str("signal", sig.Signal.String()).Msg("shutting down")
		return nil
	}
	return err
}

// watchLoop runs one report immediately, then again every interval.
// A failed run is logged and retried at the next tick rather than
// killing the watcher.
func watchLoop(ctx context.Context, r *runner, interval time.Duration) error {
	if err := r.run(ctx); err != nil {
		r.logger.Error().Err(err).Msg("report run failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.run(ctx); err != nil {
				r.logger.Error().Err(err).Msg("report run failed")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
