package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fleetgrid/wsreport/config"
	"github.com/fleetgrid/wsreport/directory"
	"github.com/fleetgrid/wsreport/enrich"
	"github.com/fleetgrid/wsreport/policy"
	"github.com/fleetgrid/wsreport/providers/aws"
	"github.com/fleetgrid/wsreport/report"
	"github.com/fleetgrid/wsreport/storage"
	"github.com/fleetgrid/wsreport/telemetry"
	"github.com/fleetgrid/wsreport/types"
)

// runner wires the full pipeline for one or more report runs.
type runner struct {
	cfg      *config.Config
	logger   *telemetry.Logger
	cloud    *aws.Provider
	dir      *directory.Client
	store    *storage.Store
	policies *policy.Engine
}

func newRunner(ctx context.Context, cfg *config.Config, policyDir string) (*runner, error) {
	r := &runner{
		cfg:    cfg,
		logger: telemetry.NewLogger("wsreport"),
	}

	cloud, err := aws.New(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	r.cloud = cloud

	if cfg.Directory.Addr != "" {
		dir, err := directory.Connect(cfg.Directory)
		if err != nil {
			return nil, err
		}
		r.dir = dir
	}

	if cfg.StoragePath != "" {
		store, err := storage.Open(cfg.StoragePath)
		if err != nil {
			r.close()
			return nil, err
		}
		r.store = store
	}

	r.policies = policy.NewEngine()
	if policyDir != "" {
		if err := r.policies.LoadDir(ctx, policyDir); err != nil {
			r.close()
			return nil, err
		}
	} else if err := r.policies.LoadDefaults(ctx); err != nil {
		r.close()
		return nil, err
	}

	return r, nil
}

func (r *runner) close() {
	if r.dir != nil {
		r.dir.Close()
	}
	if r.store != nil {
		r.store.Close()
	}
}

// run executes one full report: enrich, assemble, persist, evaluate,
// serialize.
func (r *runner) run(ctx context.Context) error {
	start := time.Now()

	// The enricher wants the interface nil, not a typed nil pointer.
	var dir enrich.DirectoryResolver
	if r.dir != nil {
		dir = r.dir
	}

	enricher := enrich.New(r.cloud, dir, r.logger, enrich.Options{
		InactivityDays: r.cfg.InactivityDays,
		Concurrency:    r.cfg.Concurrency,
		FailFast:       r.cfg.FailFast,
	})

	rows, err := enricher.Run(ctx)
	if err != nil {
		return err
	}

	sorted := report.Assemble(rows)

	if r.store != nil {
		for _, id := range r.store.NewlyUnused(sorted) {
			r.logger.WithContext(ctx).Warn().
				Str("workspace_id", id).
				Msg("workspace turned unused since last run")
		}
		if _, err := r.store.RecordRun(sorted); err != nil {
			return fmt.Errorf("record run history: %w", err)
		}
	}

	findings, err := r.policies.EvaluateAll(ctx, sorted)
	if err != nil {
		return err
	}
	for _, f := range findings {
		r.logger.WithContext(ctx).Warn().
			Str("workspace_id", f.WorkspaceID).
			Str("rule", f.Rule).
			Str("severity", f.Severity).
			Str("reason", f.Reason).
			Msg("compliance finding")
	}

	if err := r.writeOutput(sorted); err != nil {
		return err
	}

	summary := report.Summarize(sorted)
	duration := time.Since(start)
	telemetry.RunDuration.Record(ctx, duration.Seconds())
	telemetry.RowsEmitted.Record(ctx, int64(summary.Total))
	r.logger.LogRunComplete(ctx, summary.Total, summary.Failed, summary.Unused, float64(duration.Milliseconds()))

	return nil
}

func (r *runner) writeOutput(rows []types.ReportRow) error {
	if r.cfg.Output.Path == "" || r.cfg.Output.Path == "-" {
		return report.Write(os.Stdout, r.cfg.Output.Format, rows)
	}
	return report.WriteFile(r.cfg.Output.Path, r.cfg.Output.Format, rows)
}
