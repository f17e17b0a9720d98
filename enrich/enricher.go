// Package enrich joins workspace inventory records with directory,
// connection, activity, topology and display-name lookups into report
// rows.
package enrich

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fleetgrid/wsreport/telemetry"
	"github.com/fleetgrid/wsreport/types"
)

// CloudProvider is the slice of the cloud side the enricher needs.
type CloudProvider interface {
	ListWorkspaces(ctx context.Context) ([]types.Workspace, error)
	ConnectionStatus(ctx context.Context, workspaceID string) (types.ConnectionStatus, error)
	ClassifyActivity(ctx context.Context, workspaceID string, window types.ActivityWindow) (types.ActivityVerdict, error)
	ResolveSubnet(ctx context.Context, subnetID string) (types.SubnetInfo, error)
	BundleName(ctx context.Context, bundleID string) string
	DirectoryName(ctx context.Context, directoryID string) string
	WorkspaceTags(ctx context.Context, workspaceID string) map[string]string
}

// DirectoryResolver is the slice of the directory client the enricher needs.
type DirectoryResolver interface {
	ResolveUser(samAccountName string) (types.UserInfo, error)
	ResolveComputer(computerName string) (types.ComputerInfo, error)
}

// Options tune one enrichment run.
type Options struct {
	// InactivityDays sets the trailing activity window length.
	InactivityDays int

	// Concurrency bounds how many workspaces are enriched at once.
	Concurrency int

	// FailFast aborts the whole run on the first failed sub-lookup,
	// yielding zero rows. The default isolates failures per workspace
	// and marks the affected rows instead.
	FailFast bool
}

// Enricher drives the per-workspace lookup fan-out.
type Enricher struct {
	cloud  CloudProvider
	dir    DirectoryResolver // nil when no directory is configured
	logger *telemetry.Logger
	opts   Options
	now    func() time.Time
}

// New creates an enricher. dir may be nil, in which case user and
// computer fields stay unresolved.
func New(cloud CloudProvider, dir DirectoryResolver, logger *telemetry.Logger, opts Options) *Enricher {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Enricher{
		cloud:  cloud,
		dir:    dir,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// Run enriches the full inventory and returns one row per workspace, in
// inventory order. Each row lands in the slot matching its inventory
// position, so concurrent workers never contend on ordering.
//
// Failure policy: by default a failed sub-lookup marks only its own row
// and the run continues. With FailFast the first failure cancels the
// remaining workspaces and Run returns the error with no rows at all,
// not a partial prefix.
func (e *Enricher) Run(ctx context.Context) ([]types.ReportRow, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "wsreport.enrich.run",
		trace.WithAttributes(
			attribute.Int("inactivity_days", e.opts.InactivityDays),
			attribute.Bool("fail_fast", e.opts.FailFast),
		),
	)
	defer span.End()

	inventory, err := e.cloud.ListWorkspaces(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("workspaces.total", len(inventory)))

	window := types.TrailingWindow(e.now(), e.opts.InactivityDays)

	rows := make([]types.ReportRow, len(inventory))
	remaining := int64(len(inventory))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for i, ws := range inventory {
		g.Go(func() error {
			row, err := e.enrichOne(ctx, ws, window)
			if err != nil {
				telemetry.LookupFailures.Add(ctx, 1)
				if e.opts.FailFast {
					return err
				}
				row = types.ReportRow{Workspace: ws, EnrichmentError: err.Error()}
			}

			rows[i] = row
			telemetry.WorkspacesEnriched.Add(ctx, 1)
			if row.Activity.Unused {
				telemetry.UnusedFound.Add(ctx, 1)
			}

			left := atomic.AddInt64(&remaining, -1)
			e.logger.LogProgress(ctx, ws.ID, ws.UserName, int(left))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return rows, nil
}

// enrichOne runs every sub-lookup for a single workspace. Lookups run
// sequentially: the only true data dependency is manager-after-user
// inside the directory client, but per-workspace parallelism already
// saturates the bounded pool.
func (e *Enricher) enrichOne(ctx context.Context, ws types.Workspace, window types.ActivityWindow) (types.ReportRow, error) {
	row := types.ReportRow{Workspace: ws}

	if e.dir != nil {
		user, err := e.dir.ResolveUser(ws.UserName)
		if err != nil {
			e.logger.LogLookupFailure(ctx, ws.ID, "directory_user", err)
			return row, err
		}
		row.User = user

		if ws.ComputerName != "" {
			computer, err := e.dir.ResolveComputer(ws.ComputerName)
			if err != nil {
				e.logger.LogLookupFailure(ctx, ws.ID, "directory_computer", err)
				return row, err
			}
			row.Computer = computer
		}
	}

	conn, err := e.cloud.ConnectionStatus(ctx, ws.ID)
	if err != nil {
		e.logger.LogLookupFailure(ctx, ws.ID, "connection_status", err)
		return row, err
	}
	row.Connection = conn

	if ws.SubnetID != "" {
		subnet, err := e.cloud.ResolveSubnet(ctx, ws.SubnetID)
		if err != nil {
			e.logger.LogLookupFailure(ctx, ws.ID, "subnet", err)
			return row, err
		}
		row.Subnet = subnet
	}

	verdict, err := e.cloud.ClassifyActivity(ctx, ws.ID, window)
	if err != nil {
		e.logger.LogLookupFailure(ctx, ws.ID, "activity", err)
		return row, err
	}
	row.Activity = verdict

	// Display enrichment is best-effort: these never fail the row.
	row.DirectoryName = e.cloud.DirectoryName(ctx, ws.DirectoryID)
	row.BundleName = e.cloud.BundleName(ctx, ws.BundleID)
	row.Tags = e.cloud.WorkspaceTags(ctx, ws.ID)

	return row, nil
}
