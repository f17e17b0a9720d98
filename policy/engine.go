// Package policy evaluates Rego compliance rules against finished
// report rows. Evaluation is read-only: findings are recommendations
// attached to the report, nothing is enforced.
package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/open-policy-agent/opa/v1/rego"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fleetgrid/wsreport/telemetry"
	"github.com/fleetgrid/wsreport/types"
)

// Engine holds compiled policies keyed by name.
type Engine struct {
	logger  *telemetry.Logger
	queries map[string]rego.PreparedEvalQuery
}

// RowInput is the document a policy sees for one row.
type RowInput struct {
	Row       types.ReportRow `json:"row"`
	Timestamp time.Time       `json:"timestamp"`
}

// Finding is one compliance violation reported by a policy.
type Finding struct {
	WorkspaceID string `json:"workspace_id"`
	Policy      string `json:"policy"`
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	Reason      string `json:"reason"`
}

// NewEngine creates an empty engine; load policies before evaluating.
func NewEngine() *Engine {
	return &Engine{
		logger:  telemetry.NewLogger("policy-engine"),
		queries: make(map[string]rego.PreparedEvalQuery),
	}
}

// LoadPolicy compiles one Rego module. Policies report findings as a
// set of objects under data.wsreport.compliance.findings, each with
// rule, severity and reason fields.
func (e *Engine) LoadPolicy(ctx context.Context, name, regoCode string) error {
	ctx, span := telemetry.Tracer.Start(ctx, "wsreport.policy.load",
		trace.WithAttributes(attribute.String("policy.name", name)))
	defer span.End()

	query := rego.New(
		rego.Query("data.wsreport.compliance.findings"),
		rego.Module(name, regoCode),
	)

	prepared, err := query.PrepareForEval(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to compile policy %s: %w", name, err)
	}

	e.queries[name] = prepared

	e.logger.WithContext(ctx).Info().
		Str("policy_name", name).
		Msg("policy loaded")
	return nil
}

// LoadDefaults loads the built-in compliance rules.
func (e *Engine) LoadDefaults(ctx context.Context) error {
	return e.LoadPolicy(ctx, "defaults", defaultPolicy)
}

// EvaluateRow runs every loaded policy against one row.
func (e *Engine) EvaluateRow(ctx context.Context, row types.ReportRow) ([]Finding, error) {
	input := RowInput{Row: row, Timestamp: time.Now()}

	var findings []Finding
	for name, query := range e.queries {
		results, err := query.Eval(ctx, rego.EvalInput(input))
		if err != nil {
			return nil, fmt.Errorf("policy %s evaluation failed: %w", name, err)
		}
		findings = append(findings, parseFindings(name, row.Workspace.ID, results)...)
	}
	return findings, nil
}

// EvaluateAll runs the loaded policies over every row. Failed rows are
// skipped: their fields are partial and would trip rules spuriously.
func (e *Engine) EvaluateAll(ctx context.Context, rows []types.ReportRow) ([]Finding, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "wsreport.policy.evaluate_all",
		trace.WithAttributes(attribute.Int("rows", len(rows))))
	defer span.End()

	var all []Finding
	for i := range rows {
		if rows[i].Failed() {
			continue
		}
		findings, err := e.EvaluateRow(ctx, rows[i])
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		all = append(all, findings...)
	}

	e.logger.WithContext(ctx).Info().
		Int("rows", len(rows)).
		Int("findings", len(all)).
		Msg("compliance evaluation complete")
	return all, nil
}

// parseFindings converts the raw OPA result set. OPA returns untyped
// JSON shapes, so this is the one place that unpacks interface maps.
func parseFindings(policyName, workspaceID string, results rego.ResultSet) []Finding {
	var findings []Finding
	for _, res := range results {
		for _, expr := range res.Expressions {
			items, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, item := range items {
				obj, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				findings = append(findings, Finding{
					WorkspaceID: workspaceID,
					Policy:      policyName,
					Rule:        stringField(obj, "rule"),
					Severity:    stringField(obj, "severity"),
					Reason:      stringField(obj, "reason"),
				})
			}
		}
	}
	return findings
}

func stringField(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return s
}
