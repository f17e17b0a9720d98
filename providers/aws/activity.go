package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/fleetgrid/wsreport/types"
)

const (
	metricNamespace = "AWS/WorkSpaces"
	metricName      = "ConnectionSuccess"
	metricDimension = "WorkspaceId"
)

// ClassifyActivity decides whether a workspace was used at least once
// inside the window. The query aggregates one maximum per calendar day:
// the metrics store coarsens retention for old data and silently drops
// finer-grained samples instead of erroring, so day granularity is the
// finest that stays valid across the whole supported window length.
// A window with no datapoints classifies as unused, not as an error.
func (p *Provider) ClassifyActivity(ctx context.Context, workspaceID string, window types.ActivityWindow) (types.ActivityVerdict, error) {
	if err := window.Validate(); err != nil {
		return types.ActivityVerdict{}, err
	}

	output, err := p.cwClient.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(metricNamespace),
		MetricName: aws.String(metricName),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String(metricDimension), Value: aws.String(workspaceID)},
		},
		StartTime:  aws.Time(window.Start),
		EndTime:    aws.Time(window.End),
		Period:     aws.Int32(int32(types.SamplePeriod.Seconds())),
		Statistics: []cwtypes.Statistic{cwtypes.StatisticMaximum},
	})
	if err != nil {
		return types.ActivityVerdict{}, fmt.Errorf("%w: workspace %s: %v", ErrMetricsQuery, workspaceID, err)
	}

	var peak float64
	for _, dp := range output.Datapoints {
		if max := aws.ToFloat64(dp.Maximum); max > peak {
			peak = max
		}
	}

	return types.ActivityVerdict{
		Window: window,
		Unused: peak < 1,
	}, nil
}
