package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/workspaces"

	"github.com/fleetgrid/wsreport/types"
)

// ConnectionStatus fetches the point-in-time connection state of one
// workspace. The result reflects only the moment of the query.
func (p *Provider) ConnectionStatus(ctx context.Context, workspaceID string) (types.ConnectionStatus, error) {
	output, err := p.wsClient.DescribeWorkspacesConnectionStatus(ctx, &workspaces.DescribeWorkspacesConnectionStatusInput{
		WorkspaceIds: []string{workspaceID},
	})
	if err != nil {
		return types.ConnectionStatus{}, fmt.Errorf("%w: workspace %s: %v", ErrConnectionQuery, workspaceID, err)
	}

	var status types.ConnectionStatus
	for _, cs := range output.WorkspacesConnectionStatus {
		if aws.ToString(cs.WorkspaceId) != workspaceID {
			continue
		}
		status.State = string(cs.ConnectionState)
		status.LastCheck = aws.ToTime(cs.ConnectionStateCheckTimestamp)
		status.LastUserLogin = aws.ToTime(cs.LastKnownUserConnectionTimestamp)
	}
	return status, nil
}
