package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/workspaces"
	wstypes "github.com/aws/aws-sdk-go-v2/service/workspaces/types"

	"github.com/fleetgrid/wsreport/types"
)

// ListWorkspaces returns the complete inventory for the provider's
// region. Pagination stays internal; callers get the full set or an
// ErrInventoryUnavailable.
func (p *Provider) ListWorkspaces(ctx context.Context) ([]types.Workspace, error) {
	var result []types.Workspace
	var nextToken *string

	for {
		output, err := p.wsClient.DescribeWorkspaces(ctx, &workspaces.DescribeWorkspacesInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("%w: describe workspaces: %v", ErrInventoryUnavailable, err)
		}

		for _, ws := range output.Workspaces {
			result = append(result, p.convertWorkspace(ws))
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return result, nil
}

func (p *Provider) convertWorkspace(ws wstypes.Workspace) types.Workspace {
	w := types.Workspace{
		ID:            aws.ToString(ws.WorkspaceId),
		UserName:      aws.ToString(ws.UserName),
		ComputerName:  aws.ToString(ws.ComputerName),
		IPAddress:     aws.ToString(ws.IpAddress),
		DirectoryID:   aws.ToString(ws.DirectoryId),
		BundleID:      aws.ToString(ws.BundleId),
		SubnetID:      aws.ToString(ws.SubnetId),
		State:         string(ws.State),
		RootEncrypted: aws.ToBool(ws.RootVolumeEncryptionEnabled),
		UserEncrypted: aws.ToBool(ws.UserVolumeEncryptionEnabled),
		Region:        p.region,
	}

	if props := ws.WorkspaceProperties; props != nil {
		w.ComputeType = string(props.ComputeTypeName)
		w.RootVolumeGiB = aws.ToInt32(props.RootVolumeSizeGib)
		w.UserVolumeGiB = aws.ToInt32(props.UserVolumeSizeGib)
		w.RunningMode = string(props.RunningMode)
		w.AutoStopMinutes = aws.ToInt32(props.RunningModeAutoStopTimeoutInMinutes)
	}

	return w
}
