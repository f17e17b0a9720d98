package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/workspaces"
)

// WorkSpacesAPI defines the WorkSpaces operations used by the provider.
type WorkSpacesAPI interface {
	DescribeWorkspaces(ctx context.Context, params *workspaces.DescribeWorkspacesInput, optFns ...func(*workspaces.Options)) (*workspaces.DescribeWorkspacesOutput, error)
	DescribeWorkspacesConnectionStatus(ctx context.Context, params *workspaces.DescribeWorkspacesConnectionStatusInput, optFns ...func(*workspaces.Options)) (*workspaces.DescribeWorkspacesConnectionStatusOutput, error)
	DescribeWorkspaceBundles(ctx context.Context, params *workspaces.DescribeWorkspaceBundlesInput, optFns ...func(*workspaces.Options)) (*workspaces.DescribeWorkspaceBundlesOutput, error)
	DescribeWorkspaceDirectories(ctx context.Context, params *workspaces.DescribeWorkspaceDirectoriesInput, optFns ...func(*workspaces.Options)) (*workspaces.DescribeWorkspaceDirectoriesOutput, error)
	DescribeTags(ctx context.Context, params *workspaces.DescribeTagsInput, optFns ...func(*workspaces.Options)) (*workspaces.DescribeTagsOutput, error)
}

// CloudWatchAPI defines the CloudWatch operations used by the activity classifier.
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// EC2API defines the EC2 operations used by the subnet lookup.
type EC2API interface {
	DescribeSubnets(ctx context.Context, params *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
}
