// Package aws implements the AWS-side lookups of the workspace report:
// WorkSpaces inventory, connection status, display names and tags,
// CloudWatch activity classification and EC2 subnet topology.
package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/workspaces"
)

// Provider bundles the AWS clients used by the report pipeline.
type Provider struct {
	region string

	// AWS clients (interfaces for testability)
	wsClient  WorkSpacesAPI
	cwClient  CloudWatchAPI
	ec2Client EC2API

	// Display-name lookups are memoised: a fleet shares a handful of
	// bundles and directories across hundreds of workspaces.
	mu          sync.Mutex
	bundleNames map[string]string
	dirNames    map[string]string
}

// New creates a provider for the given region using the default
// credential chain.
func New(ctx context.Context, region string) (*Provider, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Provider{
		region:      region,
		wsClient:    workspaces.NewFromConfig(awsCfg),
		cwClient:    cloudwatch.NewFromConfig(awsCfg),
		ec2Client:   ec2.NewFromConfig(awsCfg),
		bundleNames: make(map[string]string),
		dirNames:    make(map[string]string),
	}, nil
}

// Region returns the region this provider queries.
func (p *Provider) Region() string {
	return p.region
}
