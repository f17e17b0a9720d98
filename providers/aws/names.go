package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/workspaces"
)

// BundleName resolves a bundle ID to its display name. Best-effort: an
// unknown or errored bundle resolves to "" rather than failing the row.
func (p *Provider) BundleName(ctx context.Context, bundleID string) string {
	if bundleID == "" {
		return ""
	}

	p.mu.Lock()
	if name, ok := p.bundleNames[bundleID]; ok {
		p.mu.Unlock()
		return name
	}
	p.mu.Unlock()

	name := ""
	output, err := p.wsClient.DescribeWorkspaceBundles(ctx, &workspaces.DescribeWorkspaceBundlesInput{
		BundleIds: []string{bundleID},
	})
	if err == nil {
		for _, b := range output.Bundles {
			if aws.ToString(b.BundleId) == bundleID {
				name = aws.ToString(b.Name)
			}
		}
	}

	p.mu.Lock()
	p.bundleNames[bundleID] = name
	p.mu.Unlock()
	return name
}

// DirectoryName resolves a directory ID to its display name. Same
// best-effort semantics as BundleName.
func (p *Provider) DirectoryName(ctx context.Context, directoryID string) string {
	if directoryID == "" {
		return ""
	}

	p.mu.Lock()
	if name, ok := p.dirNames[directoryID]; ok {
		p.mu.Unlock()
		return name
	}
	p.mu.Unlock()

	name := ""
	output, err := p.wsClient.DescribeWorkspaceDirectories(ctx, &workspaces.DescribeWorkspaceDirectoriesInput{
		DirectoryIds: []string{directoryID},
	})
	if err == nil {
		for _, d := range output.Directories {
			if aws.ToString(d.DirectoryId) == directoryID {
				name = aws.ToString(d.DirectoryName)
			}
		}
	}

	p.mu.Lock()
	p.dirNames[directoryID] = name
	p.mu.Unlock()
	return name
}
