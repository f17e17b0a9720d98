package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/workspaces"
)

// WorkspaceTags fetches the tag set of one workspace. Best-effort
// display enrichment: an errored lookup yields an empty map.
func (p *Provider) WorkspaceTags(ctx context.Context, workspaceID string) map[string]string {
	tags := make(map[string]string)

	output, err := p.wsClient.DescribeTags(ctx, &workspaces.DescribeTagsInput{
		ResourceId: aws.String(workspaceID),
	})
	if err != nil {
		return tags
	}

	for _, tag := range output.TagList {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags
}
