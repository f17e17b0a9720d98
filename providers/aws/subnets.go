package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/fleetgrid/wsreport/types"
)

// ResolveSubnet looks up placement attributes for a subnet. The label
// comes from the tag whose key is exactly "Name"; a subnet without one
// gets an empty label, which is not an error.
func (p *Provider) ResolveSubnet(ctx context.Context, subnetID string) (types.SubnetInfo, error) {
	output, err := p.ec2Client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		SubnetIds: []string{subnetID},
	})
	if err != nil {
		return types.SubnetInfo{}, fmt.Errorf("%w: subnet %s: %v", ErrTopologyQuery, subnetID, err)
	}

	var info types.SubnetInfo
	for _, subnet := range output.Subnets {
		if aws.ToString(subnet.SubnetId) != subnetID {
			continue
		}
		info.Zone = aws.ToString(subnet.AvailabilityZone)
		info.ZoneID = aws.ToString(subnet.AvailabilityZoneId)
		info.AvailableIPs = aws.ToInt32(subnet.AvailableIpAddressCount)
		for _, tag := range subnet.Tags {
			if aws.ToString(tag.Key) == "Name" {
				info.Label = aws.ToString(tag.Value)
			}
		}
	}
	return info, nil
}
