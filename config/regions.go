package config

// SupportedRegions is the fixed set of regions the workspace service
// operates in. Region input is validated against this set and treated
// as an opaque key everywhere else.
var SupportedRegions = []string{
	"us-east-1",
	"us-west-2",
	"ca-central-1",
	"eu-west-1",
	"eu-west-2",
	"eu-central-1",
	"ap-northeast-1",
	"ap-northeast-2",
	"ap-southeast-1",
	"ap-southeast-2",
	"ap-south-1",
	"sa-east-1",
}

// IsSupportedRegion reports whether region is in the supported set.
func IsSupportedRegion(region string) bool {
	for _, r := range SupportedRegions {
		if r == region {
			return true
		}
	}
	return false
}
