package types

import (
	"sort"
	"strings"
)

// JoinTags renders tags as "key:value" pairs joined by ";".
// Keys are sorted so the rendering is deterministic.
func JoinTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+tags[k])
	}
	return strings.Join(parts, ";")
}
