package directory

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/fleetgrid/wsreport/types"
)

// Active Directory generalizedTime, e.g. "20240317093055.0Z".
const generalizedTimeFormat = "20060102150405.0Z"

var computerAttributes = []string{
	"whenCreated",
	"operatingSystem",
}

// ResolveComputer looks up a directory computer object by name. Same
// not-found semantics as ResolveUser.
func (c *Client) ResolveComputer(computerName string) (types.ComputerInfo, error) {
	filter := fmt.Sprintf("(&(objectClass=computer)(name=%s))", ldap.EscapeFilter(computerName))

	entry, err := c.search(filter, computerAttributes)
	if errors.Is(err, ErrNotFound) {
		return types.ComputerInfo{}, nil
	}
	if err != nil {
		return types.ComputerInfo{}, err
	}

	info := types.ComputerInfo{
		Found: true,
		OS:    entry.GetAttributeValue("operatingSystem"),
	}

	if raw := entry.GetAttributeValue("whenCreated"); raw != "" {
		created, err := time.Parse(generalizedTimeFormat, raw)
		if err != nil {
			return types.ComputerInfo{}, fmt.Errorf("%w: parse whenCreated %q: %v", ErrDirectoryQuery, raw, err)
		}
		info.Created = created
	}

	return info, nil
}
