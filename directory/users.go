package directory

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-ldap/ldap/v3"

	"github.com/fleetgrid/wsreport/types"
)

// ACCOUNTDISABLE bit of userAccountControl.
const uacAccountDisable = 0x2

var userAttributes = []string{
	"displayName",
	"department",
	"mail",
	"manager",
	"mobile",
	"userAccountControl",
}

// ResolveUser looks up a directory user by sAMAccountName. An unknown
// account yields Found=false with a nil error; only transport failures
// error. The manager attribute is a DN and gets resolved to a display
// name in a second query.
func (c *Client) ResolveUser(samAccountName string) (types.UserInfo, error) {
	filter := fmt.Sprintf("(&(objectClass=user)(sAMAccountName=%s))", ldap.EscapeFilter(samAccountName))

	entry, err := c.search(filter, userAttributes)
	if errors.Is(err, ErrNotFound) {
		return types.UserInfo{}, nil
	}
	if err != nil {
		return types.UserInfo{}, err
	}

	info := types.UserInfo{
		Found:      true,
		FullName:   entry.GetAttributeValue("displayName"),
		Department: entry.GetAttributeValue("department"),
		Email:      entry.GetAttributeValue("mail"),
		Mobile:     entry.GetAttributeValue("mobile"),
		Enabled:    uacEnabled(entry.GetAttributeValue("userAccountControl")),
	}

	if managerDN := entry.GetAttributeValue("manager"); managerDN != "" {
		name, err := c.resolveManager(managerDN)
		if err != nil {
			return types.UserInfo{}, err
		}
		info.ManagerName = name
	}

	return info, nil
}

// resolveManager turns a manager DN into a display name. A dangling DN
// resolves to empty rather than failing the user lookup.
func (c *Client) resolveManager(managerDN string) (string, error) {
	req := ldap.NewSearchRequest(
		managerDN,
		ldap.ScopeBaseObject, ldap.NeverDerefAliases, 1, 0, false,
		"(objectClass=*)",
		[]string{"displayName"},
		nil,
	)

	result, err := c.conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return "", nil
		}
		return "", fmt.Errorf("%w: resolve manager %s: %v", ErrDirectoryQuery, managerDN, err)
	}
	if len(result.Entries) == 0 {
		return "", nil
	}
	return result.Entries[0].GetAttributeValue("displayName"), nil
}

// uacEnabled reads the ACCOUNTDISABLE bit. A missing or malformed
// attribute counts as disabled.
func uacEnabled(raw string) bool {
	uac, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return uac&uacAccountDisable == 0
}
