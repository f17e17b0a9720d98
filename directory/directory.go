// Package directory resolves workspace owners and machines against the
// corporate directory over LDAP. Lookups distinguish "not found" (a
// normal outcome, the nominal owner may have been deprovisioned) from
// transport failures.
package directory

import (
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"github.com/fleetgrid/wsreport/config"
)

var (
	// ErrDirectoryQuery marks transport or service failures talking to
	// the directory, as opposed to an entry simply not existing.
	ErrDirectoryQuery = errors.New("directory query failed")

	// ErrNotFound marks a DN or entry that does not exist.
	ErrNotFound = errors.New("directory entry not found")
)

// searcher is the slice of the LDAP connection the lookups need.
type searcher interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
}

// Client runs user and computer lookups against one directory.
type Client struct {
	conn   searcher
	baseDN string
	closer func() error
}

// Connect dials the directory and binds with the configured service
// account. Callers own the returned client and must Close it.
func Connect(cfg config.DirectoryConfig) (*Client, error) {
	conn, err := ldap.DialURL(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrDirectoryQuery, cfg.Addr, err)
	}

	if cfg.BindDN != "" {
		if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: bind as %s: %v", ErrDirectoryQuery, cfg.BindDN, err)
		}
	}

	return &Client{
		conn:   conn,
		baseDN: cfg.BaseDN,
		closer: conn.Close,
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// search runs a subtree search under the client's base DN and returns
// the first matching entry, ErrNotFound when nothing matches.
func (c *Client) search(filter string, attributes []string) (*ldap.Entry, error) {
	req := ldap.NewSearchRequest(
		c.baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 0, false,
		filter,
		attributes,
		nil,
	)

	result, err := c.conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, ErrNotFound
		}
		// Hitting the size limit means the filter matched; one entry
		// is all we need.
		if !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) {
			return nil, fmt.Errorf("%w: search %s: %v", ErrDirectoryQuery, filter, err)
		}
	}
	if result == nil || len(result.Entries) == 0 {
		return nil, ErrNotFound
	}
	return result.Entries[0], nil
}
