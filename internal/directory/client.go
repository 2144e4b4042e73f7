// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/entry"
)

// =============================================================================
// LDAP CLIENT
// =============================================================================

// ErrClosed is returned by operations on a closed client.
var ErrClosed = errors.New("directory connection closed")

// conn is the subset of *ldap.Conn the client uses.
type conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	StartTLS(cfg *tls.Config) error
	SetTimeout(d time.Duration)
	Close() error
}

// Scope is the depth of a search.
type Scope int

const (
	ScopeSubtree Scope = iota
	ScopeOneLevel
	ScopeBase
)

func (s Scope) ldap() int {
	switch s {
	case ScopeBase:
		return ldap.ScopeBaseObject
	case ScopeOneLevel:
		return ldap.ScopeSingleLevel
	default:
		return ldap.ScopeWholeSubtree
	}
}

// SearchRequest describes one search.
type SearchRequest struct {
	BaseDN     string
	Filter     string   // default "(objectClass=*)"
	Attributes []string // empty means all user attributes
	Scope      Scope
	SizeLimit  int // 0 means unlimited
}

// Client is a connection to one directory server.
type Client struct {
	conn     conn
	profile  config.Profile
	pageSize uint32
	logger   zerolog.Logger
}

// Dial connects to the server described by p. Security "ldaps" dials TLS
// directly, "starttls" upgrades a plain connection before returning.
func Dial(ctx context.Context, p config.Profile, logger zerolog.Logger) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tlsCfg := &tls.Config{ServerName: p.Host, MinVersion: tls.VersionTLS12}

	c, err := ldap.DialURL(p.URL(),
		ldap.DialWithDialer(&net.Dialer{Timeout: p.Timeout()}),
		ldap.DialWithTLSConfig(tlsCfg),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", p.URL(), err)
	}

	client := newClient(c, p, logger)
	if strings.EqualFold(p.Security, config.SecurityStartTLS) {
		if err := c.StartTLS(tlsCfg); err != nil {
			c.Close()
			return nil, fmt.Errorf("starttls with %s: %w", p.Host, err)
		}
	}
	client.logger.Info().Str("url", p.URL()).Str("security", p.Security).Msg("connected")
	return client, nil
}

// newClient wraps an established connection.
func newClient(c conn, p config.Profile, logger zerolog.Logger) *Client {
	c.SetTimeout(p.Timeout())
	size := p.PageSize
	if size <= 0 {
		size = 500
	}
	return &Client{
		conn:     c,
		profile:  p,
		pageSize: uint32(size),
		logger:   logger.With().Str("component", "directory").Str("profile", p.Name).Logger(),
	}
}

// Profile returns the profile the client was dialed with.
func (c *Client) Profile() config.Profile {
	return c.profile
}

// Bind authenticates. An empty dn performs no bind (anonymous access).
func (c *Client) Bind(dn, password string) error {
	if c.conn == nil {
		return ErrClosed
	}
	if dn == "" {
		return nil
	}
	if err := c.conn.Bind(dn, password); err != nil {
		return fmt.Errorf("bind as %s: %w", dn, err)
	}
	c.logger.Debug().Str("bind_dn", dn).Msg("bound")
	return nil
}

// Search runs req with the paged results control, fetching pages until the
// server returns an empty cookie, the size limit is reached or ctx is done.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]entry.Entry, error) {
	if c.conn == nil {
		return nil, ErrClosed
	}
	filter := req.Filter
	if filter == "" {
		filter = "(objectClass=*)"
	}
	if _, err := ldap.CompileFilter(filter); err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
	}

	paging := ldap.NewControlPaging(c.pageSize)
	sr := ldap.NewSearchRequest(
		req.BaseDN,
		req.Scope.ldap(),
		ldap.NeverDerefAliases,
		req.SizeLimit, int(c.profile.Timeout()/time.Second), false,
		filter,
		req.Attributes,
		[]ldap.Control{paging},
	)

	var out []entry.Entry
	pages := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := c.conn.Search(sr)
		if err != nil {
			if ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) && res != nil {
				out = append(out, entry.FromLDAPAll(res.Entries)...)
				break
			}
			return nil, fmt.Errorf("search %s: %w", req.BaseDN, err)
		}
		pages++
		out = append(out, entry.FromLDAPAll(res.Entries)...)
		if req.SizeLimit > 0 && len(out) >= req.SizeLimit {
			out = out[:req.SizeLimit]
			break
		}

		ctrl, ok := ldap.FindControl(res.Controls, ldap.ControlTypePaging).(*ldap.ControlPaging)
		if !ok || len(ctrl.Cookie) == 0 {
			break
		}
		paging.SetCookie(ctrl.Cookie)
	}

	c.logger.Debug().
		Str("base", req.BaseDN).
		Str("filter", filter).
		Int("pages", pages).
		Int("entries", len(out)).
		Msg("search complete")
	if out == nil {
		out = []entry.Entry{}
	}
	return out, nil
}

// Children lists the immediate subordinates of dn.
func (c *Client) Children(ctx context.Context, dn string) ([]entry.Entry, error) {
	return c.Search(ctx, SearchRequest{BaseDN: dn, Scope: ScopeOneLevel})
}

// Read fetches the single entry named by dn.
func (c *Client) Read(ctx context.Context, dn string) (entry.Entry, error) {
	found, err := c.Search(ctx, SearchRequest{BaseDN: dn, Scope: ScopeBase})
	if err != nil {
		return entry.Entry{}, err
	}
	if len(found) == 0 {
		return entry.Entry{}, fmt.Errorf("entry %s not found", dn)
	}
	return found[0], nil
}

// Close ends the session. It is safe to call more than once.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
