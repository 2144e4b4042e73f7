// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/directory"
	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/util"
)

// errNoSource is returned by one-shot commands that have nothing to read.
var errNoSource = &UsageError{Err: errors.New("no entries to read: pass --snapshot FILE or configure a profile")}

// searchFlags are the live-search flags shared by export and preview.
type searchFlags struct {
	base      string
	filter    string
	scope     scopeValue
	sizeLimit int
}

// =============================================================================
// PROFILES AND CREDENTIALS
// =============================================================================

// resolveProfile returns the --profile profile, or the configured default.
func (a *app) resolveProfile() (config.Profile, bool, error) {
	if a.profile != "" {
		p, ok := a.cfg.Profile(a.profile)
		if !ok {
			return config.Profile{}, false, &NotFoundError{Resource: "profile", ID: a.profile}
		}
		return p, true, nil
	}
	p, ok := a.cfg.ActiveProfile()
	return p, ok, nil
}

// password returns the bind password for p from the environment, an
// earlier prompt, or (when interactive) a new prompt.
func (a *app) password(p config.Profile, interactive bool) (string, error) {
	if p.BindDN == "" {
		return "", nil
	}
	if a.cfg.BindPassword != "" {
		return a.cfg.BindPassword, nil
	}
	if pw, ok := a.passwords[p.Name]; ok {
		return pw, nil
	}
	if !interactive || a.readPassword == nil {
		return "", fmt.Errorf("no password for %s: set LOOM_BIND_PASSWORD or connect with --profile", p.BindDN)
	}
	pw, err := a.readPassword(fmt.Sprintf("Password for %s", p.BindDN))
	if err != nil {
		return "", err
	}
	a.passwords[p.Name] = pw
	return pw, nil
}

// dial connects to p and binds.
func (a *app) dial(ctx context.Context, p config.Profile, interactive bool) (*directory.Client, error) {
	pw, err := a.password(p, interactive)
	if err != nil {
		return nil, err
	}
	c, err := directory.Dial(ctx, p, a.logger)
	if err != nil {
		return nil, err
	}
	if err := c.Bind(p.BindDN, pw); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// connect is the browser's ConnectFunc. It never prompts: the TUI owns the
// terminal while it runs.
func (a *app) connect(ctx context.Context, p config.Profile) (directory.Source, io.Closer, error) {
	c, err := a.dial(ctx, p, false)
	if err != nil {
		return nil, nil, err
	}
	return browseSource(c, p), c, nil
}

// browseSource lists the immediate children of the profile's base DN.
func browseSource(c *directory.Client, p config.Profile) directory.Tree {
	return directory.SearchSource(c, directory.SearchRequest{BaseDN: p.BaseDN, Scope: directory.ScopeOneLevel})
}

// =============================================================================
// ONE-SHOT READS
// =============================================================================

// readEntries loads the entries a one-shot command works on: the snapshot
// when --snapshot is set, otherwise a search on the selected profile.
func (a *app) readEntries(ctx context.Context, sf searchFlags) ([]entry.Entry, error) {
	if a.snapshot != "" {
		src, err := directory.OpenSnapshot(util.ExpandTilde(a.snapshot))
		if err != nil {
			return nil, err
		}
		return src.Entries(ctx)
	}

	p, ok, err := a.resolveProfile()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoSource
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout()*6)
	defer cancel()
	c, err := a.dial(ctx, p, true)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	req := directory.SearchRequest{
		BaseDN:    sf.base,
		Filter:    sf.filter,
		Scope:     sf.scope.scope,
		SizeLimit: sf.sizeLimit,
	}
	if req.BaseDN == "" {
		req.BaseDN = p.BaseDN
	}
	a.logger.Debug().Str("profile", p.Name).Str("base", req.BaseDN).Str("filter", req.Filter).Msg("searching")
	return c.Search(ctx, req)
}
