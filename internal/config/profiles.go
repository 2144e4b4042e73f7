// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONNECTION PROFILES
// =============================================================================

// Connection security modes.
const (
	SecurityNone     = "none"
	SecurityLDAPS    = "ldaps"
	SecurityStartTLS = "starttls"
)

// Profile describes how to reach and authenticate to a directory server.
// Passwords are never stored; they come from the environment or a prompt.
type Profile struct {
	Name        string `toml:"name"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Security    string `toml:"security"`
	BindDN      string `toml:"bind_dn,omitempty"`
	BaseDN      string `toml:"base_dn"`
	PageSize    int    `toml:"page_size,omitempty"`
	TimeoutSecs int    `toml:"timeout_secs,omitempty"`
}

// SetDefaults fills the port, security mode, page size and timeout.
func (p *Profile) SetDefaults() {
	if p.Security == "" {
		p.Security = SecurityNone
	}
	p.Security = strings.ToLower(p.Security)
	if p.Port == 0 {
		if p.Security == SecurityLDAPS {
			p.Port = 636
		} else {
			p.Port = 389
		}
	}
	if p.PageSize == 0 {
		p.PageSize = 500
	}
	if p.TimeoutSecs == 0 {
		p.TimeoutSecs = 10
	}
}

// Validate checks the fields a connection needs.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is required")
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("profile %q: host is required", p.Name)
	}
	if p.Port < 0 || p.Port > 65535 {
		return fmt.Errorf("profile %q: port %d out of range", p.Name, p.Port)
	}
	switch strings.ToLower(p.Security) {
	case "", SecurityNone, SecurityLDAPS, SecurityStartTLS:
	default:
		return fmt.Errorf("profile %q: security must be none, ldaps or starttls", p.Name)
	}
	if p.PageSize < 0 || p.TimeoutSecs < 0 {
		return fmt.Errorf("profile %q: page_size and timeout_secs must not be negative", p.Name)
	}
	return nil
}

// URL returns the ldap:// or ldaps:// URL for the profile.
func (p Profile) URL() string {
	scheme := "ldap"
	port := p.Port
	if strings.EqualFold(p.Security, SecurityLDAPS) {
		scheme = "ldaps"
		if port == 0 {
			port = 636
		}
	} else if port == 0 {
		port = 389
	}
	return scheme + "://" + net.JoinHostPort(p.Host, strconv.Itoa(port))
}

// Timeout returns the connect and request timeout.
func (p Profile) Timeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// Label is the list display form "name (host:port)".
func (p Profile) Label() string {
	return fmt.Sprintf("%s (%s:%d)", p.Name, p.Host, p.Port)
}

// =============================================================================
// PROFILE IMPORT / EXPORT
// =============================================================================

// profileFile is the document shape of an exported profile file.
type profileFile struct {
	Profiles []Profile `toml:"profiles"`
}

// ExportProfiles serializes profiles as a TOML document of [[profiles]]
// tables, suitable for ImportProfiles.
func ExportProfiles(profiles []Profile) (string, error) {
	if len(profiles) == 0 {
		return "", errors.New("no profiles to export")
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(profileFile{Profiles: profiles}); err != nil {
		return "", fmt.Errorf("failed to serialize profiles: %w", err)
	}
	return buf.String(), nil
}

// ImportProfiles parses a document produced by ExportProfiles (or the
// [[profiles]] tables of a config file). Every profile must validate.
func ImportProfiles(content string) ([]Profile, error) {
	var doc profileFile
	if _, err := toml.Decode(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, errors.New("no profiles found in file")
	}
	for i := range doc.Profiles {
		if err := doc.Profiles[i].Validate(); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i+1, err)
		}
		doc.Profiles[i].SetDefaults()
	}
	return doc.Profiles, nil
}

// MergeProfiles returns existing with imported applied: a profile whose name
// already exists replaces it in place, new names are appended in order.
func MergeProfiles(existing, imported []Profile) (merged []Profile, added, replaced int) {
	merged = append([]Profile(nil), existing...)
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.Name] = i
	}
	for _, p := range imported {
		if i, ok := index[p.Name]; ok {
			merged[i] = p
			replaced++
			continue
		}
		index[p.Name] = len(merged)
		merged = append(merged, p)
		added++
	}
	return merged, added, replaced
}
