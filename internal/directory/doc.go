// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory produces the entry collections loom browses and exports.
//
// Entries come either from a live server (Client, over go-ldap with the
// paged results control) or from an offline snapshot file (LDIF or the
// JSON export format). Both are exposed through the Source interface.
//
// # Usage
//
//	c, err := directory.Dial(ctx, profile, logger)
//	if err != nil { ... }
//	defer c.Close()
//	if err := c.Bind(profile.BindDN, password); err != nil { ... }
//	people, err := c.Search(ctx, directory.SearchRequest{
//	    BaseDN: "ou=people,dc=example,dc=com",
//	    Filter: "(objectClass=person)",
//	})
//
// Offline:
//
//	src, err := directory.OpenSnapshot("dump.ldif")
//	entries, err := src.Entries(ctx)
package directory
