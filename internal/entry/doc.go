// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package entry defines the directory entry model shared by the browser,
// the directory client, and the export subsystem.
//
// An Entry is a distinguished name plus a set of multi-valued attributes.
// Attribute names are unique within one entry and are iterated in
// ascending byte order (see Attributes.Names); values keep the order the
// directory returned them in.
//
// # Key Types
//
//   - Entry: one directory record (DN + attributes)
//   - Attributes: attribute name to ordered values
//
// # Lookup
//
// Directory attribute names are case-insensitive, so readers should go
// through the lookup helpers instead of indexing the map directly:
//
//	mail := entry.GetValues(e.Attributes, "Mail")
//	cn, ok := entry.GetFirst(e.Attributes, "CN")
//	if entry.HasAttr(e.Attributes, "jpegPhoto") { ... }
package entry
