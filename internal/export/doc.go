// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes collections of directory entries to files.
//
// The output format is chosen from the file extension, the caller's
// attribute selection is applied to every entry, and the encoded payload
// is written atomically (temp file + rename) so a failed export never
// leaves a truncated file behind.
//
// # Key Types
//
//   - Format: closed set of output formats (LDIF, JSON, CSV, XLSX)
//   - Selection: attribute selection policy (wildcard or explicit list)
//   - Encoder: per-format serializer
//   - Exporter: orchestrates resolve, filter, encode and write
//   - Error: typed failure (unsupported format, encoding, I/O)
//
// # Supported Formats
//
//   - .ldif, .ldf: LDIF (RFC 2849), folded at 76 columns, base64 for unsafe values
//   - .json: pretty-printed array of {dn, attributes}
//   - .csv: header row + one row per entry, multi-values joined with "|"
//   - .xlsx, .xls: single-sheet workbook, every cell a text cell
//
// # Attribute Selection
//
// ["*"] selects every attribute (alphabetical columns, union across entries).
// Any other list is explicit: only those names are kept, and CSV/XLSX
// columns and LDIF attribute lines follow the list's literal order.
//
// # Usage
//
//	n, err := export.ExportEntries(entries, "people.csv", []string{"cn", "mail"})
//	if errors.Is(err, export.ErrUnknownExtension) { ... }
//
// Serialize without touching the filesystem:
//
//	text, err := export.ToString(entries, []string{"*"})
package export
