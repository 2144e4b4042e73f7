// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"path/filepath"
	"strings"
)

// =============================================================================
// FORMAT
// =============================================================================

// Format is an export output format.
type Format int

const (
	FormatUnknown Format = iota
	FormatLDIF
	FormatJSON
	FormatCSV
	FormatXLSX
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatLDIF, FormatJSON, FormatCSV, FormatXLSX}

// extensionFormats maps lower-case extensions (without the dot) to formats.
var extensionFormats = map[string]Format{
	"ldif": FormatLDIF,
	"ldf":  FormatLDIF,
	"json": FormatJSON,
	"csv":  FormatCSV,
	"xlsx": FormatXLSX,
	"xls":  FormatXLSX,
}

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatLDIF:
		return "LDIF"
	case FormatJSON:
		return "JSON"
	case FormatCSV:
		return "CSV"
	case FormatXLSX:
		return "XLSX"
	default:
		return "unknown"
	}
}

// Extension returns the canonical file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatLDIF:
		return ".ldif"
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ""
	}
}

// MimeType returns the MIME type for the format.
func (f Format) MimeType() string {
	switch f {
	case FormatLDIF:
		return "text/x-ldif"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// FormatFromPath infers the output format from the extension of path.
// Matching is case-insensitive; nothing but the extension is examined.
func FormatFromPath(path string) (Format, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	// A leading dot names a hidden file, not an extension (".json").
	if ext == base {
		ext = ""
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if f, ok := extensionFormats[ext]; ok {
		return f, nil
	}
	return FormatUnknown, &Error{Kind: KindUnsupportedFormat, Path: path, Err: ErrUnknownExtension}
}

// ParseFormat maps a format name or extension ("ldif", ".csv", "XLSX") to
// a Format.
func ParseFormat(name string) (Format, bool) {
	f, ok := extensionFormats[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))]
	return f, ok
}
