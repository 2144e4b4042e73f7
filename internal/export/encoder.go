// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"unicode/utf8"

	"github.com/jeranaias/loom/internal/entry"
)

// =============================================================================
// ENCODER INTERFACE
// =============================================================================

// Encoder serializes an already-filtered entry collection.
//
// columns is the attribute order for encoders that need one (CSV, XLSX,
// LDIF). Encoders must be deterministic: identical inputs produce
// byte-identical output.
type Encoder interface {
	// Encode converts the entries to the target format and returns the payload.
	Encode(entries []entry.Entry, columns []string) ([]byte, error)

	// Format reports which format the encoder produces.
	Format() Format
}

// NewEncoder returns the encoder for f configured from opts.
func NewEncoder(f Format, opts Options) (Encoder, error) {
	opts = opts.normalized()
	switch f {
	case FormatJSON:
		return &JSONEncoder{}, nil
	case FormatLDIF:
		return &LDIFEncoder{FoldWidth: opts.LDIFFoldWidth}, nil
	case FormatCSV:
		return &CSVEncoder{Separator: opts.CSVSeparator}, nil
	case FormatXLSX:
		return &XLSXEncoder{Separator: opts.CSVSeparator, SheetName: opts.SheetName}, nil
	default:
		return nil, &Error{Kind: KindUnsupportedFormat, Err: fmt.Errorf("format %d", int(f))}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// cellValue joins the values of one attribute into a single cell. Absent
// attributes yield the empty string.
func cellValue(e entry.Entry, name, sep string) string {
	values := e.Attributes[name]
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	n := len(sep) * (len(values) - 1)
	for _, v := range values {
		n += len(v)
	}
	buf := make([]byte, 0, n)
	for i, v := range values {
		if i > 0 {
			buf = append(buf, sep...)
		}
		buf = append(buf, v...)
	}
	return string(buf)
}

// checkUTF8 validates the columns, then the DN, every attribute name and
// every value of every entry.
func checkUTF8(f Format, entries []entry.Entry, columns []string) error {
	for _, name := range columns {
		if !utf8.ValidString(name) {
			return encodingError(f, "", name, errInvalidUTF8)
		}
	}
	for _, e := range entries {
		if !utf8.ValidString(e.DN) {
			return encodingError(f, e.DN, "dn", errInvalidUTF8)
		}
		for _, name := range e.Attributes.Names() {
			if !utf8.ValidString(name) {
				return encodingError(f, e.DN, name, errInvalidUTF8)
			}
			for _, v := range e.Attributes[name] {
				if !utf8.ValidString(v) {
					return encodingError(f, e.DN, name, errInvalidUTF8)
				}
			}
		}
	}
	return nil
}
