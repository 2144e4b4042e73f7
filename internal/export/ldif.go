// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/base64"

	"github.com/jeranaias/loom/internal/entry"
)

// =============================================================================
// LDIF ENCODER
// =============================================================================

// DefaultLDIFFoldWidth is the line width used when none is configured.
const DefaultLDIFFoldWidth = 76

// LDIFEncoder writes RFC 2849 content records.
//
// Every line it emits is 7-bit ASCII: values that are not SAFE-STRINGs are
// base64 encoded, so folding by byte count never splits a character.
type LDIFEncoder struct {
	// FoldWidth is the maximum line length in bytes. Zero means
	// DefaultLDIFFoldWidth; a negative value disables folding.
	FoldWidth int
}

// Format returns FormatLDIF.
func (e *LDIFEncoder) Format() Format {
	return FormatLDIF
}

// Encode writes a version header followed by one record per entry, records
// separated by a blank line. Within a record, attributes follow columns and
// each value gets its own line.
func (e *LDIFEncoder) Encode(entries []entry.Entry, columns []string) ([]byte, error) {
	for _, name := range columns {
		if !validLDIFName(name) {
			return nil, encodingError(FormatLDIF, "", name, errInvalidName)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("version: 1\n")
	for i, ent := range entries {
		if i > 0 {
			buf.WriteByte('\n')
		}
		e.writeAttr(&buf, "dn", ent.DN)
		for _, name := range columns {
			for _, v := range ent.Attributes[name] {
				e.writeAttr(&buf, name, v)
			}
		}
	}
	return buf.Bytes(), nil
}

func (e *LDIFEncoder) writeAttr(buf *bytes.Buffer, name, value string) {
	var line string
	switch {
	case value == "":
		line = name + ":"
	case isSafeString(value):
		line = name + ": " + value
	default:
		line = name + ":: " + base64.StdEncoding.EncodeToString([]byte(value))
	}
	e.writeFolded(buf, line)
}

// writeFolded writes line, splitting it onto continuation lines that begin
// with a single space once it exceeds the fold width.
func (e *LDIFEncoder) writeFolded(buf *bytes.Buffer, line string) {
	width := e.FoldWidth
	if width == 0 {
		width = DefaultLDIFFoldWidth
	}
	if width < 0 || len(line) <= width {
		buf.WriteString(line)
		buf.WriteByte('\n')
		return
	}
	if width < 2 {
		width = 2
	}

	buf.WriteString(line[:width])
	buf.WriteByte('\n')
	rest := line[width:]
	for len(rest) > 0 {
		n := width - 1
		if n > len(rest) {
			n = len(rest)
		}
		buf.WriteByte(' ')
		buf.WriteString(rest[:n])
		buf.WriteByte('\n')
		rest = rest[n:]
	}
}

// isSafeString reports whether s can be written verbatim after "name: ".
// It is stricter than RFC 2849 SAFE-STRING: non-ASCII text and a trailing
// space also force base64, so the value survives any line-oriented tooling.
func isSafeString(s string) bool {
	if s == "" {
		return true
	}
	switch s[0] {
	case ' ', ':', '<':
		return false
	}
	if s[len(s)-1] == ' ' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c >= 0x7f {
			return false
		}
	}
	return true
}

// validLDIFName accepts printable ASCII attribute descriptions without
// separators, which covers names, OIDs and ";option" suffixes.
func validLDIFName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f || c == ':' {
			return false
		}
	}
	return true
}
