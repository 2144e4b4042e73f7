// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrUnknownExtension is wrapped by the error returned when an output path
// has no extension or one that maps to no format.
var ErrUnknownExtension = errors.New("unknown file extension")

// Kind classifies an export failure.
type Kind int

const (
	// KindUnsupportedFormat: the output path does not name a known format.
	KindUnsupportedFormat Kind = iota + 1
	// KindEncoding: a value could not be represented in the target format,
	// or the encoder itself failed.
	KindEncoding
	// KindIO: the payload could not be written to disk.
	KindIO
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindEncoding:
		return "encoding"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by this package.
type Error struct {
	Kind   Kind
	Format Format // FormatUnknown for KindUnsupportedFormat
	Path   string // empty for in-memory rendering
	DN     string // entry being encoded, when known
	Attr   string // attribute being encoded, when known
	Err    error
}

// Error renders the human-readable message shown to users.
func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedFormat:
		if e.Path == "" {
			return fmt.Sprintf("unsupported export format: %v", e.Err)
		}
		return fmt.Sprintf("cannot export to %s: %v (use .ldif, .json, .csv or .xlsx)", e.Path, e.Err)
	case KindEncoding:
		msg := fmt.Sprintf("%s serialization failed", e.Format)
		if e.DN != "" {
			msg += fmt.Sprintf(" for %q", e.DN)
		}
		if e.Attr != "" {
			msg += fmt.Sprintf(" (attribute %s)", e.Attr)
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case KindIO:
		return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("export failed: %v", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the export could succeed without
// changing its inputs (disk full, permissions fixed, ...).
func (e *Error) Retryable() bool {
	return e.Kind == KindIO
}

// KindOf returns the Kind of err, or 0 if err is not an export error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// encodingError builds a KindEncoding error for a specific value.
func encodingError(f Format, dn, attr string, err error) *Error {
	return &Error{Kind: KindEncoding, Format: f, DN: dn, Attr: attr, Err: err}
}

var (
	errInvalidUTF8    = errors.New("value is not valid UTF-8")
	errInvalidXMLChar = errors.New("value contains a control character that spreadsheets cannot store")
	errCellTooLong    = errors.New("value exceeds the 32767 character cell limit")
	errInvalidName    = errors.New("invalid attribute name")
)
