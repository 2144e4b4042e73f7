// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/util"
)

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// CSVSeparator joins multi-valued attributes in CSV and XLSX cells.
	// Default: "|"
	CSVSeparator string

	// LDIFFoldWidth is the LDIF line width. Negative disables folding.
	// Default: 76
	LDIFFoldWidth int

	// SheetName names the XLSX worksheet.
	// Default: "Entries"
	SheetName string

	// FileMode is the permission of written files.
	// Default: 0644
	FileMode os.FileMode
}

// DefaultOptions returns default export options.
func DefaultOptions() Options {
	return Options{
		CSVSeparator:  DefaultSeparator,
		LDIFFoldWidth: DefaultLDIFFoldWidth,
		SheetName:     DefaultSheetName,
		FileMode:      0644,
	}
}

// OptionsFromConfig builds options from the [export] config section,
// falling back to defaults for unset fields.
func OptionsFromConfig(c config.ExportConfig) Options {
	return Options{
		CSVSeparator:  c.CSVSeparator,
		LDIFFoldWidth: c.LDIFFoldWidth,
		SheetName:     c.SheetName,
		FileMode:      c.FilePerm(),
	}.normalized()
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.CSVSeparator == "" {
		o.CSVSeparator = def.CSVSeparator
	}
	if o.LDIFFoldWidth == 0 {
		o.LDIFFoldWidth = def.LDIFFoldWidth
	}
	if o.SheetName == "" {
		o.SheetName = def.SheetName
	}
	if o.FileMode == 0 {
		o.FileMode = def.FileMode
	}
	return o
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter resolves, filters, encodes and writes entry collections.
// It holds no state between calls and is safe for concurrent use with
// distinct output paths.
type Exporter struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an exporter. Zero-valued option fields take their defaults.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts.normalized(), logger: zerolog.Nop()}
}

// WithLogger returns a copy of the exporter that logs to l.
func (x *Exporter) WithLogger(l zerolog.Logger) *Exporter {
	cp := *x
	cp.logger = l.With().Str("component", "export").Logger()
	return &cp
}

// Options returns the effective options.
func (x *Exporter) Options() Options {
	return x.opts
}

// Export writes entries to path in the format implied by its extension,
// keeping only the selected attributes. It returns len(entries) on success,
// whatever the filtering left on each entry.
//
// The file is replaced atomically: on any failure the destination is left
// as it was and no partial file remains. An unknown extension fails before
// anything touches the filesystem.
func (x *Exporter) Export(entries []entry.Entry, path string, attributes []string) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		x.logger.Error().Err(err).Str("path", path).Msg("export rejected")
		return 0, err
	}
	x.logger.Debug().Str("path", path).Stringer("format", format).Msg("format resolved")

	data, err := x.Render(format, entries, attributes)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Path = path
		}
		x.logger.Error().Err(err).Str("path", path).Msg("export encoding failed")
		return 0, err
	}

	if err := util.AtomicWriteFile(path, data, x.opts.FileMode); err != nil {
		werr := &Error{Kind: KindIO, Format: format, Path: path, Err: err}
		x.logger.Error().Err(werr).Msg("export write failed")
		return 0, werr
	}

	x.logger.Info().
		Str("path", path).
		Stringer("format", format).
		Int("entries", len(entries)).
		Int("bytes", len(data)).
		Msg("export written")
	return len(entries), nil
}

// Render produces the payload for format without touching the filesystem.
func (x *Exporter) Render(format Format, entries []entry.Entry, attributes []string) ([]byte, error) {
	enc, err := NewEncoder(format, x.opts)
	if err != nil {
		return nil, err
	}

	sel := Select(attributes)
	filtered := sel.FilterAll(entries)
	columns := sel.Columns(filtered)
	x.logger.Debug().
		Str("selection", sel.String()).
		Int("entries", len(filtered)).
		Int("columns", len(columns)).
		Msg("entries filtered")

	data, err := enc.Encode(filtered, columns)
	if err != nil {
		return nil, err
	}
	x.logger.Debug().Stringer("format", format).Int("bytes", len(data)).Msg("payload encoded")
	return data, nil
}

// =============================================================================
// PACKAGE-LEVEL HELPERS
// =============================================================================

// ExportEntries exports with default options. See Exporter.Export.
func ExportEntries(entries []entry.Entry, path string, attributes []string) (int, error) {
	return New(DefaultOptions()).Export(entries, path, attributes)
}

// ToString renders entries as JSON text, for previews and the clipboard.
func ToString(entries []entry.Entry, attributes []string) (string, error) {
	data, err := New(DefaultOptions()).Render(FormatJSON, entries, attributes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
