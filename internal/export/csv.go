// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/csv"

	"github.com/jeranaias/loom/internal/entry"
)

// =============================================================================
// CSV ENCODER
// =============================================================================

// DefaultSeparator joins multiple values of one attribute in a CSV or XLSX
// cell. A value that itself contains the separator cannot be told apart
// from two values; pick a separator that the directory data does not use.
const DefaultSeparator = "|"

// CSVEncoder writes a header row ("dn" followed by columns) and one row per
// entry. Quoting follows encoding/csv: fields with commas, quotes or line
// breaks are quoted and embedded quotes doubled. Lines end in LF.
type CSVEncoder struct {
	// Separator joins multi-valued attributes. Empty means DefaultSeparator.
	Separator string
}

// Format returns FormatCSV.
func (e *CSVEncoder) Format() Format {
	return FormatCSV
}

// Encode serializes entries using columns as the attribute column order.
func (e *CSVEncoder) Encode(entries []entry.Entry, columns []string) ([]byte, error) {
	if err := checkUTF8(FormatCSV, entries, columns); err != nil {
		return nil, err
	}
	sep := e.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(columns)+1)
	header = append(header, "dn")
	header = append(header, columns...)
	if err := w.Write(header); err != nil {
		return nil, encodingError(FormatCSV, "", "", err)
	}

	row := make([]string, len(columns)+1)
	for _, ent := range entries {
		row[0] = ent.DN
		for i, name := range columns {
			row[i+1] = cellValue(ent, name, sep)
		}
		if err := w.Write(row); err != nil {
			return nil, encodingError(FormatCSV, ent.DN, "", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, encodingError(FormatCSV, "", "", err)
	}
	return buf.Bytes(), nil
}
