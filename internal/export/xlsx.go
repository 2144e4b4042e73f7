// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jeranaias/loom/internal/entry"
)

// =============================================================================
// XLSX ENCODER
// =============================================================================

const (
	// DefaultSheetName names the single worksheet.
	DefaultSheetName = "Entries"

	// maxCellChars is the spreadsheet limit on characters per cell.
	maxCellChars = 32767

	// excelize creates new workbooks with this sheet.
	initialSheet = "Sheet1"
)

// XLSXEncoder writes a single-sheet workbook with the same header and join
// policy as CSVEncoder. Every cell is a string cell, so values such as
// "=SUM(A1)" or "0012" are stored verbatim and never evaluated.
type XLSXEncoder struct {
	// Separator joins multi-valued attributes. Empty means DefaultSeparator.
	Separator string
	// SheetName names the worksheet. Empty means DefaultSheetName.
	SheetName string
}

// Format returns FormatXLSX.
func (e *XLSXEncoder) Format() Format {
	return FormatXLSX
}

// Encode builds the workbook and returns the container bytes.
func (e *XLSXEncoder) Encode(entries []entry.Entry, columns []string) ([]byte, error) {
	if err := checkUTF8(FormatXLSX, entries, columns); err != nil {
		return nil, err
	}
	sep := e.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	sheet := e.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != initialSheet {
		if err := f.SetSheetName(initialSheet, sheet); err != nil {
			return nil, encodingError(FormatXLSX, "", "", fmt.Errorf("sheet name %q: %w", sheet, err))
		}
	}

	set := func(col, row int, value, dn, attr string) error {
		if err := checkCell(value); err != nil {
			return encodingError(FormatXLSX, dn, attr, err)
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return encodingError(FormatXLSX, dn, attr, err)
		}
		if err := f.SetCellStr(sheet, cell, value); err != nil {
			return encodingError(FormatXLSX, dn, attr, err)
		}
		return nil
	}

	if err := set(1, 1, "dn", "", ""); err != nil {
		return nil, err
	}
	for i, name := range columns {
		if err := set(i+2, 1, name, "", name); err != nil {
			return nil, err
		}
	}

	for r, ent := range entries {
		row := r + 2
		if err := set(1, row, ent.DN, ent.DN, "dn"); err != nil {
			return nil, err
		}
		for i, name := range columns {
			value := cellValue(ent, name, sep)
			if value == "" {
				continue
			}
			if err := set(i+2, row, value, ent.DN, name); err != nil {
				return nil, err
			}
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, encodingError(FormatXLSX, "", "", err)
	}
	data, err := canonicalZip(out.Bytes())
	if err != nil {
		return nil, encodingError(FormatXLSX, "", "", err)
	}
	return data, nil
}

// checkCell rejects values a worksheet cannot hold.
func checkCell(value string) error {
	if utf8.RuneCountInString(value) > maxCellChars {
		return errCellTooLong
	}
	for _, r := range value {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return errInvalidXMLChar
		}
	}
	return nil
}

// canonicalZip rewrites a zip archive with entries sorted by name and no
// timestamps. excelize emits parts in map order, so without this two
// exports of the same data differ byte-wise.
func canonicalZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	files := append([]*zip.File(nil), zr.File...)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, zf := range files {
		if err := copyZipEntry(zw, zf); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func copyZipEntry(zw *zip.Writer, zf *zip.File) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: zf.Name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("write %s: %w", zf.Name, err)
	}
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("read %s: %w", zf.Name, err)
	}
	defer rc.Close()
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copy %s: %w", zf.Name, err)
	}
	return nil
}
