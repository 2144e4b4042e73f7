// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jeranaias/loom/internal/entry"
)

// =============================================================================
// JSON ENCODER
// =============================================================================

// JSONEncoder writes a pretty-printed array of {dn, attributes} objects.
// Attribute keys come out in alphabetical order regardless of the selection
// order; encoding/json sorts map keys.
type JSONEncoder struct{}

// jsonEntry is the on-disk shape. Attributes and value lists are always
// present so consumers never see null.
type jsonEntry struct {
	DN         string              `json:"dn"`
	Attributes map[string][]string `json:"attributes"`
}

// Format returns FormatJSON.
func (e *JSONEncoder) Format() Format {
	return FormatJSON
}

// Encode serializes entries. columns is ignored: JSON keeps every attribute
// that survived filtering.
func (e *JSONEncoder) Encode(entries []entry.Entry, _ []string) ([]byte, error) {
	// encoding/json would silently replace bad bytes with U+FFFD.
	if err := checkUTF8(FormatJSON, entries, nil); err != nil {
		return nil, err
	}

	out := make([]jsonEntry, 0, len(entries))
	for _, ent := range entries {
		attrs := make(map[string][]string, len(ent.Attributes))
		for name, values := range ent.Attributes {
			if values == nil {
				values = []string{}
			}
			attrs[name] = values
		}
		out = append(out, jsonEntry{DN: ent.DN, Attributes: attrs})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, encodingError(FormatJSON, "", "", err)
	}
	return buf.Bytes(), nil
}

// ParseJSON reads a payload produced by JSONEncoder back into entries.
func ParseJSON(data []byte) ([]entry.Entry, error) {
	var raw []jsonEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse entries: %w", err)
	}
	entries := make([]entry.Entry, 0, len(raw))
	for i, r := range raw {
		if r.DN == "" {
			return nil, fmt.Errorf("parse entries: element %d has no dn", i)
		}
		entries = append(entries, entry.New(r.DN, r.Attributes))
	}
	return entries, nil
}
