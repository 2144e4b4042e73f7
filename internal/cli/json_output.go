// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every --json command writes.
type JSONResponse struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Command   string  `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response to w with indentation.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// =============================================================================
// COMMAND DATA
// =============================================================================

// ProfileData is one row of `loom profiles list --json`.
type ProfileData struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Security string `json:"security"`
	BaseDN   string `json:"base_dn"`
	BindDN   string `json:"bind_dn,omitempty"`
	Default  bool   `json:"default"`
}

// HistoryData is one row of `loom history --json`.
type HistoryData struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	Path       string    `json:"path"`
	Format     string    `json:"format"`
	Count      int       `json:"count"`
	Attributes []string  `json:"attributes"`
	Error      string    `json:"error,omitempty"`
}

// ExportData is the result of `loom export --json`.
type ExportData struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Count  int    `json:"count"`
}

// DiffData is the result of `loom diff --json`.
type DiffData struct {
	Added     int          `json:"added"`
	Removed   int          `json:"removed"`
	Modified  int          `json:"modified"`
	Unchanged int          `json:"unchanged"`
	Changes   []DiffChange `json:"changes"`
}

// DiffChange is one changed entry in DiffData.
type DiffChange struct {
	Type       string          `json:"type"`
	DN         string          `json:"dn"`
	Attributes []DiffAttribute `json:"attributes"`
}

// DiffAttribute is one changed attribute in DiffChange.
type DiffAttribute struct {
	Name string   `json:"name"`
	Old  []string `json:"old"`
	New  []string `json:"new"`
}
