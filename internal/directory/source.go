// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ldap/ldif"

	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/export"
)

// =============================================================================
// ENTRY SOURCES
// =============================================================================

// Source yields an ordered collection of entries. Callers treat the result
// as read-only.
type Source interface {
	// Entries returns the collection.
	Entries(ctx context.Context) ([]entry.Entry, error)

	// Name describes the source for status lines ("corp", "dump.ldif").
	Name() string
}

// Tree is a Source whose entries can be expanded into their children.
type Tree interface {
	Source

	// Children lists the immediate children of dn.
	Children(ctx context.Context, dn string) ([]entry.Entry, error)
}

// searchSource runs a fixed search on a live client.
type searchSource struct {
	client *Client
	req    SearchRequest
}

// SearchSource returns a Tree that runs req on client each time.
func SearchSource(client *Client, req SearchRequest) Tree {
	return &searchSource{client: client, req: req}
}

func (s *searchSource) Entries(ctx context.Context) ([]entry.Entry, error) {
	return s.client.Search(ctx, s.req)
}

func (s *searchSource) Name() string {
	return s.client.Profile().Name
}

func (s *searchSource) Children(ctx context.Context, dn string) ([]entry.Entry, error) {
	return s.client.Children(ctx, dn)
}

// Static is an in-memory Source.
type Static struct {
	Label string
	Items []entry.Entry
}

// Entries returns the stored entries.
func (s *Static) Entries(ctx context.Context) ([]entry.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Items, nil
}

// Name returns the label.
func (s *Static) Name() string {
	return s.Label
}

// =============================================================================
// OFFLINE SNAPSHOTS
// =============================================================================

// LoadLDIF reads content records from an LDIF file. Change records (add,
// modify, delete) are skipped.
func LoadLDIF(path string) ([]entry.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	l, err := ldif.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make([]entry.Entry, 0, len(l.Entries))
	for _, rec := range l.Entries {
		if rec == nil || rec.Entry == nil {
			continue
		}
		out = append(out, entry.FromLDAP(rec.Entry))
	}
	return out, nil
}

// LoadJSON reads a file written by the JSON exporter.
func LoadJSON(path string) ([]entry.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	entries, err := export.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// OpenSnapshot loads an LDIF or JSON file, chosen by extension, as a Source.
func OpenSnapshot(path string) (Source, error) {
	format, err := export.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	var entries []entry.Entry
	switch format {
	case export.FormatLDIF:
		entries, err = LoadLDIF(path)
	case export.FormatJSON:
		entries, err = LoadJSON(path)
	default:
		return nil, fmt.Errorf("cannot browse %s files; use .ldif or .json", strings.ToUpper(strings.TrimPrefix(format.Extension(), ".")))
	}
	if err != nil {
		return nil, err
	}
	return &Static{Label: filepath.Base(path), Items: entries}, nil
}
