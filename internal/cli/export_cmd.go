// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/export"
	"github.com/jeranaias/loom/internal/history"
	"github.com/jeranaias/loom/internal/util"
)

// addSearchFlags registers the live-search flags on cmd.
func addSearchFlags(cmd *cobra.Command, sf *searchFlags) {
	cmd.Flags().StringVar(&sf.base, "base", "", "search base DN (default: the profile's base DN)")
	cmd.Flags().StringVarP(&sf.filter, "filter", "f", "(objectClass=*)", "LDAP search filter")
	cmd.Flags().Var(&sf.scope, "scope", "search scope: base, one or sub")
	cmd.Flags().IntVar(&sf.sizeLimit, "size-limit", 0, "stop after this many entries (0 = no limit)")
}

// attributesOrDefault returns the --attributes value, or the configured
// default selection when the flag was not given.
func (a *app) attributesOrDefault(cmd *cobra.Command, attrs []string) []string {
	if cmd.Flags().Changed("attributes") {
		return attrs
	}
	return a.cfg.Export.DefaultAttributes
}

// =============================================================================
// EXPORT
// =============================================================================

func (a *app) exportCmd() *cobra.Command {
	var (
		sf    searchFlags
		attrs []string
	)
	cmd := &cobra.Command{
		Use:   "export OUTPUT",
		Short: "Export entries to LDIF, JSON, CSV or XLSX",
		Long: `Export entries from a snapshot or a live search to OUTPUT.

The format is chosen by OUTPUT's extension: .ldif/.ldf, .json, .csv or
.xlsx/.xls. --attributes "*" (the default) exports every attribute; an
explicit list exports only those attributes, in the order given.

Examples:
  loom export people.csv -p corp --base ou=people,dc=example,dc=com -a cn,mail
  loom export copy.json --snapshot dump.ldif`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.readEntries(cmd.Context(), sf)
			if err != nil {
				return err
			}
			return a.runExport(cmd, entries, util.ExpandTilde(args[0]), a.attributesOrDefault(cmd, attrs))
		},
	}
	addSearchFlags(cmd, &sf)
	cmd.Flags().StringSliceVarP(&attrs, "attributes", "a", nil, `attributes to export, comma separated ("*" for all)`)
	return cmd
}

// runExport writes entries to path and records the attempt in history.
func (a *app) runExport(cmd *cobra.Command, entries []entry.Entry, path string, attrs []string) error {
	var store *history.Store
	if a.cfg.Export.HistoryEnabled {
		s, err := a.openHistory()
		if err != nil {
			a.logger.Warn().Err(err).Msg("history unavailable")
		} else {
			store = s
			defer store.Close()
		}
	}

	x := export.New(export.OptionsFromConfig(a.cfg.Export)).WithLogger(a.logger)
	rec, err := history.Export(cmd.Context(), store, x, entries, path, attrs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOut {
		return NewJSONResponse(cmd.CommandPath(), ExportData{Path: path, Format: rec.Format, Count: rec.Count}).Write(out)
	}
	noun := "entries"
	if rec.Count == 1 {
		noun = "entry"
	}
	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("Exported %d %s to %s", rec.Count, noun, path)))
	return nil
}

// =============================================================================
// PREVIEW
// =============================================================================

func (a *app) previewCmd() *cobra.Command {
	var (
		sf     searchFlags
		attrs  []string
		limit  int
		format = formatValue{format: export.FormatJSON}
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print entries in an export format without writing a file",
		Long: `Render entries to stdout exactly as export would write them.

XLSX is binary and cannot be previewed; use export for spreadsheets.

Examples:
  loom preview --snapshot dump.ldif --limit 3
  loom preview -p corp --filter "(uid=jdoe)" --format ldif`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format.format == export.FormatXLSX {
				return &UsageError{Err: errors.New("xlsx output is binary; use loom export FILE.xlsx")}
			}
			entries, err := a.readEntries(cmd.Context(), sf)
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			x := export.New(export.OptionsFromConfig(a.cfg.Export)).WithLogger(a.logger)
			data, err := x.Render(format.format, entries, a.attributesOrDefault(cmd, attrs))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	addSearchFlags(cmd, &sf)
	cmd.Flags().StringSliceVarP(&attrs, "attributes", "a", nil, `attributes to include, comma separated ("*" for all)`)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many entries (0 = all)")
	cmd.Flags().Var(&format, "format", "output format: ldif, json or csv")
	return cmd
}
