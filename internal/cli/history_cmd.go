// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/history"
	"github.com/jeranaias/loom/internal/util"
)

// historyPath returns the configured database path or ~/.loom/history.db.
func (a *app) historyPath() (string, error) {
	if a.cfg.Export.HistoryPath != "" {
		return util.ExpandTilde(a.cfg.Export.HistoryPath), nil
	}
	return config.DataPath("history.db")
}

func (a *app) openHistory() (*history.Store, error) {
	path, err := a.historyPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

func (a *app) historyCmd() *cobra.Command {
	var (
		limit int
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the export history",
		Long: `List recent exports, newest first, or delete them all with --clear.

Exports are recorded when [export] history_enabled is true (the default).`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory()
			if err != nil {
				return &CommandError{Command: "history", Reason: "cannot open history", Err: err}
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				n, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				if a.jsonOut {
					return NewJSONResponse(cmd.CommandPath(), map[string]int64{"removed": n}).Write(out)
				}
				fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("Removed %d history record(s)", n)))
				return nil
			}

			recs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				rows := make([]HistoryData, len(recs))
				for i, r := range recs {
					rows[i] = HistoryData{ID: r.ID, At: r.At.UTC(), Path: r.Path, Format: r.Format,
						Count: r.Count, Attributes: r.Attributes, Error: r.Err}
				}
				return NewJSONResponse(cmd.CommandPath(), rows).Write(out)
			}
			if len(recs) == 0 {
				fmt.Fprintln(out, DimStyle.Render("No exports recorded."))
				return nil
			}
			writeHistoryTable(cmd, recs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show (0 = all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every record")
	return cmd
}

func writeHistoryTable(cmd *cobra.Command, recs []history.Record) {
	out := cmd.OutOrStdout()
	width := terminalWidth(out)
	const fixed = 16 + 2 + 6 + 2 + 7 + 2 + 8 + 2
	pathW := max(width-fixed, 12)

	header := fmt.Sprintf("%-16s  %-6s  %7s  %-8s  %s", "TIME", "FORMAT", "ENTRIES", "STATUS", "PATH")
	fmt.Fprintln(out, HeaderStyle.Render(header))
	fmt.Fprintln(out, RenderSeparator(min(width, len(header)+pathW-4)))
	for _, r := range recs {
		plain := "ok"
		if !r.Succeeded() {
			plain = "failed"
		}
		status := RenderStatus(r.Succeeded()) + strings.Repeat(" ", 8-len(plain))
		fmt.Fprintf(out, "%-16s  %-6s  %7d  %s  %s\n",
			r.At.Local().Format("2006-01-02 15:04"), r.Format, r.Count, status,
			util.TruncateWidth(r.Path, pathW))
		if r.Err != "" {
			fmt.Fprintln(out, DimStyle.Render("  "+util.TruncateWidth(strings.TrimSpace(r.Err), width-2)))
		}
	}
}
