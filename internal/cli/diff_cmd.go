// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/loom/internal/diff"
	"github.com/jeranaias/loom/internal/directory"
	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/export"
	"github.com/jeranaias/loom/internal/util"
)

func (a *app) diffCmd() *cobra.Command {
	var attrs []string
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two LDIF or JSON snapshots",
		Long: `Show which entries were added, removed or modified between two
snapshots. Entries are matched by DN, ignoring case.

Examples:
  loom diff monday.ldif tuesday.ldif
  loom diff before.json after.ldif -a mail,title`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPath, newPath := util.ExpandTilde(args[0]), util.ExpandTilde(args[1])
			oldEntries, err := loadSnapshot(cmd.Context(), oldPath)
			if err != nil {
				return err
			}
			newEntries, err := loadSnapshot(cmd.Context(), newPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("attributes") {
				sel := export.Select(attrs)
				oldEntries, newEntries = sel.FilterAll(oldEntries), sel.FilterAll(newEntries)
			}

			d := diff.Compare(oldEntries, newEntries)
			a.logger.Debug().Str("summary", d.Summary()).Msg("snapshots compared")

			out := cmd.OutOrStdout()
			if a.jsonOut {
				return NewJSONResponse(cmd.CommandPath(), diffData(d)).Write(out)
			}
			writeDiff(out, d, args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&attrs, "attributes", "a", nil, `compare only these attributes ("*" for all)`)
	return cmd
}

func loadSnapshot(ctx context.Context, path string) ([]entry.Entry, error) {
	if f, err := export.FormatFromPath(path); err != nil || (f != export.FormatLDIF && f != export.FormatJSON) {
		return nil, &UsageError{Err: fmt.Errorf("%s: snapshots must be .ldif or .json files", path)}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &NotFoundError{Resource: "snapshot", ID: path}
	}
	src, err := directory.OpenSnapshot(path)
	if err != nil {
		return nil, err
	}
	return src.Entries(ctx)
}

// writeDiff prints the unified rendering, colored by line prefix.
func writeDiff(w io.Writer, d *diff.Diff, oldName, newName string) {
	if d.Empty() {
		fmt.Fprintln(w, DimStyle.Render(d.Summary()))
		return
	}
	text := strings.TrimSuffix(diff.FormatUnified(d, oldName, newName), "\n")
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			line = HeaderStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			line = SuccessStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			line = ErrorStyle.Render(line)
		case strings.HasPrefix(line, "~"):
			line = ValueStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, RenderSeparator(min(terminalWidth(w), 40)))
	fmt.Fprintln(w, d.Summary())
}

func diffData(d *diff.Diff) DiffData {
	out := DiffData{
		Added:     d.Stats.Added,
		Removed:   d.Stats.Removed,
		Modified:  d.Stats.Modified,
		Unchanged: d.Stats.Unchanged,
		Changes:   make([]DiffChange, 0, len(d.Changes)),
	}
	for _, c := range d.Changes {
		dc := DiffChange{Type: c.Type.String(), DN: c.DN, Attributes: make([]DiffAttribute, 0, len(c.Attributes))}
		for _, attr := range c.Attributes {
			dc.Attributes = append(dc.Attributes, DiffAttribute{Name: attr.Name, Old: attr.Old, New: attr.New})
		}
		out.Changes = append(out.Changes, dc)
	}
	return out
}
