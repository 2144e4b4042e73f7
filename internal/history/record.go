// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"

	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/export"
	"github.com/jeranaias/loom/internal/logging"
)

// =============================================================================
// RECORDED EXPORTS
// =============================================================================

// Export runs x.Export and logs the attempt to store. A nil store skips
// recording. The returned record carries the resolved format name and the
// entry count (zero on failure); the error is the export's own. A failure
// to record is logged, never returned.
func Export(ctx context.Context, store *Store, x *export.Exporter, entries []entry.Entry, path string, attributes []string) (Record, error) {
	count, err := x.Export(entries, path, attributes)

	rec := Record{
		Path:       path,
		Count:      count,
		Attributes: attributes,
	}
	if f, ferr := export.FormatFromPath(path); ferr == nil {
		rec.Format = f.String()
	}
	if err != nil {
		rec.Count = 0
		rec.Err = err.Error()
	}

	if store != nil {
		saved, herr := store.Add(ctx, rec)
		if herr != nil {
			log := logging.Component("history")
			log.Warn().Err(herr).Str("path", path).Msg("failed to record export")
		} else {
			rec = saved
		}
	}
	return rec, err
}
