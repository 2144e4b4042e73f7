// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across loom.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: crash-safe whole-buffer writes (temp file + rename)
//   - ExpandTilde: expand "~/" in user-typed paths
//
// String Utilities:
//   - TruncateWidth: terminal-width aware truncation with ellipsis
//   - PadRight, StringWidth: column layout helpers
//
// # Usage
//
//	// Write an export atomically so readers never see a partial file
//	err := util.AtomicWriteFile(path, data, 0644)
//
//	// Fit a DN into a list column
//	label := util.TruncateWidth(dn, 40)
package util
