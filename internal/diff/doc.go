// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff compares two entry snapshots.
//
// Entries are matched by DN (case-insensitively, as directories compare
// them). Each matched pair is compared attribute by attribute; values of a
// multi-valued attribute are diffed in order with a longest common
// subsequence, so a reordered or edited value shows as a removal plus an
// addition.
//
// # Key Types
//
//   - ChangeType: added, removed or modified entry
//   - AttributeChange: one attribute's old and new values
//   - EntryChange: every attribute change of one DN
//   - Diff: all changes plus Stats
//
// # Usage
//
//	d := diff.Compare(before, after)
//	fmt.Println(d.Summary())
//	fmt.Print(diff.FormatUnified(d, "before.ldif", "after.ldif"))
package diff
