// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli is the loom command line, built on cobra.
//
// The root command opens the browser. One-shot commands read entries
// from a snapshot (--snapshot) or a live search on a profile (--profile)
// and never start the TUI:
//
//	loom                                   browse (connections list or --profile/--snapshot)
//	loom export OUTPUT [-a attrs]          write LDIF, JSON, CSV or XLSX by extension
//	loom preview [--format f] [-n N]       print what export would write
//	loom profiles list|export|import       manage connection profiles
//	loom history [--clear]                 recent exports
//	loom diff OLD NEW [-a attrs]           compare two snapshots
//	loom version
//
// Every command loads .env (godotenv) and then the config file before it
// runs. Errors map to the Exit* codes; --json switches output to the
// JSONResponse envelope.
package cli
