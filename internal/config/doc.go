// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for loom.
//
// Configuration is TOML, with sensible defaults, environment variable
// overrides, validation, and hot reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ExportConfig: Export defaults (separator, LDIF width, sheet name, file mode)
//   - Profile: A directory connection profile
//   - Watcher: Reloads the config file when it changes on disk
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LOOM_*)
//   - ~/.loom/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Share profiles:
//
//	text, err := config.ExportProfiles(cfg.Profiles)
//	profiles, err := config.ImportProfiles(text)
//	cfg.Profiles, _, _ = config.MergeProfiles(cfg.Profiles, profiles)
package config
