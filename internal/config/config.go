// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for loom.
//
// Configuration file location:
//   - ~/.loom/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/loom/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete loom configuration.
type Config struct {
	// General settings
	Version        string `toml:"version"`
	DefaultProfile string `toml:"default_profile"`

	// Export configuration
	Export ExportConfig `toml:"export"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Log LogConfig `toml:"log"`

	// Connection profiles
	Profiles []Profile `toml:"profiles"`

	// BindPassword comes from LOOM_BIND_PASSWORD only and is never written.
	BindPassword string `toml:"-"`
}

// ExportConfig holds the [export] section.
type ExportConfig struct {
	// Attributes preselected in the export dialog; ["*"] means all.
	DefaultAttributes []string `toml:"default_attributes"`

	// Joins multi-valued attributes in CSV and XLSX cells.
	CSVSeparator string `toml:"csv_separator"`

	// LDIF line width; negative disables folding.
	LDIFFoldWidth int `toml:"ldif_fold_width"`

	// Worksheet name for XLSX exports.
	SheetName string `toml:"sheet_name"`

	// Octal permission of exported files, e.g. "0644".
	FileMode string `toml:"file_mode"`

	// Record every export in the history database.
	HistoryEnabled bool `toml:"history_enabled"`

	// History database location. Empty means ~/.loom/history.db.
	HistoryPath string `toml:"history_path"`
}

// UIConfig holds the [ui] section.
type UIConfig struct {
	// Theme: "dark", "light" or "auto" (detect terminal background).
	Theme string `toml:"theme"`

	// Number of entries fetched per directory page.
	PageSize int `toml:"page_size"`
}

// LogConfig holds the [log] section.
type LogConfig struct {
	// Level: trace, debug, info, warn, error, off.
	Level string `toml:"level"`

	// Log file used while the TUI owns the terminal. Empty means ~/.loom/loom.log.
	File string `toml:"file"`
}

// FilePerm parses FileMode, returning 0644 when it is empty or invalid.
func (e ExportConfig) FilePerm() os.FileMode {
	if e.FileMode == "" {
		return 0644
	}
	mode, err := strconv.ParseUint(e.FileMode, 8, 32)
	if err != nil || mode == 0 || mode > 0777 {
		return 0644
	}
	return os.FileMode(mode)
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Version: "1",
		Export: ExportConfig{
			DefaultAttributes: []string{"*"},
			CSVSeparator:      "|",
			LDIFFoldWidth:     76,
			SheetName:         "Entries",
			FileMode:          "0644",
			HistoryEnabled:    true,
		},
		UI: UIConfig{
			Theme:    "auto",
			PageSize: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
		Profiles: []Profile{},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the loom configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".loom"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataPath returns path joined onto the config directory.
func DataPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads ~/.loom/config.toml, falling back to defaults when the file
// does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

const fileHeader = "# loom configuration file\n# Generated by loom - edit with care\n\n"

// Save saves the configuration to ~/.loom/config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path with 0600 permissions. The
// write is atomic: readers see either the old or the new file.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validThemes = map[string]bool{"dark": true, "light": true, "auto": true}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "fatal": true, "panic": true, "off": true, "disabled": true, "none": true,
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Export.CSVSeparator == "" {
		errs = append(errs, ValidationError{Field: "export.csv_separator", Message: "must not be empty"})
	} else if strings.ContainsAny(c.Export.CSVSeparator, ",\"\r\n") {
		errs = append(errs, ValidationError{
			Field:   "export.csv_separator",
			Message: "must not contain a comma, quote or line break",
		})
	}

	if c.Export.LDIFFoldWidth > 0 && c.Export.LDIFFoldWidth < 2 {
		errs = append(errs, ValidationError{Field: "export.ldif_fold_width", Message: "must be at least 2, or negative to disable folding"})
	}

	if name := c.Export.SheetName; len([]rune(name)) > 31 || strings.ContainsAny(name, `:\/?*[]`) {
		errs = append(errs, ValidationError{
			Field:   "export.sheet_name",
			Message: fmt.Sprintf("%q is not a valid worksheet name (max 31 chars, no :\\/?*[])", name),
		})
	}

	if c.Export.FileMode != "" {
		mode, err := strconv.ParseUint(c.Export.FileMode, 8, 32)
		if err != nil || mode == 0 || mode > 0777 {
			errs = append(errs, ValidationError{Field: "export.file_mode", Message: fmt.Sprintf("invalid octal mode %q", c.Export.FileMode)})
		}
	}

	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{Field: "ui.theme", Message: fmt.Sprintf("invalid theme %q (must be dark, light or auto)", c.UI.Theme)})
	}

	if c.UI.PageSize < 0 {
		errs = append(errs, ValidationError{Field: "ui.page_size", Message: "must not be negative"})
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)})
	}

	seen := make(map[string]bool, len(c.Profiles))
	for i, p := range c.Profiles {
		field := fmt.Sprintf("profiles[%d]", i)
		if err := p.Validate(); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
			continue
		}
		if seen[p.Name] {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate profile name %q", p.Name)})
		}
		seen[p.Name] = true
	}

	if c.DefaultProfile != "" && len(c.Profiles) > 0 {
		if _, ok := c.Profile(c.DefaultProfile); !ok {
			errs = append(errs, ValidationError{Field: "default_profile", Message: fmt.Sprintf("no profile named %q", c.DefaultProfile)})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero-valued fields with their defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if len(c.Export.DefaultAttributes) == 0 {
		c.Export.DefaultAttributes = defaults.Export.DefaultAttributes
	}
	if c.Export.CSVSeparator == "" {
		c.Export.CSVSeparator = defaults.Export.CSVSeparator
	}
	if c.Export.LDIFFoldWidth == 0 {
		c.Export.LDIFFoldWidth = defaults.Export.LDIFFoldWidth
	}
	if c.Export.SheetName == "" {
		c.Export.SheetName = defaults.Export.SheetName
	}
	if c.Export.FileMode == "" {
		c.Export.FileMode = defaults.Export.FileMode
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.PageSize == 0 {
		c.UI.PageSize = defaults.UI.PageSize
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Profiles == nil {
		c.Profiles = []Profile{}
	}
	for i := range c.Profiles {
		c.Profiles[i].SetDefaults()
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - LOOM_LOG_LEVEL: overrides log.level
//   - LOOM_THEME: overrides ui.theme
//   - LOOM_CSV_SEPARATOR: overrides export.csv_separator
//   - LOOM_PROFILE: overrides default_profile
//   - LOOM_BIND_PASSWORD: bind password for the selected profile
func (c *Config) ApplyEnvOverrides() {
	if level := os.Getenv("LOOM_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if theme := os.Getenv("LOOM_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if sep := os.Getenv("LOOM_CSV_SEPARATOR"); sep != "" {
		c.Export.CSVSeparator = sep
	}
	if profile := os.Getenv("LOOM_PROFILE"); profile != "" {
		c.DefaultProfile = profile
	}
	if pw := os.Getenv("LOOM_BIND_PASSWORD"); pw != "" {
		c.BindPassword = pw
	}
}

// =============================================================================
// PROFILE ACCESS
// =============================================================================

// Profile returns the profile with the given name.
func (c *Config) Profile(name string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// ActiveProfile returns the default profile, or the first one when no
// default is set.
func (c *Config) ActiveProfile() (Profile, bool) {
	if c.DefaultProfile != "" {
		return c.Profile(c.DefaultProfile)
	}
	if len(c.Profiles) > 0 {
		return c.Profiles[0], true
	}
	return Profile{}, false
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Export.DefaultAttributes = append([]string(nil), c.Export.DefaultAttributes...)
	clone.Profiles = append([]Profile(nil), c.Profiles...)
	return &clone
}

// String renders the config as TOML with the bind password redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.BindPassword != "" {
		safe.BindPassword = "[REDACTED]"
	}
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(safe)
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil || cfg == nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
