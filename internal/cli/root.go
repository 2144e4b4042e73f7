// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app is the state shared by every command of one invocation.
type app struct {
	// Global flags
	cfgFile  string
	envFile  string
	snapshot string
	profile  string
	logLevel string
	jsonOut  bool

	cfg     *config.Config
	cfgPath string
	logger  zerolog.Logger

	in io.Reader

	// readPassword prompts for a bind password.
	readPassword func(label string) (string, error)

	// passwords caches bind passwords by profile name for this run.
	passwords map[string]string
}

// NewRootCommand builds the loom command tree.
func NewRootCommand() *cobra.Command {
	a := &app{
		envFile:   ".env",
		in:        os.Stdin,
		logger:    zerolog.Nop(),
		passwords: map[string]string{},
	}

	root := &cobra.Command{
		Use:   "loom",
		Short: "Browse directory servers and export entries",
		Long: `loom is a terminal browser for LDAP directories.

Run without a subcommand to open the browser. Entries can come from a live
server (a connection profile) or an offline snapshot (.ldif or .json).
Exports are written as LDIF, JSON, CSV or XLSX, chosen by file extension.

Examples:
  # Browse the default profile
  loom

  # Browse a snapshot offline
  loom --snapshot dump.ldif

  # Export people to a spreadsheet
  loom export people.xlsx -p corp --base ou=people,dc=example,dc=com -a cn,mail`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	root.SetFlagErrorFunc(usageErrors)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ~/.loom/config.toml)")
	flags.StringVar(&a.envFile, "env-file", a.envFile, "dotenv file loaded before the config")
	flags.StringVarP(&a.snapshot, "snapshot", "s", "", "read entries from an .ldif or .json snapshot")
	flags.StringVarP(&a.profile, "profile", "p", "", "connection profile name")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")
	flags.BoolVar(&a.jsonOut, "json", false, "write machine-readable JSON")

	a.readPassword = func(label string) (string, error) {
		return promptPassword(a.in, root.ErrOrStderr(), label)
	}

	root.AddCommand(
		a.exportCmd(),
		a.previewCmd(),
		a.profilesCmd(),
		a.historyCmd(),
		a.diffCmd(),
		versionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCommand()
	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		if cmd == nil {
			cmd = root
		}
		jsonMode, _ := root.PersistentFlags().GetBool("json")
		DisplayError(root.ErrOrStderr(), cmd.CommandPath(), err, jsonMode)
		return ExitCode(err)
	}
	return ExitSuccess
}

// =============================================================================
// SETUP
// =============================================================================

// setup loads the dotenv file and configuration and installs the stderr
// logger. The TUI replaces the logger with a file logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &ConfigError{Path: a.envFile, Err: err}
		}
	}

	path := a.cfgFile
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return &ConfigError{Path: "~/.loom/config.toml", Err: err}
		}
		path = p
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg, a.cfgPath = cfg, path
	config.SetGlobal(cfg)

	a.logger = logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	})
	a.logger.Debug().Str("config", path).Int("profiles", len(cfg.Profiles)).Msg("configuration loaded")
	return nil
}

// loadConfig reads path, or returns defaults when it does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := config.Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		return cfg, nil
	}
	return config.LoadFromPath(path)
}

// saveConfig writes cfg back to the file it was loaded from.
func (a *app) saveConfig(cfg *config.Config) error {
	if err := config.SaveTOML(cfg, a.cfgPath); err != nil {
		return &ConfigError{Path: a.cfgPath, Err: err}
	}
	a.cfg = cfg
	config.SetGlobal(cfg)
	return nil
}
