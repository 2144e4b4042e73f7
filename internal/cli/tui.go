// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/directory"
	"github.com/jeranaias/loom/internal/history"
	"github.com/jeranaias/loom/internal/logging"
	"github.com/jeranaias/loom/internal/ui/browser"
	"github.com/jeranaias/loom/internal/ui/styles"
	"github.com/jeranaias/loom/internal/util"
)

// runTUI opens the browser on the snapshot, the selected profile, or the
// connections list when neither is available.
func (a *app) runTUI(ctx context.Context) error {
	logPath := a.cfg.Log.File
	if logPath == "" {
		p, err := config.DataPath("loom.log")
		if err != nil {
			return err
		}
		logPath = p
	}
	logger, logFile, err := logging.InitFile(util.ExpandTilde(logPath), a.cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()
	a.logger = logger
	logger.Info().Str("version", Version).Msg("starting")

	// Connect before the program starts so a password prompt can use the
	// terminal.
	src, closer, err := a.initialSource(ctx)
	if err != nil {
		return err
	}

	var store *history.Store
	if a.cfg.Export.HistoryEnabled {
		if store, err = a.openHistory(); err != nil {
			logger.Warn().Err(err).Msg("history disabled")
			store = nil
		} else {
			defer store.Close()
		}
	}

	theme := styles.NewTheme(a.cfg.UI.Theme)
	theme.Apply()

	m := browser.New(browser.Options{
		Config:  a.cfg,
		Theme:   theme,
		Source:  src,
		Closer:  closer,
		History: store,
		Connect: a.connect,
		Save:    a.saveConfig,
		Logger:  logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, statErr := os.Stat(a.cfgPath); statErr == nil {
		w, err := config.Watch(ctx, a.cfgPath, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("config reload failed")
				return
			}
			p.Send(browser.ConfigReloadedMsg{Config: cfg})
		})
		if err != nil {
			logger.Warn().Err(err).Msg("config watch disabled")
		} else {
			defer w.Close()
		}
	}

	final, err := p.Run()
	if fm, ok := final.(browser.Model); ok {
		if cerr := fm.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close connection")
		}
	}
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	logger.Info().Msg("exiting")
	return nil
}

// initialSource returns the source the browser opens with. An explicit
// --snapshot or --profile that fails is an error; with neither, the
// browser starts on the connections list.
func (a *app) initialSource(ctx context.Context) (directory.Source, io.Closer, error) {
	if a.snapshot != "" {
		src, err := directory.OpenSnapshot(util.ExpandTilde(a.snapshot))
		return src, nil, err
	}
	if a.profile == "" {
		return nil, nil, nil
	}

	p, _, err := a.resolveProfile()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, p.Timeout())
	defer cancel()
	c, err := a.dial(ctx, p, true)
	if err != nil {
		return nil, nil, err
	}
	return browseSource(c, p), c, nil
}
