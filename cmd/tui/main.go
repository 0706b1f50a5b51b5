// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command tui browses characters in the terminal.
//
// It talks to the character API directly, sharing the upstream settings
// (API_BASE_URL, UPSTREAM_*, REDIS_URL) with the server. Logs go to the file
// named by RICKMORTY_LOG, or nowhere.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/taibuivan/rickmorty/internal/character"
	"github.com/taibuivan/rickmorty/internal/platform/config"
	"github.com/taibuivan/rickmorty/internal/platform/constants"
	redisstore "github.com/taibuivan/rickmorty/internal/platform/redis"
	"github.com/taibuivan/rickmorty/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "rickmorty:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadTerminal()
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), cfg.UpstreamBurst)
	var source character.Source = character.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.UpstreamTimeout}, limiter, log)

	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer rdb.Close()
		source = character.NewCachedSource(source, rdb, cfg.PageCacheTTL, log)
	}

	model := tui.New(ctx, source, log)
	defer model.Close()

	log.Info("tui_started", slog.String("api_base_url", cfg.APIBaseURL))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	log.Info("tui_stopped")
	return nil
}

func newLogger(cfg *config.Terminal) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	if cfg.LogFile == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With(slog.String("app", constants.AppName+"-tui"))
	return logger, func() { _ = file.Close() }, nil
}
