// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Command vidarium runs the catalog and ingestion service: it loads the
// configuration, opens the persisted documents, and supervises the HTTP
// server and the upload janitor until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/avbell/vidarium/internal/api"
	"github.com/avbell/vidarium/internal/catalog"
	"github.com/avbell/vidarium/internal/config"
	"github.com/avbell/vidarium/internal/ingest"
	"github.com/avbell/vidarium/internal/logging"
	"github.com/avbell/vidarium/internal/media"
	"github.com/avbell/vidarium/internal/playlist"
	"github.com/avbell/vidarium/internal/recommend"
	"github.com/avbell/vidarium/internal/supervisor"
)

// Document file names inside the media directory.
const (
	catalogFile   = "catalog.json"
	historyFile   = "history.json"
	playlistsFile = "playlists.json"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vidarium: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().
		Str("media_dir", cfg.Storage.MediaDir).
		Str("addr", listenAddr(cfg)).
		Msg("starting vidarium")

	for _, dir := range []string{cfg.Storage.MediaDir, cfg.Storage.TmpDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	recCfg := recommend.DefaultConfig()
	recCfg.CacheTTL = cfg.Recommend.CacheTTL
	scorer, err := recommend.NewScorer(recCfg)
	if err != nil {
		return fmt.Errorf("recommendation config: %w", err)
	}

	cat, err := catalog.Open(filepath.Join(cfg.Storage.MediaDir, catalogFile), scorer, logger)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	hist, err := catalog.OpenHistory(filepath.Join(cfg.Storage.MediaDir, historyFile), logger)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	lists, err := playlist.Open(filepath.Join(cfg.Storage.MediaDir, playlistsFile), logger)
	if err != nil {
		return fmt.Errorf("open playlists: %w", err)
	}

	analyzer := media.NewFFmpegAnalyzer(media.FFmpegConfig{
		FFmpegPath:  cfg.Ingest.FFmpegPath,
		FFprobePath: cfg.Ingest.FFprobePath,
		Timeout:     cfg.Ingest.AnalysisTimeout,
	}, media.NewCommandRunner(), logger)

	pipe := ingest.New(ingest.Config{
		MediaDir:        cfg.Storage.MediaDir,
		TmpDir:          cfg.Storage.TmpDir,
		WaveformPoints:  cfg.Ingest.WaveformPoints,
		PreviewMaxCount: cfg.Ingest.PreviewMaxCount,
		PosterOffset:    cfg.Ingest.PosterOffset,
	}, cat, analyzer, logger)

	handlers := api.NewHandlers(cat, hist, lists, pipe, logger)
	server := &http.Server{
		Addr:              listenAddr(cfg),
		Handler:           api.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(slog.New(logging.NewSlogHandler()), treeCfg)
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(&ingest.Janitor{
		Dir:      cfg.Storage.TmpDir,
		Interval: cfg.Ingest.JanitorInterval,
		MaxAge:   cfg.Ingest.JanitorMaxAge,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

func listenAddr(cfg *config.Config) string {
	return fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
}
