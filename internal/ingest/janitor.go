// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Janitor sweeps orphaned upload temp files. A crash between receive and
// rename can strand an upload_* file in the tmp directory; anything older
// than MaxAge no longer belongs to a live ingestion and is removed.
//
// Janitor implements suture.Service and runs supervised next to the HTTP
// server.
type Janitor struct {
	// Dir is the upload temp directory to sweep.
	Dir string

	// Interval between sweeps. Default: 1h.
	Interval time.Duration

	// MaxAge before an upload_* file counts as orphaned. Default: 24h.
	MaxAge time.Duration

	Logger zerolog.Logger
}

// Serve sweeps immediately and then on every interval tick until the
// context is canceled.
func (j *Janitor) Serve(ctx context.Context) error {
	interval := j.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	maxAge := j.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	logger := j.Logger.With().Str("component", "janitor").Logger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		j.sweep(logger, maxAge)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (j *Janitor) sweep(logger zerolog.Logger, maxAge time.Duration) {
	entries, err := os.ReadDir(j.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("dir", j.Dir).Msg("sweep failed")
		}
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "upload_") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("failed to remove orphaned upload")
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info().Int("removed", removed).Msg("swept orphaned uploads")
	}
}
