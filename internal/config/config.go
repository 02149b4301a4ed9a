// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package config defines the service configuration and its koanf-based
// loader. Precedence, lowest to highest: struct defaults, the YAML config
// file, VIDARIUM_-prefixed environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig locates the data directories and persisted documents.
type StorageConfig struct {
	// MediaDir is the root of per-video asset directories; the catalog,
	// history and playlist documents live directly inside it.
	MediaDir string `koanf:"media_dir"`

	// TmpDir receives in-flight uploads before dedup passes.
	TmpDir string `koanf:"tmp_dir"`
}

// IngestConfig configures the analysis stages of the pipeline.
type IngestConfig struct {
	FFmpegPath  string `koanf:"ffmpeg_path"`
	FFprobePath string `koanf:"ffprobe_path"`

	// AnalysisTimeout bounds each ffmpeg/ffprobe call. Zero (the default)
	// blocks until the tool completes or errors.
	AnalysisTimeout time.Duration `koanf:"analysis_timeout"`

	// WaveformPoints is the fixed waveform output length.
	WaveformPoints int `koanf:"waveform_points"`

	// PreviewMaxCount caps the scrubber thumbnail count per video.
	PreviewMaxCount int `koanf:"preview_max_count"`

	// PosterOffset is the poster frame time in seconds.
	PosterOffset float64 `koanf:"poster_offset"`

	// JanitorInterval is the sweep cadence for orphaned upload temp files.
	JanitorInterval time.Duration `koanf:"janitor_interval"`

	// JanitorMaxAge is how old a temp file must be to count as orphaned.
	JanitorMaxAge time.Duration `koanf:"janitor_max_age"`
}

// RecommendConfig configures the suggestion cache. The scoring weights are
// compiled in; only the cache policy is operator-tunable.
type RecommendConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig configures the zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns the configuration defaults applied before file and
// environment overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			MediaDir: "media",
			TmpDir:   "tmp",
		},
		Ingest: IngestConfig{
			FFmpegPath:      "ffmpeg",
			FFprobePath:     "ffprobe",
			AnalysisTimeout: 0, // block until the tool finishes
			WaveformPoints:  120,
			PreviewMaxCount: 100,
			PosterOffset:    5,
			JanitorInterval: time.Hour,
			JanitorMaxAge:   24 * time.Hour,
		},
		Recommend: RecommendConfig{
			CacheTTL: 14 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Storage.MediaDir == "" {
		return fmt.Errorf("storage.media_dir must not be empty")
	}
	if c.Storage.TmpDir == "" {
		return fmt.Errorf("storage.tmp_dir must not be empty")
	}
	if c.Ingest.WaveformPoints < 1 {
		return fmt.Errorf("ingest.waveform_points must be positive, got %d", c.Ingest.WaveformPoints)
	}
	if c.Ingest.PreviewMaxCount < 1 {
		return fmt.Errorf("ingest.preview_max_count must be positive, got %d", c.Ingest.PreviewMaxCount)
	}
	if c.Ingest.AnalysisTimeout < 0 {
		return fmt.Errorf("ingest.analysis_timeout must not be negative, got %v", c.Ingest.AnalysisTimeout)
	}
	if c.Recommend.CacheTTL <= 0 {
		return fmt.Errorf("recommend.cache_ttl must be positive, got %v", c.Recommend.CacheTTL)
	}
	return nil
}
