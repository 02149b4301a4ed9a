// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "empty media dir", mutate: func(c *Config) { c.Storage.MediaDir = "" }, wantErr: true},
		{name: "empty tmp dir", mutate: func(c *Config) { c.Storage.TmpDir = "" }, wantErr: true},
		{name: "zero waveform points", mutate: func(c *Config) { c.Ingest.WaveformPoints = 0 }, wantErr: true},
		{name: "zero preview cap", mutate: func(c *Config) { c.Ingest.PreviewMaxCount = 0 }, wantErr: true},
		{name: "negative analysis timeout", mutate: func(c *Config) { c.Ingest.AnalysisTimeout = -time.Second }, wantErr: true},
		{name: "zero analysis timeout blocks forever", mutate: func(c *Config) { c.Ingest.AnalysisTimeout = 0 }, wantErr: false},
		{name: "zero cache ttl", mutate: func(c *Config) { c.Recommend.CacheTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
ingest:
  waveform_points: 80
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090 from file", cfg.Server.Port)
	}
	if cfg.Ingest.WaveformPoints != 80 {
		t.Errorf("waveform points = %d, want 80 from file", cfg.Ingest.WaveformPoints)
	}
	// Untouched fields keep their defaults.
	if cfg.Server.Host != "0.0.0.0" || cfg.Storage.MediaDir != "media" {
		t.Errorf("defaults lost: host=%q media=%q", cfg.Server.Host, cfg.Storage.MediaDir)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VIDARIUM_SERVER_PORT", "7777")
	t.Setenv("VIDARIUM_INGEST_WAVEFORM_POINTS", "60")
	t.Setenv("VIDARIUM_LOGGING_LEVEL", "debug")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want env override 7777", cfg.Server.Port)
	}
	// Multi-underscore key names map below their single section.
	if cfg.Ingest.WaveformPoints != 60 {
		t.Errorf("waveform points = %d, want env override 60", cfg.Ingest.WaveformPoints)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFileRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile() accepted an invalid port")
	}
}

func TestLoadFileMissingFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadFile() accepted a missing explicit path")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "VIDARIUM_SERVER_PORT", want: "server.port"},
		{key: "VIDARIUM_INGEST_WAVEFORM_POINTS", want: "ingest.waveform_points"},
		{key: "VIDARIUM_LOGGING_LEVEL", want: "logging.level"},
		{key: "VIDARIUM_CONFIG", want: ""},
	}
	for _, tt := range tests {
		if got := envTransform(tt.key); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
