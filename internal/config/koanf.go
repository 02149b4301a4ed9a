// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vidarium/config.yaml",
	"/etc/vidarium/config.yml",
}

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "VIDARIUM_CONFIG"

// envPrefix namespaces the environment overrides, e.g.
// VIDARIUM_SERVER_PORT=9090 sets server.port.
const envPrefix = "VIDARIUM_"

// Load builds the configuration from defaults, the config file (if any)
// and environment variables, then validates it.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// envTransform maps VIDARIUM_SERVER_PORT to server.port. Only the first
// underscore becomes a separator: config keys are exactly one section
// deep, and key names themselves contain underscores
// (VIDARIUM_INGEST_WAVEFORM_POINTS -> ingest.waveform_points).
func envTransform(key string) string {
	key = strings.TrimPrefix(key, envPrefix)
	if key == strings.TrimPrefix(ConfigPathEnvVar, envPrefix) {
		// The config-path variable is consumed by findConfigFile, not a
		// config key.
		return ""
	}
	return strings.Replace(strings.ToLower(key), "_", ".", 1)
}

// findConfigFile returns the override path or the first default path that
// exists; empty when no file is present (defaults+env only).
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
