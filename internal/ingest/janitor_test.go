// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func touch(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

func TestJanitorSweepRemovesOnlyStaleUploads(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, filepath.Join(dir, "upload_stale.mp4"), now.Add(-48*time.Hour))
	touch(t, filepath.Join(dir, "upload_fresh.mp4"), now)
	touch(t, filepath.Join(dir, "unrelated.txt"), now.Add(-48*time.Hour))
	if err := os.Mkdir(filepath.Join(dir, "upload_dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	j := &Janitor{Dir: dir, Logger: zerolog.Nop()}
	j.sweep(zerolog.Nop(), 24*time.Hour)

	if _, err := os.Stat(filepath.Join(dir, "upload_stale.mp4")); !os.IsNotExist(err) {
		t.Error("stale upload survived the sweep")
	}
	for _, keep := range []string{"upload_fresh.mp4", "unrelated.txt", "upload_dir"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Errorf("%s was removed, want kept", keep)
		}
	}
}

func TestJanitorSweepMissingDirIsQuiet(t *testing.T) {
	j := &Janitor{Dir: filepath.Join(t.TempDir(), "nope"), Logger: zerolog.Nop()}
	// Must not panic or create the directory.
	j.sweep(zerolog.Nop(), time.Hour)
	if _, err := os.Stat(j.Dir); !os.IsNotExist(err) {
		t.Error("sweep created the missing directory")
	}
}
