// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package store implements the single-document persistence discipline shared
// by the catalog, history and playlist stores.
//
// Each store owns exactly one JSON document on disk. Open loads it once (or
// bootstraps and persists a default), so no operation ever races a lazy
// first load. Every mutation runs inside a single-writer critical section
// as one load-mutate-persist unit: the mutation is applied to the in-memory
// document, the whole document is serialized and atomically replaces the
// file via a temp-file rename. If the write fails, the in-memory document is
// rolled back to the last persisted state, so memory and disk never diverge.
//
// Readers take a shared lock and receive the live document; they must not
// retain references past the callback (accessors hand out clones).
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/avbell/vidarium/internal/models"
)

// Document is a mutex-guarded, file-backed JSON document of type T.
type Document[T any] struct {
	path   string
	logger zerolog.Logger

	mu  sync.RWMutex
	doc *T

	// lastGood is the serialized form of the last successfully persisted
	// document, kept for rollback when a write fails.
	lastGood []byte
}

// Open loads the document at path, or bootstraps it with the value returned
// by defaults and persists that. The returned store accepts operations
// immediately; there is no lazy initialization after Open.
func Open[T any](path string, defaults func() *T, logger zerolog.Logger) (*Document[T], error) {
	d := &Document[T]{
		path:   path,
		logger: logger.With().Str("component", "store").Str("document", filepath.Base(path)).Logger(),
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		doc := defaults()
		if uerr := json.Unmarshal(data, doc); uerr != nil {
			return nil, fmt.Errorf("decode %s: %w", path, uerr)
		}
		d.doc = doc
		d.lastGood = data

	case os.IsNotExist(err):
		d.doc = defaults()
		if werr := d.persistLocked(); werr != nil {
			return nil, werr
		}
		d.logger.Info().Msg("bootstrapped new document")

	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return d, nil
}

// View runs fn under a shared lock with the current document.
func (d *Document[T]) View(fn func(doc *T)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.doc)
}

// Update runs fn under the single-writer lock and persists the full document
// afterwards. If fn returns an error the mutation is discarded by rollback
// and nothing is written. If the write fails, the in-memory document is
// rolled back to the last persisted state and ErrPersistence is returned.
func (d *Document[T]) Update(fn func(doc *T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := fn(d.doc); err != nil {
		d.rollbackLocked()
		return err
	}
	if err := d.persistLocked(); err != nil {
		d.rollbackLocked()
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	return nil
}

// persistLocked serializes the document and atomically replaces the file.
// Must be called with the write lock held.
func (d *Document[T]) persistLocked() error {
	data, err := json.MarshalIndent(d.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", d.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", d.path, err)
	}

	d.lastGood = data
	return nil
}

// rollbackLocked restores the in-memory document from the last persisted
// bytes. Must be called with the write lock held.
func (d *Document[T]) rollbackLocked() {
	if d.lastGood == nil {
		return
	}
	var doc T
	if err := json.Unmarshal(d.lastGood, &doc); err != nil {
		// lastGood was produced by our own marshal; a decode failure here
		// means the type is not round-trippable, which is a programming
		// error worth surfacing loudly.
		d.logger.Error().Err(err).Msg("rollback decode failed, document state undefined")
		return
	}
	d.doc = &doc
}

// Path returns the on-disk location of the document.
func (d *Document[T]) Path() string { return d.path }
