// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package models

import (
	"errors"
	"fmt"
)

// Error taxonomy of the core. Query paths never return an error for "no
// results": empty collections and nil records are valid answers there.
var (
	// ErrNotFound marks lookups of unknown ids where the caller asked for
	// a specific record rather than a query result.
	ErrNotFound = errors.New("not found")

	// ErrPersistence marks a failed store write. The in-memory document is
	// rolled back before this is returned, so memory and disk never diverge.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError reports user-correctable input problems (wrong content
// type, missing file). No partial state exists when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// DuplicateContentError reports that an upload's byte content already exists
// in the catalog. It is a defined alternate outcome of ingestion, not a
// failure: the caller receives the existing video's id.
type DuplicateContentError struct {
	ExistingID string
}

func (e *DuplicateContentError) Error() string {
	return fmt.Sprintf("content already exists as video %s", e.ExistingID)
}

// AnalysisError reports a failed media analysis stage. It is fatal to the
// ingestion; no catalog record is persisted. Phase tells the caller which
// stage failed.
type AnalysisError struct {
	Phase Phase
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis stage %s failed: %v", e.Phase, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
