// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package models holds the shared domain types: the video record and its
// descriptive details, ingestion progress events, playlist records, and
// the error taxonomy. It has no dependencies on the other internal
// packages so any of them can import it.
package models
