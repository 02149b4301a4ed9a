// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package api is the thin HTTP surface over the catalog, playlist and
// ingestion packages. Handlers validate and translate; all domain logic
// lives behind them.
package api
