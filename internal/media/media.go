// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package media adapts the external media analysis tooling (ffprobe/ffmpeg)
// behind the Analyzer interface consumed by the ingestion pipeline.
//
// The analyzer calls are the only operations in the system expected to block
// for non-trivial wall-clock time; they run without holding any store lock.
// By default they block until the tool completes or errors; a per-call
// timeout can be configured on the FFmpegAnalyzer.
package media

import (
	"context"

	"github.com/avbell/vidarium/internal/models"
)

// Analyzer is the media analysis collaborator consumed by the pipeline.
// Implementations must be safe for concurrent use.
type Analyzer interface {
	// Probe returns normalized container and stream metadata.
	Probe(ctx context.Context, path string) (models.ProbeInfo, error)

	// Waveform returns the downsampled audio amplitude sequence, exactly
	// targetPoints integers normalized to [0,100].
	Waveform(ctx context.Context, path string, duration float64, targetPoints int) ([]int, error)

	// Poster extracts a single poster frame at timeOffset seconds and
	// writes it to outPath.
	Poster(ctx context.Context, path string, timeOffset float64, outPath string) error

	// PreviewSequence extracts evenly time-spaced scrubber thumbnails into
	// outDir and returns their file names in time order. The count is
	// capped at maxCount regardless of duration: longer videos get larger
	// intervals, never more thumbnails.
	PreviewSequence(ctx context.Context, path string, duration float64, maxCount int, outDir string) ([]string, error)
}
