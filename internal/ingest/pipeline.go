// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package ingest drives an upload from byte stream to registered catalog
// record: validation, streaming dedup by content hash, media analysis and
// registration, reporting incremental progress over an ordered event feed.
//
// Ingestion is all-or-nothing up to the final register call: any stage
// failure (or caller cancellation) removes partially written data and
// leaves no catalog mutation behind.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avbell/vidarium/internal/catalog"
	"github.com/avbell/vidarium/internal/media"
	"github.com/avbell/vidarium/internal/models"
)

// Progress checkpoints of the server-side half of an ingestion. The client
// transfer owns 0-50; every value here is non-decreasing in phase order.
const (
	progressSaved    = 50
	progressProbe    = 60
	progressWaveform = 75
	progressPoster   = 80
	progressPreview  = 95
	progressDone     = 100
)

// Config holds the pipeline's storage layout and analysis parameters.
type Config struct {
	// MediaDir is the root of per-video asset directories.
	MediaDir string

	// TmpDir receives in-flight uploads before the dedup check passes.
	TmpDir string

	// WaveformPoints is the fixed output length of the waveform sequence.
	WaveformPoints int

	// PreviewMaxCount caps the scrubber thumbnail count regardless of
	// duration.
	PreviewMaxCount int

	// PosterOffset is the poster frame time in seconds, clamped to half
	// the video duration for short clips.
	PosterOffset float64
}

// UploadFields carries the declared file attributes and descriptive form
// fields of one upload.
type UploadFields struct {
	FileName string
	MimeType string
	Details  models.Details
}

// Pipeline ingests uploads into the catalog.
type Pipeline struct {
	cfg      Config
	catalog  *catalog.Catalog
	analyzer media.Analyzer
	logger   zerolog.Logger
}

// New creates a pipeline. Zero config values fall back to defaults
// (120 waveform points, 100 previews, 5s poster offset).
func New(cfg Config, cat *catalog.Catalog, analyzer media.Analyzer, logger zerolog.Logger) *Pipeline {
	if cfg.WaveformPoints <= 0 {
		cfg.WaveformPoints = 120
	}
	if cfg.PreviewMaxCount <= 0 {
		cfg.PreviewMaxCount = 100
	}
	if cfg.PosterOffset <= 0 {
		cfg.PosterOffset = 5
	}
	return &Pipeline{
		cfg:      cfg,
		catalog:  cat,
		analyzer: analyzer,
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// Ingest runs the pipeline for one upload and returns its progress feed.
// Events arrive in strict phase order with non-decreasing progress, and the
// terminal event (done, duplicate or error) is always last, after which the
// channel closes. The feed is the sole progress channel.
//
// The byte stream is hashed while it is written to a temporary file, so
// memory use is constant in the file size and a duplicate is detected as
// the final byte arrives, before any analysis work.
func (p *Pipeline) Ingest(ctx context.Context, r io.Reader, fields UploadFields) <-chan models.ProgressEvent {
	events := make(chan models.ProgressEvent, 8)
	go func() {
		defer close(events)
		p.run(ctx, r, fields, events)
	}()
	return events
}

func (p *Pipeline) run(ctx context.Context, r io.Reader, fields UploadFields, events chan<- models.ProgressEvent) {
	emit := func(ev models.ProgressEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(stage models.Phase, err error) {
		p.logger.Error().Err(err).Str("stage", string(stage)).Msg("ingestion failed")
		emit(models.ProgressEvent{Phase: models.PhaseError, Stage: stage, Message: err.Error()})
	}

	if err := validateFields(fields); err != nil {
		fail(models.PhaseReceived, err)
		return
	}

	// Stream the upload to a write-once temp location, hashing as we go.
	tmpPath, hash, err := p.receive(ctx, r, fields.FileName)
	if err != nil {
		fail(models.PhaseReceived, err)
		return
	}

	// Dedup short-circuit: defined outcome, not an error.
	if existing := p.catalog.FindByHash(hash); existing != "" {
		os.Remove(tmpPath)
		p.logger.Info().Str("video_id", existing).Msg("duplicate upload short-circuited")
		emit(models.ProgressEvent{
			Phase:     models.PhaseDuplicate,
			Duplicate: true,
			VideoID:   existing,
			Message:   "content already in catalog",
		})
		return
	}

	videoID := p.freshID()
	assetID := uuid.NewString()
	fileName := assetID + strings.ToLower(filepath.Ext(fields.FileName))

	videoDir := filepath.Join(p.cfg.MediaDir, videoID)
	thumbDir := filepath.Join(videoDir, "thumb")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		os.Remove(tmpPath)
		fail(models.PhaseSaved, fmt.Errorf("create video directory: %w", err))
		return
	}
	cleanup := func() {
		os.RemoveAll(videoDir)
	}

	// Rename, not copy: the payload may be many gigabytes and has already
	// been written once.
	finalPath := filepath.Join(videoDir, fileName)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		cleanup()
		fail(models.PhaseSaved, fmt.Errorf("move upload into place: %w", err))
		return
	}
	if !emit(models.ProgressEvent{Phase: models.PhaseSaved, Progress: progressSaved, Message: "upload stored"}) {
		cleanup()
		return
	}

	// Analysis stages. Each failure is fatal and phase-tagged; no partial
	// record reaches the catalog.
	probe, err := p.analyzer.Probe(ctx, finalPath)
	if err != nil {
		cleanup()
		fail(models.PhaseProbe, &models.AnalysisError{Phase: models.PhaseProbe, Err: err})
		return
	}
	if !emit(models.ProgressEvent{Phase: models.PhaseProbe, Progress: progressProbe, Message: "metadata extracted"}) {
		cleanup()
		return
	}

	waveform, err := p.analyzer.Waveform(ctx, finalPath, probe.Duration, p.cfg.WaveformPoints)
	if err != nil {
		cleanup()
		fail(models.PhaseWaveform, &models.AnalysisError{Phase: models.PhaseWaveform, Err: err})
		return
	}
	if !emit(models.ProgressEvent{Phase: models.PhaseWaveform, Progress: progressWaveform, Message: "waveform generated"}) {
		cleanup()
		return
	}

	posterOffset := p.cfg.PosterOffset
	if probe.Duration > 0 && posterOffset > probe.Duration/2 {
		posterOffset = probe.Duration / 2
	}
	posterPath := filepath.Join(videoDir, "poster.jpg")
	if err := p.analyzer.Poster(ctx, finalPath, posterOffset, posterPath); err != nil {
		cleanup()
		fail(models.PhasePoster, &models.AnalysisError{Phase: models.PhasePoster, Err: err})
		return
	}
	if !emit(models.ProgressEvent{Phase: models.PhasePoster, Progress: progressPoster, Message: "poster created"}) {
		cleanup()
		return
	}

	previews, err := p.analyzer.PreviewSequence(ctx, finalPath, probe.Duration, p.cfg.PreviewMaxCount, thumbDir)
	if err != nil {
		cleanup()
		fail(models.PhasePreview, &models.AnalysisError{Phase: models.PhasePreview, Err: err})
		return
	}
	if !emit(models.ProgressEvent{Phase: models.PhasePreview, Progress: progressPreview, Message: "previews created"}) {
		cleanup()
		return
	}

	record := &models.VideoRecord{
		ID:          videoID,
		AssetID:     assetID,
		ContentHash: hash,
		FileName:    fileName,
		MimeType:    fields.MimeType,
		CreatedAt:   time.Now().UTC(),
		Details:     fields.Details,
		Analysis: models.Analysis{
			Probe:    probe,
			Waveform: waveform,
			Poster:   "poster.jpg",
			Previews: previews,
		},
	}

	if err := p.catalog.Register(record); err != nil {
		cleanup()
		var dup *models.DuplicateContentError
		if errors.As(err, &dup) {
			emit(models.ProgressEvent{
				Phase:     models.PhaseDuplicate,
				Duplicate: true,
				VideoID:   dup.ExistingID,
				Message:   "content already in catalog",
			})
			return
		}
		fail(models.PhaseDone, err)
		return
	}

	p.logger.Info().Str("video_id", videoID).Str("hash", hash).Msg("ingestion complete")
	emit(models.ProgressEvent{
		Phase:    models.PhaseDone,
		Progress: progressDone,
		VideoID:  videoID,
		Message:  "video ready",
	})
}

// receive streams the upload to a temp file while computing its SHA-256.
// On any failure, including context cancellation mid-stream, the partial
// temp file is removed.
func (p *Pipeline) receive(ctx context.Context, r io.Reader, fileName string) (path, hash string, err error) {
	if err := os.MkdirAll(p.cfg.TmpDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create tmp directory: %w", err)
	}

	tmp, err := os.CreateTemp(p.cfg.TmpDir, "upload_*"+strings.ToLower(filepath.Ext(fileName)))
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	hasher := sha256.New()
	_, err = io.Copy(io.MultiWriter(tmp, hasher), &contextReader{ctx: ctx, r: r})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", "", fmt.Errorf("receive upload: %w", err)
	}

	return tmpPath, hex.EncodeToString(hasher.Sum(nil)), nil
}

// validateFields rejects uploads outside the accepted media family before
// any byte is written.
func validateFields(fields UploadFields) error {
	if fields.FileName == "" {
		return &models.ValidationError{Field: "file", Reason: "missing file name"}
	}
	mediaType := fields.MimeType
	if parsed, _, err := mime.ParseMediaType(fields.MimeType); err == nil {
		mediaType = parsed
	}
	if !strings.HasPrefix(mediaType, "video/") {
		return &models.ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("unsupported content type %q, want video/*", fields.MimeType),
		}
	}
	return nil
}

// contextReader aborts Read when the context is canceled, so an abandoned
// upload stops consuming the stream promptly.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
