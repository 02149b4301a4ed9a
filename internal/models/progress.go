// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package models

// Phase identifies one stage of the ingestion pipeline in a progress event.
type Phase string

// Ingestion phases, in emission order. The terminal phase is always one of
// PhaseDone, PhaseDuplicate or PhaseError.
const (
	PhaseReceived  Phase = "received"
	PhaseSaved     Phase = "saved"
	PhaseProbe     Phase = "probe"
	PhaseWaveform  Phase = "waveform"
	PhasePoster    Phase = "poster"
	PhasePreview   Phase = "preview"
	PhaseDone      Phase = "done"
	PhaseDuplicate Phase = "duplicate"
	PhaseError     Phase = "error"
)

// ProgressEvent is one entry of the NDJSON-style ingestion progress feed.
//
// Events for a single ingestion are emitted in strict phase order with a
// monotonically non-decreasing Progress, and the terminal event is always
// last. The feed is the sole progress channel; there is no polling interface.
type ProgressEvent struct {
	Phase Phase `json:"phase"`

	// Progress is the overall completion percentage (0-100). The client
	// transfer owns 0-50, the server-side analysis phases own 50-100.
	Progress int `json:"progress,omitempty"`

	Message string `json:"message,omitempty"`

	// Stage names the pipeline stage that failed when Phase is PhaseError,
	// so callers can tell which analysis step broke.
	Stage Phase `json:"stage,omitempty"`

	// VideoID carries the new id on PhaseDone, or the id of the
	// pre-existing match on PhaseDuplicate.
	VideoID string `json:"videoId,omitempty"`

	// Duplicate marks the dedup short-circuit outcome. This is a defined
	// alternate success, not an error.
	Duplicate bool `json:"duplicate,omitempty"`
}

// Terminal reports whether this event ends the feed.
func (e ProgressEvent) Terminal() bool {
	switch e.Phase {
	case PhaseDone, PhaseDuplicate, PhaseError:
		return true
	}
	return false
}
