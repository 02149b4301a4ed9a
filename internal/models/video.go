// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package models

import (
	"math"
	"strings"
	"time"
)

// VideoRecord is the catalog entry for one distinct uploaded asset.
//
// ID and ContentHash are each globally unique across the catalog.
// ID is the short public identifier assigned at ingestion; AssetID is the
// internal storage-name token, decoupled from ID so the stored filename can
// never collide even if an ID is ever reissued.
type VideoRecord struct {
	// ID is the short opaque public identifier, immutable after ingestion.
	ID string `json:"id"`

	// AssetID is the internal storage-name token (UUID), immutable.
	AssetID string `json:"assetId"`

	// ContentHash is the SHA-256 digest of the raw file bytes, hex encoded.
	// It is the deduplication key: at most one record exists per hash.
	ContentHash string `json:"contentHash"`

	// FileName is the stored file name (AssetID + original extension).
	FileName string `json:"fileName"`

	// MimeType is the content type declared at upload.
	MimeType string `json:"mimeType"`

	// CreatedAt is the ingestion timestamp, immutable.
	CreatedAt time.Time `json:"createdAt"`

	// Details holds the mutable descriptive fields. Mutated only by
	// catalog-maintenance operations, never by the pipeline after creation.
	Details Details `json:"content"`

	// Analysis holds the outputs of the media analysis stages.
	Analysis Analysis `json:"analysis"`

	// Stats holds the view/like/dislike counters and the derived rating.
	Stats Stats `json:"stats"`

	// SearchText is the lower-cased concatenation of all textual fields.
	// It is rebuilt whenever Details changes and has no independent source
	// of truth.
	SearchText string `json:"searchText"`

	// Suggested is the lazily written recommendation cache. It expires by
	// TTL only; catalog mutations do not invalidate it.
	Suggested *RecommendationCache `json:"suggested,omitempty"`
}

// Details are the descriptive, user-editable fields of a video record.
type Details struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Source      string   `json:"source"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`

	// ParentalRating is the categorical content-suitability code (e.g. "PG-13").
	ParentalRating string `json:"pg"`

	// Language is the language code (e.g. "en").
	Language string `json:"lang"`

	// ReleaseDate is the declared release date in ISO form ("2006-01-02").
	ReleaseDate string `json:"date"`
}

// ReleaseYear parses the release year out of ReleaseDate.
// Returns 0 when no valid date is set.
func (d Details) ReleaseYear() int {
	if d.ReleaseDate == "" {
		return 0
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006"} {
		if t, err := time.Parse(layout, d.ReleaseDate); err == nil {
			return t.Year()
		}
	}
	return 0
}

// SearchText builds the substring-search key for these details: the
// lower-cased concatenation of every textual field. The result is always
// derivable deterministically from the current field values.
func (d Details) SearchText() string {
	parts := []string{
		d.Title, d.Author, d.Source, d.Description,
		d.Category, strings.Join(d.Tags, " "),
		d.ParentalRating, d.Language,
	}
	fields := parts[:0]
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// Analysis holds the derived artifacts produced by the media analysis stages.
type Analysis struct {
	// Probe is the normalized ffprobe metadata.
	Probe ProbeInfo `json:"probe"`

	// Waveform is the downsampled audio amplitude sequence, normalized to
	// integers in [0,100] with a fixed length.
	Waveform []int `json:"waveform"`

	// Poster is the stored poster image reference (file name).
	Poster string `json:"poster"`

	// Previews are the stored scrubber thumbnail references in time order.
	Previews []string `json:"previews"`
}

// ProbeInfo is the normalized container/stream metadata of a media file.
type ProbeInfo struct {
	// Duration is the container duration in seconds.
	Duration float64 `json:"duration"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Bitrate is the overall bitrate in bits per second.
	Bitrate int64 `json:"bitrate"`

	Video VideoStreamInfo `json:"video"`
	Audio AudioStreamInfo `json:"audio"`
}

// VideoStreamInfo describes the primary video stream.
type VideoStreamInfo struct {
	Codec  string  `json:"codec"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    float64 `json:"fps"`
}

// AudioStreamInfo describes the primary audio stream.
type AudioStreamInfo struct {
	Codec      string `json:"codec"`
	Channels   int    `json:"channels"`
	SampleRate int    `json:"sampleRate"`
}

// Stats holds the per-video counters and the derived rating.
type Stats struct {
	// Views is a monotonic counter.
	Views int64 `json:"views"`

	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`

	// Rating is likes / max(1, likes+dislikes) * 5, recomputed on every
	// vote. It is nil until the first vote: "no votes yet" is a distinct
	// display state from a computed 0.0.
	Rating *float64 `json:"rating"`
}

// Recompute updates Rating from the current counters.
func (s *Stats) Recompute() {
	total := s.Likes + s.Dislikes
	if total < 1 {
		total = 1
	}
	r := float64(s.Likes) / float64(total) * 5
	// Keep three decimals so persisted documents stay stable across
	// serialization round trips.
	r = math.Round(r*1000) / 1000
	s.Rating = &r
}

// RecommendationCache is the TTL-bounded suggestion list stored on a record.
type RecommendationCache struct {
	// ExpiresAt is the absolute expiry time of the cached list.
	ExpiresAt time.Time `json:"expiresAt"`

	// Items are the recommended video ids in rank order.
	Items []string `json:"items"`
}

// Valid reports whether the cache can serve a request for n items.
func (c *RecommendationCache) Valid(now time.Time, n int) bool {
	return c != nil && now.Before(c.ExpiresAt) && len(c.Items) >= n
}

// Clone returns a deep copy of the record. Readers outside the catalog's
// mutation queue always receive clones, so no caller can observe or cause a
// partial-record mutation.
func (v *VideoRecord) Clone() *VideoRecord {
	if v == nil {
		return nil
	}
	out := *v
	out.Details.Tags = append([]string(nil), v.Details.Tags...)
	out.Analysis.Waveform = append([]int(nil), v.Analysis.Waveform...)
	out.Analysis.Previews = append([]string(nil), v.Analysis.Previews...)
	if v.Stats.Rating != nil {
		r := *v.Stats.Rating
		out.Stats.Rating = &r
	}
	if v.Suggested != nil {
		out.Suggested = &RecommendationCache{
			ExpiresAt: v.Suggested.ExpiresAt,
			Items:     append([]string(nil), v.Suggested.Items...),
		}
	}
	return &out
}
