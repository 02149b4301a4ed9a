// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package models

import "time"

// PlaylistRecord is an ordered list of video-id references with an
// independent lifecycle. A playlist may reference a since-deleted video;
// resolution against the catalog is lenient and drops missing ids.
type PlaylistRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	VideoIDs  []string  `json:"videoIds"`
}

// Contains reports whether the playlist references the given video id.
func (p *PlaylistRecord) Contains(videoID string) bool {
	for _, id := range p.VideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record.
func (p *PlaylistRecord) Clone() *PlaylistRecord {
	if p == nil {
		return nil
	}
	out := *p
	out.VideoIDs = append([]string(nil), p.VideoIDs...)
	return &out
}
