// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package catalog

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/avbell/vidarium/internal/store"
)

// historyDocument is the persisted watch-order document: video ids in
// chronological append order.
type historyDocument struct {
	Videos []string `json:"videos"`
}

func newHistoryDocument() *historyDocument {
	return &historyDocument{Videos: []string{}}
}

// History is the append-only watch-order log. It runs on its own
// single-writer queue, independent of the catalog document.
type History struct {
	store *store.Document[historyDocument]
}

// OpenHistory loads (or bootstraps) the history document at path.
func OpenHistory(path string, logger zerolog.Logger) (*History, error) {
	doc, err := store.Open(path, newHistoryDocument, logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return &History{store: doc}, nil
}

// Append records a watch of the given video. Consecutive watches of the
// same video collapse into one entry; the return value reports whether an
// entry was appended, which callers use to avoid double-counting views.
func (h *History) Append(videoID string) (bool, error) {
	appended := false
	err := h.store.Update(func(doc *historyDocument) error {
		if n := len(doc.Videos); n > 0 && doc.Videos[n-1] == videoID {
			return nil
		}
		doc.Videos = append(doc.Videos, videoID)
		appended = true
		return nil
	})
	return appended, err
}

// Recent returns up to n distinct video ids, most recently watched first.
func (h *History) Recent(n int) []string {
	var out []string
	h.store.View(func(doc *historyDocument) {
		seen := make(map[string]struct{})
		for i := len(doc.Videos) - 1; i >= 0 && len(out) < n; i-- {
			id := doc.Videos[i]
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	})
	return out
}

// Len returns the number of history entries.
func (h *History) Len() int {
	var n int
	h.store.View(func(doc *historyDocument) {
		n = len(doc.Videos)
	})
	return n
}
