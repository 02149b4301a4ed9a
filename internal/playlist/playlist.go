// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package playlist provides ordered-list CRUD over video-id references.
// It shares the single-document persistence discipline of the catalog but
// has an independent lifecycle: playlists may reference deleted videos, and
// resolution against the catalog is lenient.
package playlist

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/avbell/vidarium/internal/models"
	"github.com/avbell/vidarium/internal/store"
)

// document is the persisted playlist collection.
type document struct {
	Lists map[string]*models.PlaylistRecord `json:"lists"`
}

func newDocument() *document {
	return &document{Lists: make(map[string]*models.PlaylistRecord)}
}

// Store owns the playlists document and its single-writer mutation queue.
type Store struct {
	store  *store.Document[document]
	logger zerolog.Logger
	now    func() time.Time
}

// Open loads (or bootstraps) the playlists document at path.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	doc, err := store.Open(path, newDocument, logger)
	if err != nil {
		return nil, fmt.Errorf("open playlists: %w", err)
	}
	return &Store{
		store:  doc,
		logger: logger.With().Str("component", "playlist").Logger(),
		now:    time.Now,
	}, nil
}

// Create adds a new empty playlist and returns it.
func (s *Store) Create(name string) (*models.PlaylistRecord, error) {
	if name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	id := newListID()
	rec := &models.PlaylistRecord{
		ID:        id,
		Name:      name,
		CreatedAt: s.now(),
		VideoIDs:  []string{},
	}
	err := s.store.Update(func(doc *document) error {
		for _, exists := doc.Lists[rec.ID]; exists; _, exists = doc.Lists[rec.ID] {
			rec.ID = newListID()
		}
		doc.Lists[rec.ID] = rec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns a copy of the playlist, or nil when the id is unknown.
func (s *Store) Get(id string) *models.PlaylistRecord {
	var rec *models.PlaylistRecord
	s.store.View(func(doc *document) {
		rec = doc.Lists[id].Clone()
	})
	return rec
}

// All returns copies of every playlist.
func (s *Store) All() []*models.PlaylistRecord {
	var out []*models.PlaylistRecord
	s.store.View(func(doc *document) {
		out = make([]*models.PlaylistRecord, 0, len(doc.Lists))
		for _, rec := range doc.Lists {
			out = append(out, rec.Clone())
		}
	})
	return out
}

// Rename changes a playlist's name.
func (s *Store) Rename(id, name string) error {
	if name == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return s.store.Update(func(doc *document) error {
		rec, ok := doc.Lists[id]
		if !ok {
			return models.ErrNotFound
		}
		rec.Name = name
		return nil
	})
}

// Delete removes a playlist.
func (s *Store) Delete(id string) error {
	return s.store.Update(func(doc *document) error {
		if _, ok := doc.Lists[id]; !ok {
			return models.ErrNotFound
		}
		delete(doc.Lists, id)
		return nil
	})
}

// AddVideo appends a video reference to the playlist. Adding an id that is
// already present is a no-op so playlists hold at most one reference each.
func (s *Store) AddVideo(listID, videoID string) error {
	return s.store.Update(func(doc *document) error {
		rec, ok := doc.Lists[listID]
		if !ok {
			return models.ErrNotFound
		}
		if rec.Contains(videoID) {
			return nil
		}
		rec.VideoIDs = append(rec.VideoIDs, videoID)
		return nil
	})
}

// RemoveVideo drops a video reference from the playlist. Removing an id the
// playlist does not hold is a no-op.
func (s *Store) RemoveVideo(listID, videoID string) error {
	return s.store.Update(func(doc *document) error {
		rec, ok := doc.Lists[listID]
		if !ok {
			return models.ErrNotFound
		}
		out := rec.VideoIDs[:0]
		for _, id := range rec.VideoIDs {
			if id != videoID {
				out = append(out, id)
			}
		}
		rec.VideoIDs = out
		return nil
	})
}

// Neighbors returns the ids preceding and following videoID in the
// playlist's order, for previous/next navigation. Empty strings mark the
// ends of the list or a video not present in it.
func (s *Store) Neighbors(listID, videoID string) (prev, next string) {
	s.store.View(func(doc *document) {
		rec, ok := doc.Lists[listID]
		if !ok {
			return
		}
		for i, id := range rec.VideoIDs {
			if id != videoID {
				continue
			}
			if i > 0 {
				prev = rec.VideoIDs[i-1]
			}
			if i < len(rec.VideoIDs)-1 {
				next = rec.VideoIDs[i+1]
			}
			return
		}
	})
	return prev, next
}

// Containing returns copies of every playlist that references videoID.
func (s *Store) Containing(videoID string) []*models.PlaylistRecord {
	var out []*models.PlaylistRecord
	s.store.View(func(doc *document) {
		for _, rec := range doc.Lists {
			if rec.Contains(videoID) {
				out = append(out, rec.Clone())
			}
		}
	})
	return out
}

// Resolver resolves video ids to records; the catalog satisfies this.
type Resolver interface {
	Videos(ids []string) []*models.VideoRecord
}

// Resolve materializes a playlist's entries with video data. Resolution is
// lenient: ids of since-deleted videos are dropped, never an error.
func (s *Store) Resolve(id string, r Resolver) []*models.VideoRecord {
	rec := s.Get(id)
	if rec == nil {
		return nil
	}
	return r.Videos(rec.VideoIDs)
}

// newListID returns a short random playlist identifier.
func newListID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failure means the platform RNG is broken; there is
		// no usable fallback for identifier generation.
		panic(fmt.Sprintf("playlist: read random bytes: %v", err))
	}
	return hex.EncodeToString(b[:])
}
