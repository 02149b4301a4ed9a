// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package catalog maintains the in-memory video catalog and its inverted
// indices, backed by a single persisted document.
//
// All mutations run through the store's single-writer queue as one
// load-mutate-persist unit; readers see the current snapshot and receive
// cloned records, never live pointers. The inverted-index invariant holds
// at all times: an index bucket contains an id iff the corresponding field
// on the record contains the indexed value. Removal strips every index
// reference and the hash entry, so a record can never be soft-orphaned in
// a bucket.
package catalog

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/avbell/vidarium/internal/models"
	"github.com/avbell/vidarium/internal/recommend"
	"github.com/avbell/vidarium/internal/store"
)

// document is the persisted catalog shape: records plus the inverted-index
// maps, each mapping a field value to an ordered list of video ids. Order
// preserves insertion sequence, which JSON maps cannot.
type document struct {
	Videos          map[string]*models.VideoRecord `json:"videos"`
	Order           []string                       `json:"order"`
	Hashes          map[string]string              `json:"hashes"`
	Authors         map[string][]string            `json:"authors"`
	Categories      map[string][]string            `json:"categories"`
	Tags            map[string][]string            `json:"tags"`
	ParentalRatings map[string][]string            `json:"parentalRatings"`
	Languages       map[string][]string            `json:"languages"`
}

func newDocument() *document {
	return &document{
		Videos:          make(map[string]*models.VideoRecord),
		Hashes:          make(map[string]string),
		Authors:         make(map[string][]string),
		Categories:      make(map[string][]string),
		Tags:            make(map[string][]string),
		ParentalRatings: make(map[string][]string),
		Languages:       make(map[string][]string),
	}
}

// Catalog is the content index: registration, lookups, inverted-index
// queries, counters, search and suggestions over the persisted catalog
// document.
type Catalog struct {
	store  *store.Document[document]
	scorer *recommend.Scorer
	logger zerolog.Logger
	now    func() time.Time
}

// Open loads (or bootstraps) the catalog document at path. The catalog
// accepts operations immediately after Open returns; there is no lazy
// initialization on any operation.
func Open(path string, scorer *recommend.Scorer, logger zerolog.Logger) (*Catalog, error) {
	doc, err := store.Open(path, newDocument, logger)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return &Catalog{
		store:  doc,
		scorer: scorer,
		logger: logger.With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}, nil
}

// Register adds a new record to the catalog and all inverted indices.
// The record's id and content hash must both be new; the pipeline relies on
// the hash check for dedup and retries id generation on collision.
func (c *Catalog) Register(record *models.VideoRecord) error {
	rec := record.Clone()
	rec.SearchText = rec.Details.SearchText()

	err := c.store.Update(func(doc *document) error {
		if _, exists := doc.Videos[rec.ID]; exists {
			return fmt.Errorf("video id %s already registered", rec.ID)
		}
		if existing, exists := doc.Hashes[rec.ContentHash]; exists {
			return &models.DuplicateContentError{ExistingID: existing}
		}

		doc.Videos[rec.ID] = rec
		doc.Order = append(doc.Order, rec.ID)
		doc.Hashes[rec.ContentHash] = rec.ID
		indexDetails(doc, rec.ID, rec.Details)
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info().Str("video_id", rec.ID).Str("title", rec.Details.Title).Msg("video registered")
	return nil
}

// Remove deletes a record and strips every inverted-index reference and the
// hash entry. Returns models.ErrNotFound for unknown ids.
func (c *Catalog) Remove(id string) error {
	return c.store.Update(func(doc *document) error {
		rec, ok := doc.Videos[id]
		if !ok {
			return models.ErrNotFound
		}
		delete(doc.Videos, id)
		delete(doc.Hashes, rec.ContentHash)
		doc.Order = removeID(doc.Order, id)
		unindexDetails(doc, id, rec.Details)
		return nil
	})
}

// UpdateDetails replaces a record's descriptive fields. The inverted
// indices and the search text are updated atomically with the field change.
func (c *Catalog) UpdateDetails(id string, details models.Details) error {
	return c.store.Update(func(doc *document) error {
		rec, ok := doc.Videos[id]
		if !ok {
			return models.ErrNotFound
		}
		unindexDetails(doc, id, rec.Details)
		rec.Details = details
		rec.Details.Tags = append([]string(nil), details.Tags...)
		rec.SearchText = rec.Details.SearchText()
		indexDetails(doc, id, rec.Details)
		return nil
	})
}

// Video returns a copy of the record, or nil when the id is unknown.
func (c *Catalog) Video(id string) *models.VideoRecord {
	var rec *models.VideoRecord
	c.store.View(func(doc *document) {
		rec = doc.Videos[id].Clone()
	})
	return rec
}

// Videos resolves ids to records, preserving the input order and silently
// dropping ids that no longer exist.
func (c *Catalog) Videos(ids []string) []*models.VideoRecord {
	out := make([]*models.VideoRecord, 0, len(ids))
	c.store.View(func(doc *document) {
		for _, id := range ids {
			if rec, ok := doc.Videos[id]; ok {
				out = append(out, rec.Clone())
			}
		}
	})
	return out
}

// FindByHash returns the id of the record with the given content hash, or
// "" when no record matches.
func (c *Catalog) FindByHash(hash string) string {
	var id string
	c.store.View(func(doc *document) {
		id = doc.Hashes[hash]
	})
	return id
}

// FindByAuthor returns the ids of all videos by the given author.
func (c *Catalog) FindByAuthor(author string) []string { return c.findIn(author, authorIndex) }

// FindByCategory returns the ids of all videos in the given category.
func (c *Catalog) FindByCategory(category string) []string { return c.findIn(category, categoryIndex) }

// FindByTag returns the ids of all videos carrying the given tag.
func (c *Catalog) FindByTag(tag string) []string { return c.findIn(tag, tagIndex) }

// FindByParentalRating returns the ids of all videos with the given rating code.
func (c *Catalog) FindByParentalRating(pg string) []string { return c.findIn(pg, parentalIndex) }

// FindByLanguage returns the ids of all videos in the given language.
func (c *Catalog) FindByLanguage(lang string) []string { return c.findIn(lang, languageIndex) }

type indexSelector func(doc *document) map[string][]string

func authorIndex(doc *document) map[string][]string   { return doc.Authors }
func categoryIndex(doc *document) map[string][]string { return doc.Categories }
func tagIndex(doc *document) map[string][]string      { return doc.Tags }
func parentalIndex(doc *document) map[string][]string { return doc.ParentalRatings }
func languageIndex(doc *document) map[string][]string { return doc.Languages }

func (c *Catalog) findIn(value string, index indexSelector) []string {
	var ids []string
	c.store.View(func(doc *document) {
		ids = append([]string(nil), index(doc)[value]...)
	})
	return ids
}

// AddView increments the monotonic view counter.
func (c *Catalog) AddView(id string) error {
	return c.store.Update(func(doc *document) error {
		rec, ok := doc.Videos[id]
		if !ok {
			return models.ErrNotFound
		}
		rec.Stats.Views++
		return nil
	})
}

// Like records a like and returns the recomputed rating.
func (c *Catalog) Like(id string) (float64, error) { return c.vote(id, true) }

// Dislike records a dislike and returns the recomputed rating.
func (c *Catalog) Dislike(id string) (float64, error) { return c.vote(id, false) }

func (c *Catalog) vote(id string, like bool) (float64, error) {
	var rating float64
	err := c.store.Update(func(doc *document) error {
		rec, ok := doc.Videos[id]
		if !ok {
			return models.ErrNotFound
		}
		if like {
			rec.Stats.Likes++
		} else {
			rec.Stats.Dislikes++
		}
		rec.Stats.Recompute()
		rating = *rec.Stats.Rating
		return nil
	})
	return rating, err
}

// Size returns the number of registered videos.
func (c *Catalog) Size() int {
	var n int
	c.store.View(func(doc *document) {
		n = len(doc.Videos)
	})
	return n
}

// indexDetails adds id to every inverted-index bucket the details reference.
func indexDetails(doc *document, id string, d models.Details) {
	if d.Author != "" {
		doc.Authors[d.Author] = append(doc.Authors[d.Author], id)
	}
	if d.Category != "" {
		doc.Categories[d.Category] = append(doc.Categories[d.Category], id)
	}
	for _, tag := range d.Tags {
		doc.Tags[tag] = append(doc.Tags[tag], id)
	}
	if d.ParentalRating != "" {
		doc.ParentalRatings[d.ParentalRating] = append(doc.ParentalRatings[d.ParentalRating], id)
	}
	if d.Language != "" {
		doc.Languages[d.Language] = append(doc.Languages[d.Language], id)
	}
}

// unindexDetails strips id from every bucket the details reference, deleting
// buckets that become empty so facet listings stay exact.
func unindexDetails(doc *document, id string, d models.Details) {
	if d.Author != "" {
		removeRef(doc.Authors, d.Author, id)
	}
	if d.Category != "" {
		removeRef(doc.Categories, d.Category, id)
	}
	for _, tag := range d.Tags {
		removeRef(doc.Tags, tag, id)
	}
	if d.ParentalRating != "" {
		removeRef(doc.ParentalRatings, d.ParentalRating, id)
	}
	if d.Language != "" {
		removeRef(doc.Languages, d.Language, id)
	}
}

func removeRef(index map[string][]string, key, id string) {
	ids := removeID(index[key], id)
	if len(ids) == 0 {
		delete(index, key)
		return
	}
	index[key] = ids
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
