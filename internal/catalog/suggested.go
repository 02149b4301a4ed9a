// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package catalog

import (
	"github.com/avbell/vidarium/internal/models"
	"github.com/avbell/vidarium/internal/recommend"
)

// Suggested returns up to n videos similar to the source video, best first.
//
// Results are cached on the source record with the scorer's TTL. A cache
// hit short-circuits recomputation as long as the cached list holds at
// least n items and has not expired. The cache is written lazily and
// invalidated by expiry only: later uploads and edits do not clear it.
// That staleness is an accepted tradeoff; suggestion lists stay stable for
// the TTL window.
func (c *Catalog) Suggested(id string, n int) []*models.VideoRecord {
	if n <= 0 || c.scorer == nil {
		return nil
	}

	var (
		cached []string
		src    recommend.Features
		cands  []recommend.Features
		found  bool
	)
	now := c.now()

	c.store.View(func(doc *document) {
		rec, ok := doc.Videos[id]
		if !ok {
			return
		}
		found = true
		if rec.Suggested.Valid(now, n) {
			cached = append([]string(nil), rec.Suggested.Items[:n]...)
			return
		}
		src = recommend.FeaturesOf(rec)
		cands = make([]recommend.Features, 0, len(doc.Order))
		for _, cid := range doc.Order {
			if cid == id {
				continue
			}
			if cand, ok := doc.Videos[cid]; ok {
				cands = append(cands, recommend.FeaturesOf(cand))
			}
		}
	})

	switch {
	case !found:
		return nil
	case cached != nil:
		return c.Videos(cached)
	}

	ranked := c.scorer.Rank(src, cands, n)
	items := make([]string, len(ranked))
	for i, r := range ranked {
		items[i] = r.ID
	}

	// Cache write is a normal store mutation; a failed persist only costs
	// the cache, not the response.
	err := c.store.Update(func(doc *document) error {
		rec, ok := doc.Videos[id]
		if !ok {
			return models.ErrNotFound
		}
		rec.Suggested = &models.RecommendationCache{
			ExpiresAt: now.Add(c.scorer.CacheTTL()),
			Items:     items,
		}
		return nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", id).Msg("failed to cache suggestions")
	}

	return c.Videos(items)
}
