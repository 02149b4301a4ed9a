// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/avbell/vidarium/internal/models"
)

// Pagination bounds, matching the public API defaults.
const (
	DefaultLimit = 24
	MaxLimit     = 96
)

// Sort keys accepted by Search.
const (
	SortRelevance = "relevance"
	SortDate      = "date"
	SortViews     = "views"
	SortRating    = "rating"
	SortDuration  = "duration"
	SortTitle     = "title"
)

// Filters are conjunctive exact-match constraints over catalog fields.
// Zero values mean "no constraint".
type Filters struct {
	Author         string
	Category       string
	Tag            string
	Year           int
	ParentalRating string
	Language       string
}

// Query describes one catalog search.
//
// Text empty means no text filtering; non-empty text is matched as a
// case-insensitive substring of each record's search text. This is
// deliberately plain substring matching: SortRelevance is a pass-through
// alias for the catalog's insertion order, not a ranking signal.
type Query struct {
	Text    string
	Filters Filters
	Sort    string
	Order   string // "asc" or "desc"; default "desc"
	Offset  int
	Limit   int
}

// Result is one page of search results. Total is the post-filter, pre-page
// count: offset+limit < total signals more pages exist.
type Result struct {
	Results []*models.VideoRecord `json:"results"`
	Total   int                   `json:"total"`
	Offset  int                   `json:"offset"`
	Limit   int                   `json:"limit"`
}

// Search filters, sorts and paginates the catalog.
func (c *Catalog) Search(q Query) Result {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))

	var matched []*models.VideoRecord
	c.store.View(func(doc *document) {
		// Walk in insertion order so SortRelevance needs no extra work.
		for _, id := range doc.Order {
			rec, ok := doc.Videos[id]
			if !ok {
				continue
			}
			if text != "" && !strings.Contains(rec.SearchText, text) {
				continue
			}
			if !matchesFilters(rec, q.Filters) {
				continue
			}
			matched = append(matched, rec.Clone())
		}
	})

	sortResults(matched, q.Sort, strings.EqualFold(q.Order, "asc"))

	total := len(matched)
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return Result{
		Results: matched[start:end],
		Total:   total,
		Offset:  q.Offset,
		Limit:   q.Limit,
	}
}

func matchesFilters(rec *models.VideoRecord, f Filters) bool {
	if f.Author != "" && rec.Details.Author != f.Author {
		return false
	}
	if f.Category != "" && rec.Details.Category != f.Category {
		return false
	}
	if f.Tag != "" && !containsTag(rec.Details.Tags, f.Tag) {
		return false
	}
	if f.Year != 0 && rec.Details.ReleaseYear() != f.Year {
		return false
	}
	if f.ParentalRating != "" && rec.Details.ParentalRating != f.ParentalRating {
		return false
	}
	if f.Language != "" && rec.Details.Language != f.Language {
		return false
	}
	return true
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// sortResults orders records by the given key. The input arrives in
// insertion order, which is exactly SortRelevance descending; every other
// key sorts stably so equal records keep their catalog order.
func sortResults(recs []*models.VideoRecord, key string, asc bool) {
	switch key {
	case "", SortRelevance:
		// Insertion order is the natural (descending) direction.
		if asc {
			reverse(recs)
		}
		return

	case SortDate:
		sortBy(recs, asc, func(a, b *models.VideoRecord) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})

	case SortViews:
		sortBy(recs, asc, func(a, b *models.VideoRecord) int {
			return compareInt64(a.Stats.Views, b.Stats.Views)
		})

	case SortRating:
		sortBy(recs, asc, func(a, b *models.VideoRecord) int {
			return compareFloat(ratingValue(a), ratingValue(b))
		})

	case SortDuration:
		sortBy(recs, asc, func(a, b *models.VideoRecord) int {
			return compareFloat(a.Analysis.Probe.Duration, b.Analysis.Probe.Duration)
		})

	case SortTitle:
		// Locale-aware, case-insensitive title comparison. The collator
		// is not safe for concurrent use, so each search builds its own.
		col := collate.New(language.Und, collate.Loose)
		sortBy(recs, asc, func(a, b *models.VideoRecord) int {
			return col.CompareString(a.Details.Title, b.Details.Title)
		})

	default:
		// Unknown keys behave like relevance rather than erroring: "no
		// results" style leniency extends to structurally valid queries.
		if asc {
			reverse(recs)
		}
	}
}

// sortBy sorts ascending by cmp, reversed when desc. Sort keys default to
// descending; SortTitle reads naturally ascending but follows the same
// order flag.
func sortBy(recs []*models.VideoRecord, asc bool, cmp func(a, b *models.VideoRecord) int) {
	sort.SliceStable(recs, func(i, j int) bool {
		if asc {
			return cmp(recs[i], recs[j]) < 0
		}
		return cmp(recs[i], recs[j]) > 0
	})
}

// ratingValue orders unrated records below any computed rating, including
// a genuine 0.0.
func ratingValue(rec *models.VideoRecord) float64 {
	if rec.Stats.Rating == nil {
		return -1
	}
	return *rec.Stats.Rating
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func reverse(recs []*models.VideoRecord) {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
}
