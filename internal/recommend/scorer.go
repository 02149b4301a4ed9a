// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

// Package recommend ranks catalog videos against a source video using a
// weighted sum over tag/category/author/text/year/duration/language/
// popularity signals. The scorer is a pure function over extracted feature
// structs: given the same catalog state it is deterministic.
//
// The package has no dependency on the catalog; the catalog extracts
// Features from its records and owns the per-record result cache.
package recommend

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/avbell/vidarium/internal/models"
)

// Features is the normalized scoring view of one video. Optional fields are
// pointers so "field absent" is distinguished from an empty or zero value:
// a missing category never matches another missing category.
type Features struct {
	ID       string
	Tags     map[string]struct{}
	Tokens   map[string]struct{}
	Category *string
	Author   *string
	Language *string
	Year     *int
	Duration *float64
	Views    int64
}

// FeaturesOf extracts scoring features from a catalog record.
func FeaturesOf(v *models.VideoRecord) Features {
	f := Features{
		ID:     v.ID,
		Tags:   make(map[string]struct{}, len(v.Details.Tags)),
		Tokens: Tokenize(v.Details.Title + " " + v.Details.Description),
		Views:  v.Stats.Views,
	}
	for _, t := range v.Details.Tags {
		f.Tags[t] = struct{}{}
	}
	f.Category = optional(v.Details.Category)
	f.Author = optional(v.Details.Author)
	f.Language = optional(v.Details.Language)
	if year := v.Details.ReleaseYear(); year != 0 {
		f.Year = &year
	}
	if d := v.Analysis.Probe.Duration; d > 0 {
		f.Duration = &d
	}
	return f
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Tokenize splits text into the set of its lower-cased unicode word tokens
// (maximal runs of letters and digits).
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		tokens[w] = struct{}{}
	}
	return tokens
}

// Scored pairs a candidate id with its computed score.
type Scored struct {
	ID    string
	Score float64
	Views int64
}

// Scorer ranks candidates against a source video.
type Scorer struct {
	cfg Config
}

// NewScorer validates the configuration and returns a scorer.
func NewScorer(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

// CacheTTL returns how long a computed suggestion list stays valid.
func (s *Scorer) CacheTTL() time.Duration { return s.cfg.CacheTTL }

// Score computes the additive similarity score of a candidate against the
// source. Candidates identical to the source must be excluded by the caller.
func (s *Scorer) Score(src, cand Features) float64 {
	score := 0.0

	overlap := 0
	for t := range cand.Tags {
		if _, ok := src.Tags[t]; ok {
			overlap++
		}
	}
	score += float64(overlap) * s.cfg.TagOverlap

	if src.Category != nil && cand.Category != nil && *src.Category == *cand.Category {
		score += s.cfg.CategoryMatch
	}
	if src.Author != nil && cand.Author != nil && *src.Author == *cand.Author {
		score += s.cfg.AuthorMatch
	}

	textOverlap := 0
	for t := range src.Tokens {
		if _, ok := cand.Tokens[t]; ok {
			textOverlap++
		}
	}
	if textOverlap > s.cfg.TokenCap {
		textOverlap = s.cfg.TokenCap
	}
	score += float64(textOverlap) * s.cfg.TokenWeight

	if src.Year != nil && cand.Year != nil {
		diff := *src.Year - *cand.Year
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			score += s.cfg.YearExact
		case diff <= s.cfg.YearNearSpan:
			score += s.cfg.YearNear
		}
	}

	if src.Duration != nil && cand.Duration != nil && *src.Duration > 0 && *cand.Duration > 0 {
		ratio := *src.Duration / *cand.Duration
		if ratio < 1 {
			ratio = 1 / ratio
		}
		switch {
		case ratio <= s.cfg.DurationCloseRatio:
			score += s.cfg.DurationClose
		case ratio <= s.cfg.DurationNearRatio:
			score += s.cfg.DurationNear
		}
	}

	if src.Language != nil && cand.Language != nil && *src.Language == *cand.Language {
		score += s.cfg.LanguageMatch
	}

	// Sub-unit popularity term: breaks ties between otherwise equal
	// candidates without outweighing any content signal.
	score += math.Log1p(float64(cand.Views)) * s.cfg.PopularityScale

	return score
}

// Rank scores every candidate against the source and returns up to n ids,
// best first. Ties on score break by raw view count, descending; remaining
// ties keep the caller's candidate order for determinism.
func (s *Scorer) Rank(src Features, candidates []Features, n int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == src.ID {
			continue
		}
		scored = append(scored, Scored{ID: c.ID, Score: s.Score(src, c), Views: c.Views})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Views > scored[j].Views
	})

	if n >= 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
