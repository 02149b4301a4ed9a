// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package recommend

import (
	"fmt"
	"time"
)

// Config holds the scoring weights and cache policy of the recommender.
// The weights are additive heuristics, not normalized probabilities; their
// relative magnitudes encode which signals dominate.
type Config struct {
	// TagOverlap is added once per overlapping tag.
	TagOverlap float64 `json:"tag_overlap"`

	// CategoryMatch is added when source and candidate categories match.
	CategoryMatch float64 `json:"category_match"`

	// AuthorMatch is added when the authors match.
	AuthorMatch float64 `json:"author_match"`

	// TokenWeight is added per overlapping title/description token, capped
	// at TokenCap tokens (so text overlap contributes at most
	// TokenCap*TokenWeight).
	TokenWeight float64 `json:"token_weight"`
	TokenCap    int     `json:"token_cap"`

	// YearExact is added for identical release years, YearNear when the
	// years are within YearNearSpan of each other.
	YearExact    float64 `json:"year_exact"`
	YearNear     float64 `json:"year_near"`
	YearNearSpan int     `json:"year_near_span"`

	// DurationClose is added when the larger/smaller duration ratio is at
	// most DurationCloseRatio, DurationNear when at most DurationNearRatio.
	DurationClose      float64 `json:"duration_close"`
	DurationNear       float64 `json:"duration_near"`
	DurationCloseRatio float64 `json:"duration_close_ratio"`
	DurationNearRatio  float64 `json:"duration_near_ratio"`

	// LanguageMatch is added when the language codes match.
	LanguageMatch float64 `json:"language_match"`

	// PopularityScale multiplies log(1+views). It must stay sub-unit so
	// popularity only breaks ties and never dominates a content signal.
	PopularityScale float64 `json:"popularity_scale"`

	// CacheTTL is how long a computed suggestion list stays valid on the
	// source record. Expiry is the only invalidation: catalog mutations do
	// not clear the cache (accepted staleness for stable suggestions).
	CacheTTL time.Duration `json:"cache_ttl"`
}

// DefaultConfig returns the production scoring weights.
func DefaultConfig() Config {
	return Config{
		TagOverlap:         40,
		CategoryMatch:      25,
		AuthorMatch:        15,
		TokenWeight:        6,
		TokenCap:           10,
		YearExact:          6,
		YearNear:           3,
		YearNearSpan:       2,
		DurationClose:      5,
		DurationNear:       2,
		DurationCloseRatio: 1.2,
		DurationNearRatio:  1.5,
		LanguageMatch:      20,
		PopularityScale:    0.5,
		CacheTTL:           14 * 24 * time.Hour,
	}
}

// Validate checks the configuration for values that would corrupt ranking.
func (c Config) Validate() error {
	if c.TagOverlap < 0 || c.CategoryMatch < 0 || c.AuthorMatch < 0 ||
		c.TokenWeight < 0 || c.YearExact < 0 || c.YearNear < 0 ||
		c.DurationClose < 0 || c.DurationNear < 0 || c.LanguageMatch < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	if c.TokenCap < 0 {
		return fmt.Errorf("token cap must be non-negative, got %d", c.TokenCap)
	}
	if c.PopularityScale < 0 || c.PopularityScale >= 1 {
		return fmt.Errorf("popularity scale must be in [0,1) to remain a tie-breaker, got %v", c.PopularityScale)
	}
	if c.DurationCloseRatio < 1 || c.DurationNearRatio < c.DurationCloseRatio {
		return fmt.Errorf("duration ratios must satisfy 1 <= close <= near, got %v and %v",
			c.DurationCloseRatio, c.DurationNearRatio)
	}
	if c.YearNearSpan < 0 {
		return fmt.Errorf("year near span must be non-negative, got %d", c.YearNearSpan)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %v", c.CacheTTL)
	}
	return nil
}
