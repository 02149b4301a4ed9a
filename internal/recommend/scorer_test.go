// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package recommend

import (
	"testing"
	"time"

	"github.com/avbell/vidarium/internal/models"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewScorer() error: %v", err)
	}
	return s
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func fPtr(f float64) *float64 { return &f }

func tags(ts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ts))
	for _, t := range ts {
		m[t] = struct{}{}
	}
	return m
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "splits on punctuation", text: "Winter, hiking: part-2", want: []string{"winter", "hiking", "part", "2"}},
		{name: "lowercases", text: "ALPINE Trails", want: []string{"alpine", "trails"}},
		{name: "unicode words", text: "café日本", want: []string{"café日本"}},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %d tokens %v", tt.text, got, len(tt.want), tt.want)
			}
			for _, w := range tt.want {
				if _, ok := got[w]; !ok {
					t.Errorf("Tokenize(%q) missing token %q (got %v)", tt.text, w, got)
				}
			}
		})
	}
}

func TestScoreSignals(t *testing.T) {
	s := newTestScorer(t)
	base := Features{ID: "src"}

	tests := []struct {
		name string
		src  Features
		cand Features
		want float64
	}{
		{
			name: "no signals",
			src:  base,
			cand: Features{ID: "c"},
			want: 0,
		},
		{
			name: "one shared tag",
			src:  Features{ID: "src", Tags: tags("hiking")},
			cand: Features{ID: "c", Tags: tags("hiking", "vlog")},
			want: 40,
		},
		{
			name: "two shared tags",
			src:  Features{ID: "src", Tags: tags("a", "b")},
			cand: Features{ID: "c", Tags: tags("a", "b", "c")},
			want: 80,
		},
		{
			name: "category match",
			src:  Features{ID: "src", Category: strPtr("travel")},
			cand: Features{ID: "c", Category: strPtr("travel")},
			want: 25,
		},
		{
			name: "missing category never matches missing category",
			src:  Features{ID: "src"},
			cand: Features{ID: "c"},
			want: 0,
		},
		{
			name: "author match",
			src:  Features{ID: "src", Author: strPtr("jo")},
			cand: Features{ID: "c", Author: strPtr("jo")},
			want: 15,
		},
		{
			name: "token overlap capped at ten",
			src:  Features{ID: "src", Tokens: Tokenize("a b c d e f g h i j k l")},
			cand: Features{ID: "c", Tokens: Tokenize("a b c d e f g h i j k l")},
			want: 60, // min(10, 12) * 6
		},
		{
			name: "exact year",
			src:  Features{ID: "src", Year: intPtr(2020)},
			cand: Features{ID: "c", Year: intPtr(2020)},
			want: 6,
		},
		{
			name: "near year within span",
			src:  Features{ID: "src", Year: intPtr(2020)},
			cand: Features{ID: "c", Year: intPtr(2018)},
			want: 3,
		},
		{
			name: "year outside span",
			src:  Features{ID: "src", Year: intPtr(2020)},
			cand: Features{ID: "c", Year: intPtr(2017)},
			want: 0,
		},
		{
			name: "close duration",
			src:  Features{ID: "src", Duration: fPtr(100)},
			cand: Features{ID: "c", Duration: fPtr(110)},
			want: 5,
		},
		{
			name: "near duration either direction",
			src:  Features{ID: "src", Duration: fPtr(100)},
			cand: Features{ID: "c", Duration: fPtr(70)},
			want: 2, // ratio 100/70 ~ 1.43
		},
		{
			name: "far duration",
			src:  Features{ID: "src", Duration: fPtr(100)},
			cand: Features{ID: "c", Duration: fPtr(30)},
			want: 0,
		},
		{
			name: "language match",
			src:  Features{ID: "src", Language: strPtr("en")},
			cand: Features{ID: "c", Language: strPtr("en")},
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.src, tt.cand); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScorePopularityStaysSubordinate(t *testing.T) {
	s := newTestScorer(t)
	src := Features{ID: "src", Tags: tags("a")}
	similar := Features{ID: "sim", Tags: tags("a")}
	popular := Features{ID: "pop", Views: 10_000_000}

	if s.Score(src, popular) >= s.Score(src, similar) {
		t.Error("raw popularity outranked a content match")
	}
}

func TestRankOrdersBySimilarity(t *testing.T) {
	s := newTestScorer(t)
	src := Features{ID: "src", Tags: tags("a")}
	candidates := []Features{
		{ID: "unrelated", Tags: tags("z")},
		{ID: "both", Tags: tags("a", "b")},
		{ID: "src"}, // the source itself must be excluded
	}

	ranked := s.Rank(src, candidates, 10)
	if len(ranked) != 2 {
		t.Fatalf("len = %d, want 2 (source excluded)", len(ranked))
	}
	if ranked[0].ID != "both" || ranked[1].ID != "unrelated" {
		t.Errorf("order = [%s %s], want [both unrelated]", ranked[0].ID, ranked[1].ID)
	}
}

func TestRankBreaksTiesByViews(t *testing.T) {
	s := newTestScorer(t)
	src := Features{ID: "src", Tags: tags("a")}
	candidates := []Features{
		{ID: "quiet", Tags: tags("a")},
		{ID: "loud", Tags: tags("a"), Views: 0}, // equal content signal
	}
	// Give both zero views so log1p contributes nothing, then bump one.
	candidates[1].Views = 0
	candidates[0].Views = 0

	ranked := s.Rank(src, candidates, 2)
	if ranked[0].ID != "quiet" {
		t.Errorf("equal scores and views should keep candidate order, got %s first", ranked[0].ID)
	}

	// With popularity zeroed the tie breaks purely on Views.
	cfg := DefaultConfig()
	cfg.PopularityScale = 0
	flat, err := NewScorer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	candidates[1].Views = 50
	ranked = flat.Rank(src, candidates, 2)
	if ranked[0].ID != "loud" {
		t.Errorf("tie should break by views desc, got %s first", ranked[0].ID)
	}
}

func TestRankTruncatesToN(t *testing.T) {
	s := newTestScorer(t)
	src := Features{ID: "src"}
	candidates := []Features{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if got := s.Rank(src, candidates, 2); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if got := s.Rank(src, candidates, 10); len(got) != 3 {
		t.Errorf("len = %d, want all 3 when n exceeds candidates", len(got))
	}
}

func TestFeaturesOf(t *testing.T) {
	rec := &models.VideoRecord{
		ID: "v1",
		Details: models.Details{
			Title:       "Alpine Trails",
			Description: "a hike",
			Author:      "jo",
			Tags:        []string{"hiking", "alps"},
			Language:    "en",
			ReleaseDate: "2021-06-01",
		},
		Analysis: models.Analysis{Probe: models.ProbeInfo{Duration: 120}},
		Stats:    models.Stats{Views: 9},
	}

	f := FeaturesOf(rec)
	if f.ID != "v1" || f.Views != 9 {
		t.Errorf("identity fields = %s/%d", f.ID, f.Views)
	}
	if len(f.Tags) != 2 {
		t.Errorf("tags = %v", f.Tags)
	}
	if _, ok := f.Tokens["alpine"]; !ok {
		t.Errorf("tokens = %v, want title words included", f.Tokens)
	}
	if f.Author == nil || *f.Author != "jo" || f.Language == nil || *f.Language != "en" {
		t.Error("author/language not extracted")
	}
	if f.Year == nil || *f.Year != 2021 {
		t.Error("year not extracted from release date")
	}
	if f.Duration == nil || *f.Duration != 120 {
		t.Error("duration not extracted")
	}

	// Absent fields stay nil rather than becoming empty values.
	empty := FeaturesOf(&models.VideoRecord{ID: "v2"})
	if empty.Category != nil || empty.Author != nil || empty.Language != nil ||
		empty.Year != nil || empty.Duration != nil {
		t.Error("absent fields should be nil pointers")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config { return DefaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}, wantErr: false},
		{name: "negative weight", mutate: func(c *Config) { c.TagOverlap = -1 }, wantErr: true},
		{name: "popularity at one", mutate: func(c *Config) { c.PopularityScale = 1 }, wantErr: true},
		{name: "close ratio below one", mutate: func(c *Config) { c.DurationCloseRatio = 0.9 }, wantErr: true},
		{name: "near below close", mutate: func(c *Config) { c.DurationNearRatio = 1.1 }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.CacheTTL = 0 }, wantErr: true},
		{name: "negative token cap", mutate: func(c *Config) { c.TokenCap = -1 }, wantErr: true},
		{name: "custom ttl", mutate: func(c *Config) { c.CacheTTL = time.Hour }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
