// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package catalog

import (
	"sort"
	"strconv"
)

// Facet is one distinct field value with its video count, for building
// search filter choices.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Authors lists every distinct author with its video count, sorted by value.
func (c *Catalog) Authors() []Facet { return c.facetsOf(authorIndex) }

// Categories lists every distinct category with its video count.
func (c *Catalog) Categories() []Facet { return c.facetsOf(categoryIndex) }

// Tags lists every distinct tag with its video count.
func (c *Catalog) Tags() []Facet { return c.facetsOf(tagIndex) }

// ParentalRatings lists every distinct parental-rating code with its count.
func (c *Catalog) ParentalRatings() []Facet { return c.facetsOf(parentalIndex) }

// Languages lists every distinct language code with its count.
func (c *Catalog) Languages() []Facet { return c.facetsOf(languageIndex) }

// Years lists every distinct release year with its video count, newest
// first. Years are derived from records rather than an index bucket.
func (c *Catalog) Years() []Facet {
	counts := make(map[int]int)
	c.store.View(func(doc *document) {
		for _, rec := range doc.Videos {
			if year := rec.Details.ReleaseYear(); year != 0 {
				counts[year]++
			}
		}
	})

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	out := make([]Facet, len(years))
	for i, y := range years {
		out[i] = Facet{Value: strconv.Itoa(y), Count: counts[y]}
	}
	return out
}

func (c *Catalog) facetsOf(index indexSelector) []Facet {
	var out []Facet
	c.store.View(func(doc *document) {
		m := index(doc)
		out = make([]Facet, 0, len(m))
		for value, ids := range m {
			out = append(out, Facet{Value: value, Count: len(ids)})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
