// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package catalog

import (
	"fmt"
	"testing"

	"github.com/avbell/vidarium/internal/models"
)

func TestFacetsCountAndSort(t *testing.T) {
	c := newTestCatalog(t)
	mustRegister(t, c, testRecord("v1", models.Details{
		Title: "a", Author: "jo", Category: "travel",
		Tags: []string{"hiking", "alps"}, Language: "en", ReleaseDate: "2020-05-01",
	}))
	mustRegister(t, c, testRecord("v2", models.Details{
		Title: "b", Author: "jo", Category: "food",
		Tags: []string{"hiking"}, Language: "de", ReleaseDate: "2021-02-01",
	}))
	mustRegister(t, c, testRecord("v3", models.Details{
		Title: "c", Author: "ann", ReleaseDate: "2020-11-01",
	}))

	if got := c.Authors(); fmt.Sprint(got) != fmt.Sprint([]Facet{{Value: "ann", Count: 1}, {Value: "jo", Count: 2}}) {
		t.Errorf("Authors() = %v", got)
	}
	if got := c.Categories(); fmt.Sprint(got) != fmt.Sprint([]Facet{{Value: "food", Count: 1}, {Value: "travel", Count: 1}}) {
		t.Errorf("Categories() = %v", got)
	}
	if got := c.Tags(); fmt.Sprint(got) != fmt.Sprint([]Facet{{Value: "alps", Count: 1}, {Value: "hiking", Count: 2}}) {
		t.Errorf("Tags() = %v", got)
	}
	if got := c.Languages(); fmt.Sprint(got) != fmt.Sprint([]Facet{{Value: "de", Count: 1}, {Value: "en", Count: 1}}) {
		t.Errorf("Languages() = %v", got)
	}
	// Years come newest first, unlike the value-sorted facets.
	if got := c.Years(); fmt.Sprint(got) != fmt.Sprint([]Facet{{Value: "2021", Count: 1}, {Value: "2020", Count: 2}}) {
		t.Errorf("Years() = %v", got)
	}
}

func TestFacetsTrackRemoval(t *testing.T) {
	c := newTestCatalog(t)
	mustRegister(t, c, testRecord("v1", models.Details{Title: "a", Author: "jo", Tags: []string{"hiking"}}))
	mustRegister(t, c, testRecord("v2", models.Details{Title: "b", Author: "jo"}))

	if err := c.Remove("v1"); err != nil {
		t.Fatal(err)
	}

	// jo still has one video; the hiking bucket is gone entirely.
	if got := c.Authors(); fmt.Sprint(got) != fmt.Sprint([]Facet{{Value: "jo", Count: 1}}) {
		t.Errorf("Authors() = %v", got)
	}
	if got := c.Tags(); len(got) != 0 {
		t.Errorf("Tags() = %v, want empty after last reference removed", got)
	}
}

func TestFacetsEmptyCatalog(t *testing.T) {
	c := newTestCatalog(t)
	if got := c.Authors(); len(got) != 0 {
		t.Errorf("Authors() = %v, want empty", got)
	}
	if got := c.Years(); len(got) != 0 {
		t.Errorf("Years() = %v, want empty", got)
	}
}
