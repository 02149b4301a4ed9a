// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/avbell/vidarium/internal/catalog"
	"github.com/avbell/vidarium/internal/ingest"
	"github.com/avbell/vidarium/internal/models"
	"github.com/avbell/vidarium/internal/playlist"
)

// Handlers bundles the domain dependencies of the HTTP surface.
type Handlers struct {
	catalog   *catalog.Catalog
	history   *catalog.History
	playlists *playlist.Store
	pipeline  *ingest.Pipeline
	logger    zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(cat *catalog.Catalog, hist *catalog.History, lists *playlist.Store, pipe *ingest.Pipeline, logger zerolog.Logger) *Handlers {
	return &Handlers{
		catalog:   cat,
		history:   hist,
		playlists: lists,
		pipeline:  pipe,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Search handles POST /api/search.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	result := h.catalog.Search(catalog.Query{
		Text: req.Text,
		Filters: catalog.Filters{
			Author:         req.Filter.Author,
			Category:       req.Filter.Category,
			Tag:            req.Filter.Tag,
			Year:           req.Filter.Year,
			ParentalRating: req.Filter.ParentalRating,
			Language:       req.Filter.Language,
		},
		Sort:   req.Sort,
		Order:  req.Order,
		Offset: req.Offset,
		Limit:  req.Limit,
	})
	respondSuccess(w, result)
}

// Video handles GET /api/video/{id}.
func (h *Handlers) Video(w http.ResponseWriter, r *http.Request) {
	rec := h.catalog.Video(chi.URLParam(r, "id"))
	if rec == nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "unknown video")
		return
	}
	respondSuccess(w, rec)
}

// UpdateDetails handles PUT /api/video/{id}.
func (h *Handlers) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req DetailsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.catalog.UpdateDetails(id, detailsFromRequest(req)); err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, h.catalog.Video(id))
}

// RemoveVideo handles DELETE /api/video/{id}. The catalog record and its
// index references are removed; playlist entries pointing at the id become
// dangling and are dropped lazily on resolution.
func (h *Handlers) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.Remove(id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.logger.Info().Str("video_id", id).Msg("video removed")
	respondSuccess(w, map[string]string{"id": id})
}

// Like handles POST /api/like/{id}.
func (h *Handlers) Like(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.catalog.Like)
}

// Dislike handles POST /api/dislike/{id}.
func (h *Handlers) Dislike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.catalog.Dislike)
}

func (h *Handlers) vote(w http.ResponseWriter, r *http.Request, fn func(string) (float64, error)) {
	rating, err := fn(chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, map[string]float64{"rating": rating})
}

// WatchResponse is the payload of the watch-registration endpoint: the
// record being watched, its suggestions, and optional playlist neighbors.
type WatchResponse struct {
	Video     *models.VideoRecord    `json:"video"`
	Suggested []*models.VideoRecord  `json:"suggested"`
	Previous  string                 `json:"previous,omitempty"`
	Next      string                 `json:"next,omitempty"`
	Playlist  *models.PlaylistRecord `json:"playlist,omitempty"`
}

// suggestedCount is the number of recommendations returned on the watch path.
const suggestedCount = 4

// Watch handles POST /api/watch/{id}: appends to history, counts the view
// unless it repeats the previous history entry, and returns the record with
// its suggestions. An optional ?list= query selects playlist navigation.
func (h *Handlers) Watch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec := h.catalog.Video(id)
	if rec == nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "unknown video")
		return
	}

	appended, err := h.history.Append(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if appended {
		if err := h.catalog.AddView(id); err != nil {
			respondDomainError(w, err)
			return
		}
		// Re-read so the response carries the incremented view count.
		rec = h.catalog.Video(id)
	}

	resp := WatchResponse{
		Video:     rec,
		Suggested: h.catalog.Suggested(id, suggestedCount),
	}
	if listID := r.URL.Query().Get("list"); listID != "" {
		if list := h.playlists.Get(listID); list != nil {
			resp.Playlist = list
			resp.Previous, resp.Next = h.playlists.Neighbors(listID, id)
		}
	}
	respondSuccess(w, resp)
}

// History handles GET /api/history: the distinct most-recently-watched ids
// resolved to records, deleted videos dropped.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "limit", catalog.DefaultLimit)
	if n < 1 || n > catalog.MaxLimit {
		n = catalog.DefaultLimit
	}
	respondSuccess(w, h.catalog.Videos(h.history.Recent(n)))
}

// FacetsResponse enumerates the distinct values of every filterable field.
type FacetsResponse struct {
	Authors         []catalog.Facet `json:"authors"`
	Categories      []catalog.Facet `json:"categories"`
	Tags            []catalog.Facet `json:"tags"`
	Years           []catalog.Facet `json:"years"`
	ParentalRatings []catalog.Facet `json:"parentalRatings"`
	Languages       []catalog.Facet `json:"languages"`
}

// Facets handles GET /api/facets.
func (h *Handlers) Facets(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, FacetsResponse{
		Authors:         h.catalog.Authors(),
		Categories:      h.catalog.Categories(),
		Tags:            h.catalog.Tags(),
		Years:           h.catalog.Years(),
		ParentalRatings: h.catalog.ParentalRatings(),
		Languages:       h.catalog.Languages(),
	})
}

func detailsFromRequest(req DetailsRequest) models.Details {
	return models.Details{
		Title:          req.Title,
		Author:         req.Author,
		Source:         req.Source,
		Description:    req.Description,
		Category:       req.Category,
		Tags:           req.Tags,
		ParentalRating: req.ParentalRating,
		Language:       req.Language,
		ReleaseDate:    req.ReleaseDate,
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
