// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avbell/vidarium/internal/models"
)

// PlaylistCreate handles POST /api/list/new.
func (h *Handlers) PlaylistCreate(w http.ResponseWriter, r *http.Request) {
	var req PlaylistCreateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	list, err := h.playlists.Create(req.Name)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, list)
}

// Playlists handles GET /api/list.
func (h *Handlers) Playlists(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.playlists.All())
}

// PlaylistResponse is one playlist with its ids resolved to records.
// Deleted videos are dropped from Videos but remain in the record's id
// list until explicitly removed.
type PlaylistResponse struct {
	Playlist *models.PlaylistRecord `json:"playlist"`
	Videos   []*models.VideoRecord  `json:"videos"`
}

// Playlist handles GET /api/list/{id}.
func (h *Handlers) Playlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	list := h.playlists.Get(id)
	if list == nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "unknown playlist")
		return
	}
	respondSuccess(w, PlaylistResponse{
		Playlist: list,
		Videos:   h.playlists.Resolve(id, h.catalog),
	})
}

// PlaylistRename handles POST /api/list/{id}/rename.
func (h *Handlers) PlaylistRename(w http.ResponseWriter, r *http.Request) {
	var req PlaylistRenameRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.playlists.Rename(id, req.Name); err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, h.playlists.Get(id))
}

// PlaylistDelete handles DELETE /api/list/{id}.
func (h *Handlers) PlaylistDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.playlists.Delete(id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, map[string]string{"id": id})
}

// PlaylistAdd handles POST /api/list/{id}/add.
func (h *Handlers) PlaylistAdd(w http.ResponseWriter, r *http.Request) {
	h.playlistMutation(w, r, h.playlists.AddVideo)
}

// PlaylistRemove handles POST /api/list/{id}/rmv.
func (h *Handlers) PlaylistRemove(w http.ResponseWriter, r *http.Request) {
	h.playlistMutation(w, r, h.playlists.RemoveVideo)
}

func (h *Handlers) playlistMutation(w http.ResponseWriter, r *http.Request, fn func(listID, videoID string) error) {
	var req PlaylistVideoRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if err := fn(id, req.VideoID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, h.playlists.Get(id))
}

// PlaylistsContaining handles GET /api/list/of/{videoId}: every playlist
// that references the video.
func (h *Handlers) PlaylistsContaining(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.playlists.Containing(chi.URLParam(r, "videoId")))
}
