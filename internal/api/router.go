// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the API routes. No auth middleware: the service is
// single-user and self-hosted.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Post("/search", h.Search)
		r.Get("/facets", h.Facets)
		r.Get("/history", h.History)

		r.Route("/video/{id}", func(r chi.Router) {
			r.Get("/", h.Video)
			r.Put("/", h.UpdateDetails)
			r.Delete("/", h.RemoveVideo)
		})

		r.Post("/like/{id}", h.Like)
		r.Post("/dislike/{id}", h.Dislike)
		r.Post("/watch/{id}", h.Watch)

		r.Route("/list", func(r chi.Router) {
			r.Get("/", h.Playlists)
			r.Post("/new", h.PlaylistCreate)
			r.Get("/of/{videoId}", h.PlaylistsContaining)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Playlist)
				r.Delete("/", h.PlaylistDelete)
				r.Post("/rename", h.PlaylistRename)
				r.Post("/add", h.PlaylistAdd)
				r.Post("/rmv", h.PlaylistRemove)
			})
		})
	})

	return r
}
