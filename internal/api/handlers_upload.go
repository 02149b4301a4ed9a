// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package api

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/avbell/vidarium/internal/ingest"
)

// maxDetailsPartBytes bounds the metadata part of an upload. The video part
// itself is streamed and not bounded here.
const maxDetailsPartBytes = 64 << 10

// Upload handles POST /api/upload.
//
// The request is multipart/form-data with a "details" part (JSON metadata)
// followed by a "file" part holding the video bytes. The parts must arrive
// in that order so the file can be streamed into the pipeline without
// buffering. The response is an NDJSON stream of progress events, flushed
// per event; the HTTP status is always 200 and the terminal event carries
// the outcome.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "multipart body required")
		return
	}

	details, err := readDetailsPart(mr)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	part, err := nextFilePart(mr)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	defer part.Close()

	fields := ingest.UploadFields{
		FileName: part.FileName(),
		MimeType: partMimeType(part),
		Details:  detailsFromRequest(details),
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	enc := json.NewEncoder(w)
	for ev := range h.pipeline.Ingest(r.Context(), part, fields) {
		if err := enc.Encode(ev); err != nil {
			// Client went away; the pipeline observes the request context
			// and cleans up on its own.
			h.logger.Debug().Err(err).Msg("upload progress stream closed")
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// readDetailsPart reads the leading "details" part and validates it.
func readDetailsPart(mr *multipart.Reader) (DetailsRequest, error) {
	var req DetailsRequest
	part, err := mr.NextPart()
	if err != nil {
		return req, fmt.Errorf("missing details part: %w", err)
	}
	defer part.Close()
	if part.FormName() != "details" {
		return req, fmt.Errorf("first part must be %q, got %q", "details", part.FormName())
	}
	if err := json.NewDecoder(io.LimitReader(part, maxDetailsPartBytes)).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid details part: %w", err)
	}
	if err := validateStruct(&req); err != nil {
		return req, err
	}
	return req, nil
}

// nextFilePart advances to the "file" part. The part is returned unread so
// the caller can stream it.
func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	part, err := mr.NextPart()
	if err != nil {
		return nil, fmt.Errorf("missing file part: %w", err)
	}
	if part.FormName() != "file" {
		part.Close()
		return nil, fmt.Errorf("second part must be %q, got %q", "file", part.FormName())
	}
	return part, nil
}

// partMimeType extracts the declared content type of the file part. The
// pipeline re-validates it against the accepted set.
func partMimeType(part *multipart.Part) string {
	ct := part.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return parsed
}
