// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// validate is the shared, concurrency-safe validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Text   string        `json:"text" validate:"max=512"`
	Filter SearchFilters `json:"filter"`
	Sort   string        `json:"sort" validate:"omitempty,oneof=relevance date views rating duration title"`
	Order  string        `json:"order" validate:"omitempty,oneof=asc desc"`
	Offset int           `json:"offset" validate:"min=0"`
	Limit  int           `json:"limit" validate:"min=0,max=96"`
}

// SearchFilters are the optional exact-match constraints of a search.
type SearchFilters struct {
	Author         string `json:"author" validate:"max=256"`
	Category       string `json:"category" validate:"max=256"`
	Tag            string `json:"tag" validate:"max=256"`
	Year           int    `json:"year" validate:"min=0,max=9999"`
	ParentalRating string `json:"pg" validate:"max=32"`
	Language       string `json:"lang" validate:"max=32"`
}

// DetailsRequest carries the descriptive fields of a video, both as the
// metadata part of an upload and as the body of a details update.
type DetailsRequest struct {
	Title          string   `json:"title" validate:"required,max=512"`
	Author         string   `json:"author" validate:"max=256"`
	Source         string   `json:"source" validate:"max=1024"`
	Description    string   `json:"description" validate:"max=8192"`
	Category       string   `json:"category" validate:"max=256"`
	Tags           []string `json:"tags" validate:"max=64,dive,max=128"`
	ParentalRating string   `json:"pg" validate:"max=32"`
	Language       string   `json:"lang" validate:"max=32"`
	ReleaseDate    string   `json:"date" validate:"omitempty,max=32"`
}

// PlaylistCreateRequest is the body of POST /api/list/new.
type PlaylistCreateRequest struct {
	Name string `json:"name" validate:"required,max=256"`
}

// PlaylistRenameRequest is the body of POST /api/list/{id}/rename.
type PlaylistRenameRequest struct {
	Name string `json:"name" validate:"required,max=256"`
}

// PlaylistVideoRequest names the video of an add/remove mutation.
type PlaylistVideoRequest struct {
	VideoID string `json:"videoId" validate:"required,max=64"`
}

// decodeAndValidate unmarshals the request body into dst and runs struct
// validation. The returned error message is safe to echo to the client.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validateStruct(dst)
}

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
	}
	return err
}
