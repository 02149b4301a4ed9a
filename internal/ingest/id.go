// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package ingest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// videoIDBytes gives 8 hex characters: short enough for URLs, wide enough
// that collisions are generation retries, not data corruption.
const videoIDBytes = 4

// freshID generates a video id that is not present in the catalog. Ids are
// short, so birthday collisions are expected over the catalog's lifetime;
// generation retries until the candidate is absent rather than assuming
// uniqueness. Register re-checks under the write lock.
func (p *Pipeline) freshID() string {
	for {
		id := randomID()
		if p.catalog.Video(id) == nil {
			return id
		}
		p.logger.Debug().Str("video_id", id).Msg("id collision, regenerating")
	}
}

func randomID() string {
	var b [videoIDBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("ingest: read random bytes: %v", err))
	}
	return hex.EncodeToString(b[:])
}
