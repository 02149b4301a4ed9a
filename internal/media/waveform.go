// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package media

import (
	"encoding/binary"
	"math"
)

// decodeSamples converts raw little-endian signed 16-bit mono PCM into
// absolute amplitudes. A trailing odd byte is ignored.
func decodeSamples(pcm []byte) []int {
	n := len(pcm) / 2
	samples := make([]int, n)
	for i := 0; i < n; i++ {
		v := int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
		if v < 0 {
			v = -v
		}
		samples[i] = v
	}
	return samples
}

// reduceWaveform collapses absolute amplitudes into exactly targetPoints
// integers in [0,100].
//
// The sample sequence is partitioned into contiguous groups of
// ceil(sampleCount/targetPoints) samples, each group is averaged, and the
// averages are normalized by their maximum and scaled to [0,100] with
// integer rounding. The result is zero-padded or truncated to exactly
// targetPoints. The playback UI renders this shape directly, so the group
// sizing and normalization must not drift.
func reduceWaveform(samples []int, targetPoints int) []int {
	if targetPoints <= 0 {
		return nil
	}

	points := make([]float64, 0, targetPoints)
	if len(samples) > 0 {
		groupSize := (len(samples) + targetPoints - 1) / targetPoints
		if groupSize < 1 {
			groupSize = 1
		}
		for i := 0; i < len(samples); i += groupSize {
			end := i + groupSize
			if end > len(samples) {
				end = len(samples)
			}
			sum := 0
			for _, s := range samples[i:end] {
				sum += s
			}
			points = append(points, float64(sum)/float64(end-i))
		}
	}

	maxAvg := 0.0
	for _, p := range points {
		if p > maxAvg {
			maxAvg = p
		}
	}

	out := make([]int, targetPoints)
	if maxAvg <= 0 {
		return out
	}
	for i, p := range points {
		if i >= targetPoints {
			break
		}
		out[i] = int(math.Round(p / maxAvg * 100))
	}
	return out
}
