// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/avbell/vidarium/internal/models"
)

// FFmpegConfig configures the ffprobe/ffmpeg analyzer.
type FFmpegConfig struct {
	// FFmpegPath is the ffmpeg binary. Default: "ffmpeg" from PATH.
	FFmpegPath string

	// FFprobePath is the ffprobe binary. Default: "ffprobe" from PATH.
	FFprobePath string

	// Timeout bounds each tool invocation. Zero means block until the tool
	// completes or errors, which is the default behavior.
	Timeout time.Duration
}

// FFmpegAnalyzer implements Analyzer by shelling out to ffprobe and ffmpeg.
type FFmpegAnalyzer struct {
	cfg    FFmpegConfig
	runner Runner
	logger zerolog.Logger
}

// NewFFmpegAnalyzer creates an analyzer with the given tool configuration.
func NewFFmpegAnalyzer(cfg FFmpegConfig, runner Runner, logger zerolog.Logger) *FFmpegAnalyzer {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if runner == nil {
		runner = NewCommandRunner()
	}
	return &FFmpegAnalyzer{
		cfg:    cfg,
		runner: runner,
		logger: logger.With().Str("component", "media").Logger(),
	}
}

// ffprobeOutput mirrors the subset of `ffprobe -print_format json` we read.
type ffprobeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width,omitempty"`
		Height     int    `json:"height,omitempty"`
		RFrameRate string `json:"r_frame_rate,omitempty"`
		Channels   int    `json:"channels,omitempty"`
		SampleRate string `json:"sample_rate,omitempty"`
		Duration   string `json:"duration,omitempty"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
}

func (a *FFmpegAnalyzer) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// Probe runs ffprobe and normalizes format and primary-stream metadata.
func (a *FFmpegAnalyzer) Probe(ctx context.Context, path string) (models.ProbeInfo, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	out, err := a.runner.Run(ctx, a.cfg.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return models.ProbeInfo{}, fmt.Errorf("ffprobe: %w", err)
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return models.ProbeInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := models.ProbeInfo{}
	info.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)
	info.Size, _ = strconv.ParseInt(probed.Format.Size, 10, 64)
	info.Bitrate, _ = strconv.ParseInt(probed.Format.BitRate, 10, 64)

	for _, stream := range probed.Streams {
		switch stream.CodecType {
		case "video":
			if info.Video.Codec != "" {
				continue
			}
			info.Video.Codec = stream.CodecName
			info.Video.Width = stream.Width
			info.Video.Height = stream.Height
			info.Video.FPS = parseFrameRate(stream.RFrameRate)
			if info.Duration == 0 && stream.Duration != "" {
				info.Duration, _ = strconv.ParseFloat(stream.Duration, 64)
			}
		case "audio":
			if info.Audio.Codec != "" {
				continue
			}
			info.Audio.Codec = stream.CodecName
			info.Audio.Channels = stream.Channels
			info.Audio.SampleRate, _ = strconv.Atoi(stream.SampleRate)
		}
	}
	return info, nil
}

// parseFrameRate evaluates ffprobe's rational frame rate ("30000/1001").
func parseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// Waveform decodes the audio to mono s16le PCM at a sample rate chosen so
// the total sample count approximates targetPoints, then reduces the
// amplitudes to exactly targetPoints normalized integers.
func (a *FFmpegAnalyzer) Waveform(ctx context.Context, path string, duration float64, targetPoints int) ([]int, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	sampleRate := 1
	if duration > 0 {
		sampleRate = int(math.Round(float64(targetPoints) / duration))
		if sampleRate < 1 {
			sampleRate = 1
		}
	}

	pcm, err := a.runner.Run(ctx, a.cfg.FFmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "s16le",
		"pipe:1",
	)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg waveform: %w", err)
	}

	return reduceWaveform(decodeSamples(pcm), targetPoints), nil
}

// Poster extracts a single frame at timeOffset seconds into outPath.
func (a *FFmpegAnalyzer) Poster(ctx context.Context, path string, timeOffset float64, outPath string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if timeOffset < 0 {
		timeOffset = 0
	}
	_, err := a.runner.Run(ctx, a.cfg.FFmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-ss", fmt.Sprintf("%.2f", timeOffset),
		"-i", path,
		"-frames:v", "1",
		"-vf", "scale=512:-1",
		"-q:v", "2",
		outPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg poster: %w", err)
	}
	return nil
}

// PreviewSequence extracts evenly spaced scrubber thumbnails into outDir.
// The inter-thumbnail interval grows with duration so the count stays capped
// at maxCount.
func (a *FFmpegAnalyzer) PreviewSequence(ctx context.Context, path string, duration float64, maxCount int, outDir string) ([]string, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if maxCount <= 0 {
		return nil, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outDir, err)
	}

	interval := 1
	if duration > 0 {
		interval = int(math.Round(duration / float64(maxCount)))
		if interval < 1 {
			interval = 1
		}
	}

	pattern := filepath.Join(outDir, "thumb_%04d.jpg")
	_, err := a.runner.Run(ctx, a.cfg.FFmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vf", fmt.Sprintf("fps=1/%d,scale=256:-1", interval),
		"-q:v", "2",
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg previews: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", outDir, err)
	}
	var thumbs []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "thumb_") && strings.HasSuffix(name, ".jpg") {
			thumbs = append(thumbs, name)
		}
	}
	sort.Strings(thumbs)
	// ffmpeg can emit one frame past the cap on exact-multiple durations.
	if len(thumbs) > maxCount {
		for _, extra := range thumbs[maxCount:] {
			if rmErr := os.Remove(filepath.Join(outDir, extra)); rmErr != nil {
				a.logger.Warn().Err(rmErr).Str("file", extra).Msg("failed to remove excess preview frame")
			}
		}
		thumbs = thumbs[:maxCount]
	}
	return thumbs, nil
}
