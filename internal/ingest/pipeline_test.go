// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/avbell/vidarium/internal/catalog"
	"github.com/avbell/vidarium/internal/models"
)

// fakeAnalyzer returns canned analysis results, optionally failing a chosen
// stage.
type fakeAnalyzer struct {
	failStage models.Phase
	duration  float64
}

var errStage = errors.New("stage blew up")

func (f *fakeAnalyzer) Probe(_ context.Context, _ string) (models.ProbeInfo, error) {
	if f.failStage == models.PhaseProbe {
		return models.ProbeInfo{}, errStage
	}
	d := f.duration
	if d == 0 {
		d = 90
	}
	return models.ProbeInfo{
		Duration: d,
		Video:    models.VideoStreamInfo{Codec: "h264", Width: 1280, Height: 720, FPS: 30},
		Audio:    models.AudioStreamInfo{Codec: "aac", Channels: 2, SampleRate: 48000},
	}, nil
}

func (f *fakeAnalyzer) Waveform(_ context.Context, _ string, _ float64, targetPoints int) ([]int, error) {
	if f.failStage == models.PhaseWaveform {
		return nil, errStage
	}
	return make([]int, targetPoints), nil
}

func (f *fakeAnalyzer) Poster(_ context.Context, _ string, _ float64, outPath string) error {
	if f.failStage == models.PhasePoster {
		return errStage
	}
	return os.WriteFile(outPath, []byte("jpg"), 0o644)
}

func (f *fakeAnalyzer) PreviewSequence(_ context.Context, _ string, _ float64, _ int, outDir string) ([]string, error) {
	if f.failStage == models.PhasePreview {
		return nil, errStage
	}
	name := "thumb_0001.jpg"
	if err := os.WriteFile(filepath.Join(outDir, name), []byte("jpg"), 0o644); err != nil {
		return nil, err
	}
	return []string{name}, nil
}

func newTestPipeline(t *testing.T, analyzer *fakeAnalyzer) (*Pipeline, *catalog.Catalog, string) {
	t.Helper()
	root := t.TempDir()
	mediaDir := filepath.Join(root, "media")
	cat, err := catalog.Open(filepath.Join(root, "catalog.json"), nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	p := New(Config{
		MediaDir:       mediaDir,
		TmpDir:         filepath.Join(root, "tmp"),
		WaveformPoints: 16,
	}, cat, analyzer, zerolog.Nop())
	return p, cat, mediaDir
}

func collect(t *testing.T, events <-chan models.ProgressEvent) []models.ProgressEvent {
	t.Helper()
	var out []models.ProgressEvent
	for ev := range events {
		out = append(out, ev)
	}
	if len(out) == 0 {
		t.Fatal("event feed closed without any event")
	}
	return out
}

func testFields(title string) UploadFields {
	return UploadFields{
		FileName: "clip.mp4",
		MimeType: "video/mp4",
		Details:  models.Details{Title: title},
	}
}

func TestIngestHappyPath(t *testing.T) {
	p, cat, mediaDir := newTestPipeline(t, &fakeAnalyzer{})

	events := collect(t, p.Ingest(context.Background(), strings.NewReader("video-bytes"), testFields("First")))

	// Strict phase order with non-decreasing progress, terminal last.
	wantPhases := []models.Phase{
		models.PhaseSaved, models.PhaseProbe, models.PhaseWaveform,
		models.PhasePoster, models.PhasePreview, models.PhaseDone,
	}
	if len(events) != len(wantPhases) {
		t.Fatalf("got %d events %v, want %d", len(events), events, len(wantPhases))
	}
	last := 0
	for i, ev := range events {
		if ev.Phase != wantPhases[i] {
			t.Errorf("event[%d].Phase = %s, want %s", i, ev.Phase, wantPhases[i])
		}
		if ev.Progress < last {
			t.Errorf("progress went backwards: %d after %d", ev.Progress, last)
		}
		last = ev.Progress
		if ev.Terminal() != (i == len(events)-1) {
			t.Errorf("event[%d] terminal = %v", i, ev.Terminal())
		}
	}

	done := events[len(events)-1]
	if done.Progress != 100 || done.VideoID == "" {
		t.Fatalf("done event = %+v", done)
	}

	rec := cat.Video(done.VideoID)
	if rec == nil {
		t.Fatal("no catalog record after done event")
	}
	if rec.Details.Title != "First" || rec.MimeType != "video/mp4" {
		t.Errorf("record fields = %+v", rec)
	}
	if rec.Analysis.Probe.Duration != 90 || len(rec.Analysis.Waveform) != 16 {
		t.Errorf("analysis = %+v", rec.Analysis)
	}
	if rec.Analysis.Poster != "poster.jpg" || len(rec.Analysis.Previews) != 1 {
		t.Errorf("artifacts = %+v", rec.Analysis)
	}
	if rec.ContentHash == "" || rec.AssetID == "" {
		t.Error("hash or asset id missing")
	}
	if !strings.HasSuffix(rec.FileName, ".mp4") || strings.Contains(rec.FileName, "clip") {
		t.Errorf("stored file name %q should be assetId-based with the original extension", rec.FileName)
	}

	// The stored layout: media/<id>/<file>, poster and thumb dir beside it.
	videoDir := filepath.Join(mediaDir, done.VideoID)
	for _, f := range []string{rec.FileName, "poster.jpg", filepath.Join("thumb", "thumb_0001.jpg")} {
		if _, err := os.Stat(filepath.Join(videoDir, f)); err != nil {
			t.Errorf("missing artifact %s: %v", f, err)
		}
	}
}

func TestIngestDuplicateShortCircuits(t *testing.T) {
	p, cat, _ := newTestPipeline(t, &fakeAnalyzer{})

	first := collect(t, p.Ingest(context.Background(), strings.NewReader("same-bytes"), testFields("One")))
	firstID := first[len(first)-1].VideoID

	second := collect(t, p.Ingest(context.Background(), strings.NewReader("same-bytes"), testFields("Two")))
	if len(second) != 1 {
		t.Fatalf("duplicate upload emitted %d events %v, want 1", len(second), second)
	}
	ev := second[0]
	if ev.Phase != models.PhaseDuplicate || !ev.Duplicate || ev.VideoID != firstID {
		t.Errorf("duplicate event = %+v, want duplicate pointing at %s", ev, firstID)
	}
	if cat.Size() != 1 {
		t.Errorf("catalog size = %d after duplicate, want 1", cat.Size())
	}

	// Different bytes with the same metadata are not duplicates.
	third := collect(t, p.Ingest(context.Background(), strings.NewReader("other-bytes"), testFields("One")))
	if third[len(third)-1].Phase != models.PhaseDone {
		t.Errorf("distinct content treated as duplicate: %+v", third[len(third)-1])
	}
}

func TestIngestValidationRejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name   string
		fields UploadFields
	}{
		{name: "missing file name", fields: UploadFields{MimeType: "video/mp4"}},
		{name: "non-video type", fields: UploadFields{FileName: "x.pdf", MimeType: "application/pdf"}},
		{name: "empty type", fields: UploadFields{FileName: "x.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, cat, _ := newTestPipeline(t, &fakeAnalyzer{})
			events := collect(t, p.Ingest(context.Background(), strings.NewReader("bytes"), tt.fields))

			if len(events) != 1 || events[0].Phase != models.PhaseError {
				t.Fatalf("events = %v, want single error event", events)
			}
			if events[0].Stage != models.PhaseReceived {
				t.Errorf("error stage = %s, want received", events[0].Stage)
			}
			if cat.Size() != 0 {
				t.Error("catalog mutated by rejected upload")
			}
			if entries, _ := os.ReadDir(p.cfg.TmpDir); len(entries) != 0 {
				t.Error("temp file left behind by rejected upload")
			}
		})
	}
}

func TestIngestAnalysisFailureIsFatalAndTagged(t *testing.T) {
	stages := []models.Phase{
		models.PhaseProbe, models.PhaseWaveform, models.PhasePoster, models.PhasePreview,
	}

	for _, stage := range stages {
		t.Run(string(stage), func(t *testing.T) {
			p, cat, mediaDir := newTestPipeline(t, &fakeAnalyzer{failStage: stage})
			events := collect(t, p.Ingest(context.Background(), strings.NewReader("bytes"), testFields("x")))

			last := events[len(events)-1]
			if last.Phase != models.PhaseError {
				t.Fatalf("terminal event = %+v, want error", last)
			}
			if last.Stage != stage {
				t.Errorf("error stage = %s, want %s", last.Stage, stage)
			}
			if cat.Size() != 0 {
				t.Error("partial record reached the catalog")
			}

			// The per-video directory was cleaned up.
			if entries, _ := os.ReadDir(mediaDir); len(entries) != 0 {
				t.Errorf("media dir not cleaned: %v", entries)
			}
		})
	}
}

func TestIngestCancellationCleansUp(t *testing.T) {
	p, cat, _ := newTestPipeline(t, &fakeAnalyzer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := p.Ingest(ctx, strings.NewReader("bytes"), testFields("x"))
	for range events {
		// Drain whatever made it out before cancellation won.
	}

	if cat.Size() != 0 {
		t.Error("canceled ingestion registered a record")
	}
	if entries, _ := os.ReadDir(p.cfg.TmpDir); len(entries) != 0 {
		t.Error("canceled ingestion left a temp file")
	}
}

func TestIngestHashesWholeStream(t *testing.T) {
	p, cat, _ := newTestPipeline(t, &fakeAnalyzer{})
	events := collect(t, p.Ingest(context.Background(), strings.NewReader("hello"), testFields("x")))

	id := events[len(events)-1].VideoID
	rec := cat.Video(id)
	// SHA-256 of "hello".
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if rec.ContentHash != want {
		t.Errorf("hash = %s, want %s", rec.ContentHash, want)
	}
}
