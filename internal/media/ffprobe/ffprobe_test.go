package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", SampleRate: "96000", BitsPerRawSample: "24"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}
	audio, ok := result.FirstAudioStream()
	if !ok {
		t.Fatal("expected an audio stream")
	}
	if audio.SampleRateHz() != 96000 {
		t.Fatalf("unexpected sample rate: %d", audio.SampleRateHz())
	}
	if depth, ok := audio.RawBitDepth(); !ok || depth != 24 {
		t.Fatalf("unexpected bit depth: %d %v", depth, ok)
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", BitsPerRawSample: "N/A", SampleRate: "x"}},
		Format:  Format{Duration: "bad", Size: "-1"},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	audio, _ := result.FirstAudioStream()
	if _, ok := audio.RawBitDepth(); ok {
		t.Fatal("expected non-numeric bit depth to be rejected")
	}
	if audio.SampleRateHz() != 0 {
		t.Fatalf("expected sample rate 0, got %d", audio.SampleRateHz())
	}
}

func TestCreationTime(t *testing.T) {
	result := Result{Format: Format{Tags: map[string]string{"creation_time": "2023-07-04T18:30:00.000000Z"}}}
	got, ok := result.CreationTime()
	if !ok {
		t.Fatal("expected creation time")
	}
	want := time.Date(2023, 7, 4, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected creation time: got %s want %s", got, want)
	}
	if _, ok := (Result{}).CreationTime(); ok {
		t.Fatal("expected missing creation time")
	}
}

func TestLocationFallsBackToStreams(t *testing.T) {
	result := Result{
		Format: Format{Tags: map[string]string{"location": "garbage"}},
		Streams: []Stream{
			{Tags: map[string]string{"title": "x"}},
			{Tags: map[string]string{"LOCATION": "+38.0000-009.0000/"}},
		},
	}
	coord, ok := result.Location()
	if !ok {
		t.Fatal("expected location from stream tags")
	}
	if coord.Lat != 38 || coord.Lon != -9 {
		t.Fatalf("unexpected coordinate: %+v", coord)
	}
}

func TestInspectParsesStubOutput(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n" +
		`{"streams":[{"index":0,"codec_type":"audio","sample_rate":"44100","bits_per_raw_sample":"16"}],"format":{"duration":"10.0","tags":{"location":"51.5,-0.12"}}}` +
		"\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, filepath.Join(dir, "song.flac"))
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.DurationSeconds() != 10 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if coord, ok := result.Location(); !ok || coord.Lat != 51.5 {
		t.Fatalf("unexpected location: %+v %v", coord, ok)
	}
}

func TestInspectReportsFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'Invalid data' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if _, err := Inspect(context.Background(), stub, "broken.flac"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if _, err := Inspect(context.Background(), stub, " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
