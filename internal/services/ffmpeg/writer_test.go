package ffmpeg_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"mediakit/internal/geo"
	"mediakit/internal/services"
	"mediakit/internal/services/ffmpeg"
	"mediakit/internal/testsupport"
)

const copyStub = `in=""
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-i" ]; then in="$arg"; fi
  case "$arg" in *.temp.*) out="$arg" ;; esac
  prev="$arg"
done
printf '%s\n' "$@" > "$(dirname "$in")/args.txt"
cp "$in" "$out"
printf 'tagged' >> "$out"
`

func TestTempPath(t *testing.T) {
	if got := ffmpeg.TempPath("/v/clip.MOV"); got != "/v/clip.temp.MOV" {
		t.Fatalf("TempPath = %q", got)
	}
}

func TestArgs(t *testing.T) {
	args := ffmpeg.Args("in.mp4", "in.temp.mp4", geo.Coordinate{Lat: 38.5, Lon: -9.25})
	for _, want := range []string{"-i", "in.mp4", "in.temp.mp4", "copy", "location=38.5,-9.25", "location-eng=38.5,-9.25", "-y"} {
		if !slices.Contains(args, want) {
			t.Fatalf("args %v missing %q", args, want)
		}
	}
}

func TestWriteLocationReplacesOriginal(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	bin := testsupport.StubBinary(t, "ffmpeg", copyStub)

	w := ffmpeg.NewWriter(bin)
	if err := w.WriteLocation(context.Background(), video, geo.Coordinate{Lat: 1.5, Lon: 2.5}); err != nil {
		t.Fatalf("WriteLocation: %v", err)
	}
	data, err := os.ReadFile(video)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "videotagged" {
		t.Fatalf("original not replaced: %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.temp.mp4")); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err=%v", err)
	}
	args, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(args), "location=1.5,2.5") {
		t.Fatalf("location metadata missing from args:\n%s", args)
	}
}

func TestWriteLocationFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mov")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	bin := testsupport.StubBinary(t, "ffmpeg", "echo partial > \""+filepath.Join(dir, "clip.temp.mov")+"\"\necho 'moov atom not found' >&2\nexit 1\n")

	err := ffmpeg.NewWriter(bin).WriteLocation(context.Background(), video, geo.Coordinate{Lat: 1, Lon: 1})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("stderr not surfaced: %v", err)
	}
	data, _ := os.ReadFile(video)
	if string(data) != "video" {
		t.Fatalf("original modified: %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.temp.mov")); !os.IsNotExist(err) {
		t.Fatalf("temp file should be removed, stat err=%v", err)
	}
}
