package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediakit/internal/services"
	"mediakit/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_Missing(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
}

func TestCheckDirectoryAccess_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", path); result.Passed {
		t.Fatal("expected failure for regular file")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffprobe", "ffmpeg"))
	cfg.Tools.ExifTool = "mediakit-missing-exiftool"
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %+v", len(results), results)
	}
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if !byName["FFprobe"].Passed || !byName["FFmpeg"].Passed {
		t.Fatalf("stubbed binaries should pass: %+v", results)
	}
	if exif := byName["ExifTool"]; exif.Passed || !exif.Optional {
		t.Fatalf("exiftool should be a failed optional check: %+v", exif)
	}
	if !byName["Data directory"].Passed || !byName["Log directory"].Passed {
		t.Fatalf("directories should pass: %+v", results)
	}
	if Failed(results) {
		t.Fatal("optional failures must not fail the run")
	}
}

func TestRequire(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffprobe"))
	cfg.Tools.FFmpeg = "mediakit-missing-ffmpeg"

	if err := Require(context.Background(), cfg, "ffprobe"); err != nil {
		t.Fatalf("Require ffprobe: %v", err)
	}
	err := Require(context.Background(), cfg, "ffprobe", "ffmpeg")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
