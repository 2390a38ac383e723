package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediakit/internal/geo"
	"mediakit/internal/journal"
	"mediakit/internal/runlock"
	"mediakit/internal/services"
	"mediakit/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Speaker test categories")
	requireContains(t, out, filepath.Join(env.binDir, "ffprobe"))

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, nil, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, nil, "", "config", "init", "--path", target)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected init to refuse overwriting, got %v", err)
	}
	if _, _, err := runCLI(t, nil, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestInvalidConfigExitCode(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeConfig(t, "\n[matching]\nmin_similarity = 3\n")

	_, _, err := runCLI(t, env, "", "doctor")
	if err == nil {
		t.Fatal("expected invalid config to fail")
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2 (%v)", code, err)
	}
}

func TestDoctor(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "All required checks passed")
	requireContains(t, out, "[OK]")

	if err := os.Remove(filepath.Join(env.binDir, "ffmpeg")); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCLI(t, env, "", "doctor")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "Failing: FFmpeg")
}

func TestFlacClassifyCSV(t *testing.T) {
	env := setupCLITestEnv(t)
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "Album", "01.flac"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "Album", "02.flac"), 16)

	out, _, err := runCLI(t, env, "", "flac", "classify", root, "--format", "csv")
	if err != nil {
		t.Fatalf("flac classify: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %q", lines)
	}
	if lines[0] != "Album,Status,Bit Depth (bits),Sample Rate (Hz),Lossy-Sourced,Tracks" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "Album,Consolidated,24,96000,False,2" {
		t.Fatalf("row = %q", lines[1])
	}
}

func TestFlacClassifyTable(t *testing.T) {
	env := setupCLITestEnv(t)
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "Album", "01.flac"), 16)

	out, _, err := runCLI(t, env, "", "flac", "classify", root, "-f", "table")
	if err != nil {
		t.Fatalf("flac classify: %v", err)
	}
	requireContains(t, out, "Consolidated")
	requireContains(t, out, "╭")
	requireContains(t, out, "Albums: 1")
}

func TestFlacClassifyRejectsFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "", "flac", "classify", t.TempDir(), "--format", "xml")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGPSMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	root := t.TempDir()
	testsupport.WriteJPEG(t, filepath.Join(root, "no-gps.jpg"), testsupport.PhotoMeta{DateTimeOriginal: "2023:07:14 09:30:00"})
	testsupport.WriteJPEG(t, filepath.Join(root, "tagged.jpg"), testsupport.PhotoMeta{
		DateTimeOriginal: "2023:07:14 09:31:00",
		GPS:              &geo.Coordinate{Lat: 48.8584, Lon: 2.2945},
	})

	out, _, err := runCLI(t, env, "", "gps", "missing", root)
	if err != nil {
		t.Fatalf("gps missing: %v", err)
	}
	requireContains(t, out, "path,datetime")
	requireContains(t, out, "no-gps.jpg,2023-07-14T09:30:00+00:00")
	if strings.Contains(out, "tagged.jpg") {
		t.Fatalf("tagged photo listed: %q", out)
	}
}

func TestGPSPlaceDryRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"48.5","lon":"2.25","display_name":"Somewhere, France"}]`))
	}))
	defer srv.Close()

	env := setupCLITestEnv(t)
	env.writeConfig(t, fmt.Sprintf("\n[geocoder]\nbase_url = %q\n", srv.URL))
	root := t.TempDir()
	testsupport.WriteJPEG(t, filepath.Join(root, "a.jpg"), testsupport.PhotoMeta{DateTimeOriginal: "2023:07:14 09:30:00"})

	out, _, err := runCLI(t, env, "", "gps", "place", root, "Somewhere", "--dry-run")
	if err != nil {
		t.Fatalf("gps place: %v", err)
	}
	requireContains(t, out, `Found coordinates for 'Somewhere': 48.5,2.25 (48°30'0.000" N, 2°15'0.000" E)`)
	requireContains(t, out, "Successfully processed: 1 files")
}

func TestPlexMusicAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	src := t.TempDir()
	dest := t.TempDir()
	writeTaggedMP3(t, filepath.Join(src, "a.mp3"), "Daft Punk", "Discovery", "One More Time", "1")
	writeTaggedMP3(t, filepath.Join(src, "b.mp3"), "Daft Punk", "Discovery", "Aerodynamic", "2")

	out, _, err := runCLI(t, env, "", "plex", "music", src, dest)
	if err != nil {
		t.Fatalf("plex music: %v", err)
	}
	requireContains(t, out, "Successfully processed: 2 files")
	if _, err := os.Stat(filepath.Join(dest, "Daft Punk", "Discovery", "02 - Aerodynamic.mp3")); err != nil {
		t.Fatalf("missing organized file: %v", err)
	}

	out, _, err = runCLI(t, env, "", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "plex music")
	requireContains(t, out, "copy")
	requireContains(t, out, "Operations: ")

	out, _, err = runCLI(t, env, "", "history", "--json")
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var entries []journal.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history json: %v\n%s", err, out)
	}
	if len(entries) != 2 || entries[0].Command != "plex music" {
		t.Fatalf("entries = %+v", entries)
	}

	out, _, err = runCLI(t, env, "", "history", "--run", entries[0].RunID, "--json")
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	var runEntries []journal.Entry
	if err := json.Unmarshal([]byte(out), &runEntries); err != nil {
		t.Fatalf("decode run json: %v", err)
	}
	if len(runEntries) != 2 {
		t.Fatalf("run entries = %d", len(runEntries))
	}
}

func TestPlexMusicRefusesLockedTree(t *testing.T) {
	env := setupCLITestEnv(t)
	src := t.TempDir()
	dest := t.TempDir()
	writeTaggedMP3(t, filepath.Join(src, "a.mp3"), "A", "B", "C", "1")

	held, err := runlock.Acquire(filepath.Join(env.dataDir, "locks"), dest)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer held.Release()

	_, _, err = runCLI(t, env, "", "plex", "music", src, dest)
	if !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestTracksFind(t *testing.T) {
	env := setupCLITestEnv(t)
	music := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(music, "Daft Punk - One More Time.mp3"), 32)
	listDir := t.TempDir()
	tracklist := filepath.Join(listDir, "list.txt")
	testsupport.WriteText(t, tracklist, "Daft Punk - One More Time\nNobody - Nothing\n")

	out, _, err := runCLI(t, env, "y\n", "tracks", "find", tracklist, music)
	if err != nil {
		t.Fatalf("tracks find: %v", err)
	}
	requireContains(t, out, "Copy this file? [y/n]")
	requireContains(t, out, "Nobody - Nothing: NOT FOUND")
	requireContains(t, out, "Operation complete. Copied 1 files to "+listDir)
	if _, err := os.Stat(filepath.Join(listDir, "Daft Punk - One More Time.mp3")); err != nil {
		t.Fatalf("expected copied file: %v", err)
	}
}

func TestSpeakerTestNoMatch(t *testing.T) {
	env := setupCLITestEnv(t)
	src := t.TempDir()
	dest := t.TempDir()
	testsupport.WriteFLAC(t, filepath.Join(src, "Completely Unrelated.flac"), testsupport.FLACMeta{})

	out, _, err := runCLI(t, env, "", "speaker-test", src, dest)
	if err != nil {
		t.Fatalf("speaker-test: %v", err)
	}
	requireContains(t, out, "No suitable FLAC matches found!")
}

func TestRenameExample(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, "", "rename", "--example")
	if err != nil {
		t.Fatalf("rename --example: %v", err)
	}
	requireContains(t, out, "[[discs.tracks]]")
}
