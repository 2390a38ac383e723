package organizer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediakit/internal/organizer"
	"mediakit/internal/services"
	"mediakit/internal/testsupport"
)

const manifestBody = `
source = "source"
destination = "renamed"
extension = "mp3"

[[discs]]
label = "CD 1"

[[discs.tracks]]
number = "01"
title = "Drag Me to Hell - End Titles"
composer = "Christopher Young"

[[discs.tracks]]
number = "02"
title = "The_Mummy - Love Theme"

[[discs.tracks]]
number = "03"
title = "Missing Track"
`

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "manifest.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	m, err := organizer.LoadManifest(writeManifest(t, dir, manifestBody))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Source != filepath.Join(dir, "source") || m.Destination != filepath.Join(dir, "renamed") {
		t.Fatalf("paths not resolved: %+v", m)
	}
	if m.Extension != ".mp3" {
		t.Fatalf("Extension = %q", m.Extension)
	}
	if m.Discs[0].Number != "1" || len(m.Discs[0].Tracks) != 3 {
		t.Fatalf("disc = %+v", m.Discs[0])
	}
}

func TestLoadManifestInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"no source": "destination = \"d\"\n[[discs]]\nlabel = \"CD 1\"\n",
		"no discs":  "source = \"s\"\ndestination = \"d\"\n",
		"bad track": "source = \"s\"\ndestination = \"d\"\n[[discs]]\nlabel = \"CD 1\"\n[[discs.tracks]]\nnumber = \"01\"\n",
		"bad toml":  "source = \n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := organizer.LoadManifest(writeManifest(t, dir, body))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestTrackNames(t *testing.T) {
	track := organizer.ManifestTrack{Number: "04", Title: "Cloverfield - Roar!", Composer: "Michael Giacchino"}
	if got := track.SourceName(".mp3"); got != "04. Cloverfield - Roar!.mp3" {
		t.Errorf("SourceName = %q", got)
	}
	if got := track.TargetName("1", ".mp3"); got != "104 - Cloverfield - Roar! - Michael Giacchino.mp3" {
		t.Errorf("TargetName = %q", got)
	}
	track.Composer = ""
	if got := track.TargetName("2", ".mp3"); got != "204 - Cloverfield - Roar!.mp3" {
		t.Errorf("TargetName without composer = %q", got)
	}
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "source", "CD 1", "01. Drag Me to Hell - End Titles.mp3"), 32)
	testsupport.WriteFile(t, filepath.Join(dir, "source", "CD 1", "02. The Mummy - Love Theme.mp3"), 32)

	m, err := organizer.LoadManifest(writeManifest(t, dir, manifestBody))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	rec := &recorder{}
	result, err := organizer.New(nil, rec).Rename(context.Background(), m)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if result.Copied != 2 || len(result.Missing) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if filepath.Base(result.Missing[0]) != "03. Missing Track.mp3" {
		t.Fatalf("missing = %v", result.Missing)
	}
	requireFile(t, filepath.Join(dir, "renamed", "101 - Drag Me to Hell - End Titles - Christopher Young.mp3"))
	requireFile(t, filepath.Join(dir, "renamed", "102 - The Mummy - Love Theme.mp3"))
	requireFile(t, filepath.Join(dir, "source", "CD 1", "01. Drag Me to Hell - End Titles.mp3"))
	if len(rec.entries) != 2 {
		t.Fatalf("journal entries = %d", len(rec.entries))
	}
}

func TestSampleManifestParses(t *testing.T) {
	dir := t.TempDir()
	m, err := organizer.LoadManifest(writeManifest(t, dir, organizer.SampleManifest()))
	if err != nil {
		t.Fatalf("LoadManifest(sample): %v", err)
	}
	if len(m.Discs) != 2 || m.Discs[1].Number != "2" {
		t.Fatalf("sample discs = %+v", m.Discs)
	}
	if !strings.Contains(organizer.SampleManifest(), "<disc number><NN> - <title><extension>") {
		t.Error("sample manifest does not describe composer-less names")
	}
	bare := m.Discs[1].Tracks[0]
	if got := bare.TargetName(m.Discs[1].Number, m.Extension); got != "201 - "+bare.Title+".mp3" {
		t.Errorf("sample composer-less name = %q", got)
	}
}
