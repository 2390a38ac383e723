package organizer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mediakit/internal/journal"
	"mediakit/internal/media/audio"
	"mediakit/internal/organizer"
	"mediakit/internal/testsupport"
)

type recorder struct {
	entries []journal.Entry
}

func (r *recorder) Record(_ context.Context, e journal.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *recorder) count(action journal.Action) int {
	n := 0
	for _, e := range r.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s: %v", path, err)
	}
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err = %v", path, err)
	}
}

func TestLibraryPath(t *testing.T) {
	cases := []struct {
		name string
		tags audio.Tags
		src  string
		want string
	}{
		{
			name: "full tags",
			tags: audio.Tags{Artist: "AC/DC", Album: "Back in Black", Title: "Hells Bells", Track: 1},
			src:  "/in/x.MP3",
			want: "/lib/AC_DC/Back in Black/01 - Hells Bells.mp3",
		},
		{
			name: "fallbacks",
			tags: audio.Tags{},
			src:  "/in/demo take.flac",
			want: "/lib/Unknown Artist/Unknown Album/00 - demo take.flac",
		},
		{
			name: "three digit track",
			tags: audio.Tags{Artist: " Orb ", Album: "Live?", Title: "Blue Room", Track: 123},
			src:  "/in/a.ogg",
			want: "/lib/Orb/Live_/123 - Blue Room.ogg",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := organizer.LibraryPath("/lib", tc.src, tc.tags); got != tc.want {
				t.Fatalf("LibraryPath = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMusicLibrary(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	testsupport.WriteMP3(t, filepath.Join(src, "rock", "track1.mp3"), testsupport.MP3Meta{
		Artist: "AC/DC", Album: "Back in Black", Title: "Hells Bells", Track: "1/10",
	})
	testsupport.WriteFLAC(t, filepath.Join(src, "jazz", "so what.flac"), testsupport.FLACMeta{
		Comments: testsupport.Comments("artist", "Miles Davis", "album", "Kind of Blue", "title", "So What", "tracknumber", "1"),
	})
	testsupport.WriteFile(t, filepath.Join(src, "untagged.mp3"), 128)
	testsupport.WriteFile(t, filepath.Join(src, "cover.jpg"), 16)

	rec := &recorder{}
	o := organizer.New(nil, rec)
	summary, err := o.MusicLibrary(context.Background(), src, dest)
	if err != nil {
		t.Fatalf("MusicLibrary: %v", err)
	}
	if summary.Processed != 2 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	requireFile(t, filepath.Join(dest, "AC_DC", "Back in Black", "01 - Hells Bells.mp3"))
	requireFile(t, filepath.Join(dest, "Miles Davis", "Kind of Blue", "01 - So What.flac"))
	if rec.count(journal.ActionCopy) != 2 {
		t.Fatalf("journal entries = %+v", rec.entries)
	}
}

func TestMusicLibraryDestinationInsideSource(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(src, "Plex")
	testsupport.WriteMP3(t, filepath.Join(src, "a.mp3"), testsupport.MP3Meta{Artist: "A", Album: "B", Title: "C", Track: "2"})

	o := organizer.New(nil, nil)
	if _, err := o.MusicLibrary(context.Background(), src, dest); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := o.MusicLibrary(context.Background(), src, dest)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("second run should ignore the destination tree, summary = %+v", summary)
	}
}

func TestMusicLibraryAlreadyOrganized(t *testing.T) {
	lib := t.TempDir()
	placed := filepath.Join(lib, "Queen", "A Night at the Opera", "11 - Bohemian Rhapsody.mp3")
	testsupport.WriteMP3(t, placed, testsupport.MP3Meta{
		Artist: "Queen", Album: "A Night at the Opera", Title: "Bohemian Rhapsody", Track: "11",
	})
	before, err := os.ReadFile(placed)
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	summary, err := organizer.New(nil, rec).MusicLibrary(context.Background(), lib, lib)
	if err != nil {
		t.Fatalf("MusicLibrary: %v", err)
	}
	if summary.Processed != 0 || summary.Skipped != 1 || len(rec.entries) != 0 {
		t.Fatalf("summary = %+v, entries = %+v", summary, rec.entries)
	}
	after, err := os.ReadFile(placed)
	if err != nil {
		t.Fatalf("organized file lost: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("organized file rewritten: %d bytes, want %d", len(after), len(before))
	}
}

func TestMusicLibraryDryRun(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")
	testsupport.WriteMP3(t, filepath.Join(src, "a.mp3"), testsupport.MP3Meta{Artist: "A", Album: "B", Title: "C"})

	rec := &recorder{}
	o := organizer.New(nil, rec)
	o.DryRun = true
	summary, err := o.MusicLibrary(context.Background(), src, dest)
	if err != nil {
		t.Fatalf("MusicLibrary: %v", err)
	}
	if summary.Processed != 1 || len(rec.entries) != 0 {
		t.Fatalf("summary = %+v entries = %d", summary, len(rec.entries))
	}
	requireMissing(t, dest)
}
