package testsupport

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2/v2"
)

// MP3Meta lists the ID3v2 frames written by WriteMP3. Empty fields are skipped.
type MP3Meta struct {
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	Composer    string
	Track       string
	Disc        string
}

// WriteMP3 writes a stand-in MPEG payload with an ID3v2.4 tag in front.
func WriteMP3(t testing.TB, path string, meta MP3Meta) {
	t.Helper()
	writeBytes(t, path, bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x64}, 64))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open id3 %s: %v", path, err)
	}
	defer tag.Close()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetVersion(4)
	frames := []struct{ id, value string }{
		{"TPE1", meta.Artist},
		{"TPE2", meta.AlbumArtist},
		{"TALB", meta.Album},
		{"TIT2", meta.Title},
		{"TCOM", meta.Composer},
		{"TRCK", meta.Track},
		{"TPOS", meta.Disc},
	}
	for _, frame := range frames {
		if frame.value == "" {
			continue
		}
		tag.AddTextFrame(frame.id, tag.DefaultEncoding(), frame.value)
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("save id3 %s: %v", path, err)
	}
}
