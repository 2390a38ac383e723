package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// ErrUnsupportedFormat reports a container whose tags cannot be rewritten.
var ErrUnsupportedFormat = errors.New("tag writing not supported for this format")

// SetAlbum rewrites the album tag of an MP3 or FLAC file in place.
func SetAlbum(path, album string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return setID3Album(path, album)
	case ".flac":
		return setFLACAlbum(path, album)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func setID3Album(path, album string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 %s: %w", path, err)
	}
	defer tag.Close()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetAlbum(album)
	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3 %s: %w", path, err)
	}
	return nil
}

func setFLACAlbum(path, album string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac %s: %w", path, err)
	}

	idx := -1
	var cmt *flacvorbis.MetaDataBlockVorbisComment
	for i, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		cmt, err = flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return fmt.Errorf("parse vorbis comment %s: %w", path, err)
		}
		idx = i
		break
	}
	if cmt == nil {
		cmt = flacvorbis.New()
	}

	kept := cmt.Comments[:0]
	for _, entry := range cmt.Comments {
		key, _, _ := strings.Cut(entry, "=")
		if strings.EqualFold(key, flacvorbis.FIELD_ALBUM) {
			continue
		}
		kept = append(kept, entry)
	}
	cmt.Comments = kept
	if err := cmt.Add(flacvorbis.FIELD_ALBUM, album); err != nil {
		return fmt.Errorf("set album %s: %w", path, err)
	}

	block := cmt.Marshal()
	if idx < 0 {
		f.Meta = append(f.Meta, &block)
	} else {
		f.Meta[idx] = &block
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save flac %s: %w", path, err)
	}
	return nil
}
