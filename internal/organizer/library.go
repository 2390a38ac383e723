package organizer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mediakit/internal/fileutil"
	"mediakit/internal/logging"
	"mediakit/internal/media/audio"
	"mediakit/internal/scan"
	"mediakit/internal/textutil"
)

// LibraryExtensions are the files MusicLibrary copies.
var LibraryExtensions = scan.Extensions(".mp3", ".flac", ".m4a", ".ogg", ".wav")

// LibraryPath returns the destination of a file with tags t below dest.
func LibraryPath(dest, source string, t audio.Tags) string {
	artist := textutil.SanitizePathSegment(t.Artist)
	if artist == "" {
		artist = "Unknown Artist"
	}
	album := textutil.SanitizePathSegment(t.Album)
	if album == "" {
		album = "Unknown Album"
	}
	title := textutil.SanitizePathSegment(t.Title)
	if title == "" {
		title = scan.Stem(source)
	}
	track := "00"
	if t.Track > 0 {
		track = fmt.Sprintf("%02d", t.Track)
	}
	ext := strings.ToLower(filepath.Ext(source))
	return filepath.Join(dest, artist, album, track+" - "+title+ext)
}

// MusicLibrary copies every tagged audio file below src into
// dest/Artist/Album/NN - Title.ext. Files without tags are skipped.
func (o *Organizer) MusicLibrary(ctx context.Context, src, dest string) (Summary, error) {
	logger := o.logger()
	files, err := scan.Walk(src, scan.Options{
		Extensions: LibraryExtensions,
		Exclude:    excludeInside(src, dest),
		Logger:     logger,
	})
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		tags, err := audio.ReadTags(path)
		if err != nil {
			if errors.Is(err, audio.ErrNoTags) {
				logger.Info("skipping file without metadata", logging.Path(path))
			} else {
				logger.Warn("tag read failed", logging.Path(path), logging.Error(err))
			}
			summary.Skipped++
			continue
		}
		target := LibraryPath(dest, path, tags)
		if err := o.copy(ctx, path, target); err != nil {
			if errors.Is(err, fileutil.ErrSameFile) {
				logger.Info("already in destination", logging.Path(path))
			} else {
				logger.Warn("copy failed", logging.Path(path), logging.Error(err))
			}
			summary.Skipped++
			continue
		}
		summary.Processed++
	}
	return summary, nil
}

// excludeInside keeps a destination nested in the source out of the walk.
func excludeInside(src, dest string) []string {
	absSrc, err1 := filepath.Abs(src)
	absDest, err2 := filepath.Abs(dest)
	if err1 != nil || err2 != nil {
		return nil
	}
	rel, err := filepath.Rel(absSrc, absDest)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	return []string{rel}
}
