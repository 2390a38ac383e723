package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"mediakit/internal/fileutil"
	"mediakit/internal/journal"
	"mediakit/internal/logging"
	"mediakit/internal/media/audio"
	"mediakit/internal/scan"
	"mediakit/internal/services"
	"mediakit/internal/textutil"
)

// ProcessedDir is the folder below the root that receives flattened albums.
const ProcessedDir = "processed"

// DiscExtensions are the files moved out of disc folders.
var DiscExtensions = scan.Extensions(".mp3", ".flac", ".m4a", ".wav", ".aac", ".ogg", ".wma")

var (
	discFolderPattern = regexp.MustCompile(`(?i)(cd|disc)\s*(\d+)`)
	trackStemPattern  = regexp.MustCompile(`^(\d+)\s*[-.]?\s*(.+)$`)
	albumDiscPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*-\s*(cd|disc)\s*\d+`),
		regexp.MustCompile(`(?i)\s*\(\s*(cd|disc)\s*\d+\s*\)`),
		regexp.MustCompile(`(?i)\s*\[\s*(cd|disc)\s*\d+\s*\]`),
		regexp.MustCompile(`(?i)\s*(cd|disc)\s*\d+`),
	}
)

// MultiDiscSummary reports a MultiDisc pass.
type MultiDiscSummary struct {
	Albums int
	Summary
}

// DiscNumber returns the number in a disc folder name such as "CD 2" or
// "Disc03", without leading zeros.
func DiscNumber(name string) (string, bool) {
	m := discFolderPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return m[2], true
	}
	return strconv.Itoa(n), true
}

// CleanAlbumName removes "CD n" and "Disc n" decorations from an album title.
func CleanAlbumName(album string) string {
	for _, re := range albumDiscPatterns {
		album = re.ReplaceAllString(album, "")
	}
	return strings.TrimSpace(album)
}

// ParseTrackStem splits "01 - Title", "01. Title" or "01 Title" into the
// track number and title.
func ParseTrackStem(stem string) (int, string, bool) {
	m := trackStemPattern.FindStringSubmatch(strings.TrimSpace(stem))
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	title := strings.TrimSpace(m[2])
	if title == "" {
		return 0, "", false
	}
	return n, title, true
}

// DiscTrackName renders "<disc><NN> - <title><ext>" with unsafe characters removed.
func DiscTrackName(disc string, track int, title, ext string) string {
	return fmt.Sprintf("%s%02d - %s%s", disc, track, textutil.StripUnsafe(title), ext)
}

// MultiDisc copies every album below root that holds disc folders into
// root/processed and flattens the disc folders of the copy. The original
// albums are left untouched.
func (o *Organizer) MultiDisc(ctx context.Context, root string) (MultiDiscSummary, error) {
	if err := scan.RequireDir(root); err != nil {
		return MultiDiscSummary{}, err
	}
	logger := o.logger()
	entries, err := os.ReadDir(root)
	if err != nil {
		return MultiDiscSummary{}, services.Wrap(services.ErrValidation, "plex multidisc", "list albums", root, err)
	}
	processed := filepath.Join(root, ProcessedDir)
	if !o.DryRun {
		if err := os.MkdirAll(processed, 0o755); err != nil {
			return MultiDiscSummary{}, services.Wrap(services.ErrConfiguration, "plex multidisc", "create processed dir", processed, err)
		}
	}

	var summary MultiDiscSummary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !entry.IsDir() || strings.EqualFold(entry.Name(), ProcessedDir) {
			continue
		}
		album := filepath.Join(root, entry.Name())
		discs := discFolders(album)
		if len(discs) == 0 {
			logger.Info("skipping album without disc folders", logging.String("album", entry.Name()))
			continue
		}
		logger.Info("processing album", logging.String("album", entry.Name()), logging.Int("discs", len(discs)))
		result, err := o.flattenAlbum(ctx, album, filepath.Join(processed, entry.Name()), discs)
		if err != nil {
			logger.Warn("album failed", logging.String("album", entry.Name()), logging.Error(err))
			continue
		}
		summary.Albums++
		summary.Processed += result.Processed
		summary.Skipped += result.Skipped
	}
	return summary, nil
}

// discFolders lists the disc subfolder names of album in directory order.
func discFolders(album string) []string {
	entries, err := os.ReadDir(album)
	if err != nil {
		return nil
	}
	var discs []string
	for _, entry := range entries {
		if entry.IsDir() && discFolderPattern.MatchString(entry.Name()) {
			discs = append(discs, entry.Name())
		}
	}
	return discs
}

func (o *Organizer) flattenAlbum(ctx context.Context, album, dest string, discs []string) (Summary, error) {
	if fileutil.Exists(dest) {
		o.logger().Info("removing previous copy", logging.Path(dest))
		if err := o.removeDir(ctx, dest, true); err != nil {
			return Summary{}, fmt.Errorf("remove previous copy: %w", err)
		}
	}
	if err := o.copyTree(ctx, album, dest); err != nil {
		return Summary{}, fmt.Errorf("copy album: %w", err)
	}
	// A dry run never creates the copy, so plan from the original folders.
	workDir := dest
	if o.DryRun {
		workDir = album
	}
	var summary Summary
	for _, name := range discs {
		disc, _ := DiscNumber(name)
		result := o.flattenDisc(ctx, filepath.Join(workDir, name), dest, disc)
		summary.Processed += result.Processed
		summary.Skipped += result.Skipped
	}
	return summary, nil
}

func (o *Organizer) flattenDisc(ctx context.Context, discDir, albumDir, disc string) Summary {
	logger := o.logger()
	var summary Summary
	entries, err := os.ReadDir(discDir)
	if err != nil {
		logger.Warn("disc folder unreadable", logging.Path(discDir), logging.Error(err))
		return summary
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !DiscExtensions.Match(entry.Name()) {
			continue
		}
		path := filepath.Join(discDir, entry.Name())
		if !o.cleanAlbumTag(ctx, path) {
			summary.Skipped++
			continue
		}
		track, title, ok := ParseTrackStem(scan.Stem(path))
		if !ok {
			logger.Info("skipping unrecognized filename", logging.Path(path))
			summary.Skipped++
			continue
		}
		target := filepath.Join(albumDir, DiscTrackName(disc, track, title, filepath.Ext(path)))
		if err := o.move(ctx, path, target); err != nil {
			logger.Warn("move failed", logging.Path(path), logging.Error(err))
			summary.Skipped++
			continue
		}
		summary.Processed++
	}
	if o.DryRun {
		return summary
	}
	if empty, err := fileutil.IsDirEmpty(discDir); err == nil && empty {
		if err := o.removeDir(ctx, discDir, false); err != nil {
			logger.Warn("could not remove disc folder", logging.Path(discDir), logging.Error(err))
		}
	}
	return summary
}

// cleanAlbumTag strips disc decorations from the album tag of path. It
// reports false when the file carries no album tag.
func (o *Organizer) cleanAlbumTag(ctx context.Context, path string) bool {
	logger := o.logger()
	tags, err := audio.ReadTags(path)
	if err != nil && !errors.Is(err, audio.ErrNoTags) {
		logger.Warn("tag read failed", logging.Path(path), logging.Error(err))
		return false
	}
	if tags.Album == "" {
		logger.Info("skipping file without album tag", logging.Path(path))
		return false
	}
	cleaned := CleanAlbumName(tags.Album)
	if cleaned == tags.Album {
		return true
	}
	if o.DryRun {
		logger.Info("dry run: would update album tag",
			logging.Path(path),
			logging.String("from", tags.Album),
			logging.String("to", cleaned),
		)
		return true
	}
	if err := audio.SetAlbum(path, cleaned); err != nil {
		logger.Warn("album tag not updated", logging.Path(path), logging.Error(err))
		return true
	}
	logger.Info("updated album tag", logging.Path(path), logging.String("from", tags.Album), logging.String("to", cleaned))
	o.record(ctx, journal.ActionWriteTag, path, path, "album="+cleaned)
	return true
}
