// Package scan walks media trees and returns the files a job should process.
package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediakit/internal/logging"
	"mediakit/internal/services"
)

// skippedDirs are folders created by operating systems and NAS indexers.
var skippedDirs = map[string]struct{}{
	".Trashes":        {},
	".Spotlight-V100": {},
	".fseventsd":      {},
	"@eaDir":          {},
	".stfolder":       {},
}

// ExtensionSet is a set of lower-cased extensions including the leading dot.
type ExtensionSet map[string]struct{}

// Extensions builds an ExtensionSet from values such as ".jpg" or "JPG".
func Extensions(values ...string) ExtensionSet {
	set := make(ExtensionSet, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// Match reports whether path has one of the extensions, ignoring case.
func (s ExtensionSet) Match(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Union returns a new set holding the members of s and other.
func (s ExtensionSet) Union(other ExtensionSet) ExtensionSet {
	out := make(ExtensionSet, len(s)+len(other))
	for ext := range s {
		out[ext] = struct{}{}
	}
	for ext := range other {
		out[ext] = struct{}{}
	}
	return out
}

// Options controls a walk.
type Options struct {
	Extensions ExtensionSet
	// Exclude lists directories (absolute or relative to the root) that are not entered.
	Exclude []string
	Logger  *slog.Logger
}

// Walk returns every regular file below root whose extension is in
// opts.Extensions, in lexical order. Unreadable entries are logged and skipped.
func Walk(root string, opts Options) ([]string, error) {
	if err := RequireDir(root); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		excluded[filepath.Clean(dir)] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("skipping unreadable entry", logging.Path(path), logging.Error(walkErr))
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skippedDirs[d.Name()]; skip {
				return fs.SkipDir
			}
			if _, skip := excluded[filepath.Clean(path)]; skip {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(opts.Extensions) > 0 && !opts.Extensions.Match(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "scan", "walk", root, err)
	}
	return files, nil
}

// RequireDir returns a validation error unless path is an existing directory.
func RequireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "scan", "open directory", fmt.Sprintf("%s is not accessible", path), err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrValidation, "scan", "open directory", fmt.Sprintf("%s is not a directory", path), nil)
	}
	return nil
}

// Stem returns the file name without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
