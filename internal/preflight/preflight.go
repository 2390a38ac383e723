package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"mediakit/internal/config"
	"mediakit/internal/deps"
	"mediakit/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Requirements lists the external binaries for cfg.
func Requirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for audio and video inspection",
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required to write video location tags",
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "ExifTool",
			Command:     cfg.ExifToolBinary(),
			Description: "Writes GPS tags into images",
			Optional:    true,
			VersionArgs: []string{"-ver"},
		},
	}
}

// RunAll executes every check for cfg: binaries, then directories.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	for _, status := range deps.CheckBinaries(ctx, Requirements(cfg)) {
		results = append(results, fromStatus(status))
	}
	results = append(results,
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	)
	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

// Require fails with services.ErrConfiguration when any named binary is missing.
func Require(ctx context.Context, cfg *config.Config, names ...string) error {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = true
	}
	var reqs []deps.Requirement
	for _, req := range Requirements(cfg) {
		if wanted[strings.ToLower(req.Name)] {
			req.VersionArgs = nil
			reqs = append(reqs, req)
		}
	}
	var missing []string
	for _, status := range deps.CheckBinaries(ctx, reqs) {
		if !status.Available {
			missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
		}
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrConfiguration, "preflight", "binaries", "missing "+strings.Join(missing, ", "), nil)
	}
	return nil
}

func fromStatus(status deps.Status) Result {
	r := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	switch {
	case !status.Available:
		r.Detail = status.Detail
		if status.Optional {
			r.Detail += " (optional)"
		}
	case status.Version != "":
		r.Detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
	default:
		r.Detail = status.Path
	}
	return r
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
