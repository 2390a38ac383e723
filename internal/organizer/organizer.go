package organizer

import (
	"context"
	"log/slog"
	"os"

	"mediakit/internal/fileutil"
	"mediakit/internal/journal"
	"mediakit/internal/logging"
)

// Summary counts the files a pass handled.
type Summary struct {
	Processed int
	Skipped   int
}

// Organizer performs the file operations of the organize commands.
type Organizer struct {
	Journal journal.Recorder
	Logger  *slog.Logger
	DryRun  bool
}

// New returns an organizer recording into rec.
func New(logger *slog.Logger, rec journal.Recorder) *Organizer {
	return &Organizer{
		Journal: rec,
		Logger:  logging.NewComponentLogger(logger, "organizer"),
	}
}

func (o *Organizer) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

func (o *Organizer) copy(ctx context.Context, src, dst string) error {
	if o.DryRun {
		o.logger().Info("dry run: would copy", logging.Path(src), logging.String("target", dst))
		return nil
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return err
	}
	o.logger().Info("copied", logging.Path(src), logging.String("target", dst))
	o.record(ctx, journal.ActionCopy, src, dst, "")
	return nil
}

func (o *Organizer) move(ctx context.Context, src, dst string) error {
	if o.DryRun {
		o.logger().Info("dry run: would move", logging.Path(src), logging.String("target", dst))
		return nil
	}
	if err := fileutil.MoveFile(src, dst); err != nil {
		return err
	}
	o.logger().Info("moved", logging.Path(src), logging.String("target", dst))
	o.record(ctx, journal.ActionMove, src, dst, "")
	return nil
}

func (o *Organizer) copyTree(ctx context.Context, src, dst string) error {
	if o.DryRun {
		o.logger().Info("dry run: would copy tree", logging.Path(src), logging.String("target", dst))
		return nil
	}
	if err := fileutil.CopyTree(src, dst); err != nil {
		return err
	}
	o.record(ctx, journal.ActionCopy, src, dst, "tree")
	return nil
}

func (o *Organizer) removeDir(ctx context.Context, dir string, recursive bool) error {
	if o.DryRun {
		o.logger().Info("dry run: would remove directory", logging.Path(dir))
		return nil
	}
	var err error
	if recursive {
		err = os.RemoveAll(dir)
	} else {
		err = os.Remove(dir)
	}
	if err != nil {
		return err
	}
	o.record(ctx, journal.ActionRemoveDir, dir, "", "")
	return nil
}

func (o *Organizer) record(ctx context.Context, action journal.Action, src, dst, detail string) {
	if o.Journal == nil {
		return
	}
	entry := journal.Entry{Action: action, Source: src, Target: dst, Detail: detail}
	if err := o.Journal.Record(ctx, entry); err != nil {
		o.logger().Warn("journal record failed", logging.Path(src), logging.Error(err))
	}
}
