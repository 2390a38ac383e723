package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names the kind of file operation recorded.
type Action string

const (
	ActionCopy      Action = "copy"
	ActionMove      Action = "move"
	ActionWriteGPS  Action = "write_gps"
	ActionWriteTag  Action = "write_tag"
	ActionRemoveDir Action = "remove_dir"
)

// Entry is one recorded operation.
type Entry struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Command   string    `json:"command"`
	Action    Action    `json:"action"`
	Source    string    `json:"source"`
	Target    string    `json:"target,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Recorder accepts operations performed by a command.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Run groups the entries written by one command invocation.
type Run struct {
	store   *Store
	id      string
	command string
	now     func() time.Time
}

// Begin starts a run for command. A nil store yields a run that records nothing.
func (s *Store) Begin(command string) *Run {
	return &Run{
		store:   s,
		id:      uuid.NewString(),
		command: command,
		now:     time.Now,
	}
}

// Nop returns a run that discards every entry.
func Nop() *Run {
	return (*Store)(nil).Begin("")
}

// ID returns the run identifier.
func (r *Run) ID() string {
	return r.id
}

// Record stores e under this run. RunID, Command, and CreatedAt are filled in.
func (r *Run) Record(ctx context.Context, e Entry) error {
	if r == nil || r.store == nil {
		return nil
	}
	e.RunID = r.id
	e.Command = r.command
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now()
	}
	return r.store.insert(ctx, e)
}
