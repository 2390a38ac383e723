// Package journal records the file operations performed by mutating
// commands in a SQLite database under the data directory.
//
// Each command invocation opens a Run identified by a UUID; every copy, move,
// tag write, or directory removal is appended as an Entry. The history
// command reads the newest entries back. A nil *Store is valid and turns every
// Run into a no-op, which is how a disabled journal is represented.
package journal
