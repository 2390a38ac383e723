// Package logging assembles structured slog loggers and formatting helpers used
// across mediakit commands.
//
// It owns the configurable console/JSON handlers, writes to stderr so command
// reports on stdout stay clean, and mirrors every record as JSON into the log
// directory. Context helpers tag lines with the run ID, command, and stage,
// and NewNop provides a silent logger for tests and optional wiring.
package logging
