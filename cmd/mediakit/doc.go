// Package main hosts the mediakit CLI entrypoint and command graph.
//
// Each subcommand is a thin Cobra wrapper over one internal package: it
// resolves configuration, builds the logger, opens the journal, takes the
// tree lock for mutating jobs, and prints the report to stdout. Logs go to
// stderr so reports stay pipeable.
package main
