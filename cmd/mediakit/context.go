package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediakit/internal/config"
	"mediakit/internal/journal"
	"mediakit/internal/logging"
	"mediakit/internal/runlock"
	"mediakit/internal/services"
)

type globalFlags struct {
	config   string
	logLevel string
	verbose  bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", path, err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		switch {
		case c.flags.verbose:
			cfg.Logging.Level = "debug"
		case strings.TrimSpace(c.flags.logLevel) != "":
			cfg.Logging.Level = strings.TrimSpace(c.flags.logLevel)
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerFor() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console"})
		}
		c.logger = logger
	})
	return c.logger
}

// session carries the per-invocation state of a command.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger
	run    *journal.Run
	store  *journal.Store
	locks  []*runlock.Lock
}

// begin opens the journal, starts a run, and annotates the context with the
// run id and command path. Callers must close the session.
func (c *commandContext) begin(cmd *cobra.Command) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	command := commandPath(cmd)
	store, err := journal.Open(cfg)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open", cfg.JournalPath(), err)
	}
	run := store.Begin(command)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithRunID(ctx, run.ID())
	ctx = services.WithCommand(ctx, command)
	return &session{
		ctx:    ctx,
		cfg:    cfg,
		logger: logging.WithContext(ctx, c.loggerFor()),
		run:    run,
		store:  store,
	}, nil
}

// lock takes the tree lock for every target, releasing any taken so far on failure.
func (s *session) lock(targets ...string) error {
	for _, target := range targets {
		l, err := runlock.Acquire(s.cfg.LockDir(), target)
		if err != nil {
			s.releaseLocks()
			if errors.Is(err, runlock.ErrLocked) {
				return services.Wrap(services.ErrValidation, "lock", "acquire", target, err)
			}
			return err
		}
		s.locks = append(s.locks, l)
	}
	return nil
}

func (s *session) releaseLocks() {
	for _, l := range s.locks {
		if err := l.Release(); err != nil {
			s.logger.Warn("lock release failed", logging.Error(err))
		}
	}
	s.locks = nil
}

func (s *session) close() {
	s.releaseLocks()
	if err := s.store.Close(); err != nil {
		s.logger.Warn("journal close failed", logging.Error(err))
	}
}

func commandPath(cmd *cobra.Command) string {
	path := cmd.CommandPath()
	if root := cmd.Root(); root != nil {
		path = strings.TrimPrefix(path, root.Name()+" ")
	}
	return path
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
