package cli

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/onoff/internal/config"
	"github.com/roach88/onoff/internal/engine"
	"github.com/roach88/onoff/internal/metrics"
	"github.com/roach88/onoff/internal/store"
)

// session is the per-invocation wiring: config, store, engine and the
// metrics registry the engine reports to.
type session struct {
	opts     *RootOptions
	cmd      *cobra.Command
	cfg      *config.Config
	store    store.Store
	engine   *engine.Engine
	registry *prometheus.Registry
	logger   *slog.Logger
}

// openSession loads configuration and opens the configured store.
// Callers must Close the session.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Namespace != "" {
		cfg.Namespace = opts.Namespace
	}

	logger := newLogger(cmd, opts, cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Debug("opening store", "driver", cfg.Storage.Driver)
	st, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitFailure, "failed to register metrics", err)
	}

	eng, err := engine.New(st,
		engine.WithNamespace(cfg.Namespace),
		engine.WithLogger(logger),
		engine.WithMetrics(recorder),
	)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to create engine", err)
	}

	return &session{
		opts:     opts,
		cmd:      cmd,
		cfg:      cfg,
		store:    st,
		engine:   eng,
		registry: registry,
		logger:   logger,
	}, nil
}

// newLogger writes to stderr so stdout stays parseable. --verbose wins over
// the configured level.
func newLogger(cmd *cobra.Command, opts *RootOptions, cfg *config.Config) *slog.Logger {
	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if opts.Format == "json" {
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), hopts))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), hopts))
}

// warnIfEphemeral logs a warning before a write to the memory driver,
// whose records are gone when the process exits.
func (s *session) warnIfEphemeral() {
	if s.store.Driver() != store.DriverMemory {
		return
	}
	s.logger.Warn("memory storage driver: records last only for this invocation; set storage.driver or ONOFF_STORAGE_DRIVER to persist them",
		"command", s.cmd.Name(),
	)
}

// ctx returns the command context.
func (s *session) ctx() context.Context {
	if ctx := s.cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// base returns the --base flag when given, else the configured base.
func (s *session) base(flagValue int) int {
	if s.cmd.Flags().Changed("base") {
		return flagValue
	}
	return s.cfg.Base
}

// Close dumps metrics when requested and closes the store.
func (s *session) Close() error {
	if s.opts.Metrics {
		if err := metrics.WriteText(s.cmd.ErrOrStderr(), s.registry); err != nil {
			s.logger.Warn("failed to write metrics", "error", err)
		}
	}
	return s.store.Close()
}
