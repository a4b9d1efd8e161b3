// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/jester-report/internal/config"
	"github.com/tomtom215/jester-report/internal/database"
	"github.com/tomtom215/jester-report/internal/job"
	"github.com/tomtom215/jester-report/internal/logging"
	"github.com/tomtom215/jester-report/internal/mail"
	"github.com/tomtom215/jester-report/internal/report"
	"github.com/tomtom215/jester-report/internal/scheduler"
	"github.com/tomtom215/jester-report/internal/supervisor"
)

var _ job.Store = (*database.DB)(nil)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet; the default logger writes JSON to stderr.
		logging.Error().Err(err).Msg("Failed to load configuration")
		return exitConfig
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	opts, err := job.OptionsFromConfig(cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Invalid report options")
		return exitConfig
	}

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("smtp", cfg.Mail.Host).
		Int("recipients", len(cfg.Mail.Recipients)).
		Str("timezone", opts.Location.String()).
		Bool("dry_run", opts.DryRun).
		Bool("scheduled", cfg.Schedule.Enabled).
		Msg("Starting Jester report")

	// A broken template fails fast instead of at the first scheduled run.
	if _, err := report.NewTemplateEngine().Load(opts.TemplatePath); err != nil {
		logging.Error().Err(err).Str("stage", string(job.StageTemplate)).Msg("Failed to load report template")
		return exitTemplate
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var transport mail.Transport = mail.NewSMTPTransport(&cfg.Mail)

	if cfg.Schedule.Enabled {
		// The database is opened per run: a handle held between runs keeps
		// the file lock and locks the ratings writer out.
		transport = mail.NewBreakerTransport(transport, cfg.Schedule.BreakerFailures, cfg.Schedule.BreakerTimeout)
		runner := job.NewRunnerWithOpener(openStore(&cfg.Database), transport, opts)
		return serveScheduled(ctx, cfg, runner, opts.Location)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Error().Err(err).Str("stage", string(job.StageStorage)).Msg("Failed to open ratings database")
		return exitStorage
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	_, err = job.NewRunner(db, transport, opts).Run(ctx)
	return exitCode(err)
}

// openStore returns an opener that gives each scheduled run its own handle.
func openStore(cfg *config.DatabaseConfig) job.StoreOpener {
	return func(context.Context) (job.Store, io.Closer, error) {
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	}
}

// serveScheduled runs the report on the configured cron schedule until ctx
// is cancelled.
func serveScheduled(ctx context.Context, cfg *config.Config, runner *job.Runner, loc *time.Location) int {
	sched, err := scheduler.New(cfg.Schedule.Cron, loc, func(ctx context.Context) error {
		_, err := runner.Run(ctx)
		return err
	}, cfg.Schedule.RunTimeout)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create report scheduler")
		return exitConfig
	}

	treeCfg := supervisor.DefaultTreeConfig()
	// Give an in-flight run the chance to finish on shutdown.
	treeCfg.ShutdownTimeout = cfg.Schedule.RunTimeout + 5*time.Second

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), treeCfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return exitConfig
	}
	tree.AddJobService(sched)

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor stopped unexpectedly")
		return exitOther
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	logging.Info().Int64("runs", sched.Runs()).Int64("failed_runs", sched.Failures()).Msg("Jester report scheduler shut down")
	return exitOK
}
