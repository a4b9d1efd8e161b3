// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/jester-report/internal/logging"
	"github.com/tomtom215/jester-report/internal/mail"
	"github.com/tomtom215/jester-report/internal/metrics"
	"github.com/tomtom215/jester-report/internal/models"
	"github.com/tomtom215/jester-report/internal/report"
	"github.com/tomtom215/jester-report/internal/stats"
)

// metricsPushTimeout bounds the Pushgateway request at the end of a run.
const metricsPushTimeout = 10 * time.Second

// StoreOpener opens the ratings store for a single run. The closer is
// called as soon as the run has loaded its ratings.
type StoreOpener func(ctx context.Context) (Store, io.Closer, error)

// Runner executes report runs.
type Runner struct {
	store     Store
	open      StoreOpener
	transport mail.Transport
	engine    *report.TemplateEngine
	opts      Options

	// now is replaced in tests.
	now func() time.Time
}

// NewRunner creates a runner. transport may be nil for dry runs.
func NewRunner(store Store, transport mail.Transport, opts Options) *Runner {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Runner{
		store:     store,
		transport: transport,
		engine:    report.NewTemplateEngine(),
		opts:      opts,
		now:       time.Now,
	}
}

// NewRunnerWithOpener creates a runner that opens the store at the start of
// each run and releases it before rendering. A long-lived process uses it so
// no database handle is held between runs.
func NewRunnerWithOpener(open StoreOpener, transport mail.Transport, opts Options) *Runner {
	r := NewRunner(nil, transport, opts)
	r.open = open
	return r
}

// Result describes a completed run.
type Result struct {
	RunID       string
	Window      Window
	Params      report.Params
	Fields      map[string]any
	Body        string
	Sent        bool
	ArchivePath string
}

// Run executes one report run. The run is logged under a fresh run id.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := logging.GenerateRunID()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.Ctx(ctx)

	start := time.Now()
	result, err := r.run(ctx, runID)
	duration := time.Since(start)

	outcome := outcomeFor(err)
	metrics.RecordRun(outcome, duration)
	r.pushMetrics(ctx)

	if err != nil {
		var se *StageError
		stage := "unknown"
		if errors.As(err, &se) {
			stage = string(se.Stage)
		}
		event := logger.Error()
		if stage == string(StageDelivery) {
			// A relay outage may clear by the next run; a rejected
			// envelope needs an operator.
			code := mail.ErrorCode(err)
			if mail.IsTransient(code) {
				event = logger.Warn()
			}
			event = event.Str("code", code)
		}
		event.Err(err).Str("stage", stage).Dur("duration", duration).Msg("Report run failed")
		return nil, err
	}

	logger.Info().
		Bool("sent", result.Sent).
		Bool("dry_run", r.opts.DryRun).
		Dur("duration", duration).
		Msg("Report run completed")
	return result, nil
}

func (r *Runner) run(ctx context.Context, runID string) (*Result, error) {
	logger := logging.Ctx(ctx)
	now := r.now().In(r.opts.Location)
	window := DailyWindow(now)

	ds, err := r.loadDataset(ctx, window)
	if err != nil {
		return nil, stageError(StageStorage, err)
	}
	logger.Info().
		Int("users", ds.users).
		Int("jokes", ds.jokes).
		Int("ratings", len(ds.all)).
		Int("daily_ratings", len(ds.daily)).
		Time("window_start", window.Start).
		Time("window_end", window.End).
		Msg("Ratings loaded")

	params := r.buildParams(ctx, now, ds)

	fields, err := params.Fields()
	if err != nil {
		return nil, stageError(StageTemplate, err)
	}

	tmpl, err := r.engine.Load(r.opts.TemplatePath)
	if err != nil {
		return nil, stageError(StageTemplate, err)
	}
	body, err := tmpl.Render(fields)
	if err != nil {
		return nil, stageError(StageTemplate, err)
	}
	if unused := tmpl.Unused(fields); len(unused) > 0 {
		logger.Debug().Strs("fields", unused).Str("template", tmpl.Name()).Msg("Template does not use every report field")
	}

	result := &Result{
		RunID:  runID,
		Window: window,
		Params: params,
		Fields: fields,
		Body:   body,
	}

	if r.opts.ArchiveDir != "" {
		path, err := report.WriteArchive(r.opts.ArchiveDir, &report.Archive{
			RunID:       runID,
			GeneratedAt: now,
			Subject:     r.opts.Subject,
			Template:    tmpl.Name(),
			DryRun:      r.opts.DryRun,
			Fields:      fields,
			Body:        body,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to archive report")
		} else {
			result.ArchivePath = path
			logger.Debug().Str("path", path).Msg("Report archived")
		}
	}

	if r.opts.DryRun {
		logger.Info().Int("body_bytes", len(body)).Msg("Dry run, report not sent")
		return result, nil
	}

	if r.transport == nil {
		return nil, stageError(StageDelivery, errors.New("no mail transport configured"))
	}
	msg := &mail.Message{
		From:     r.opts.From,
		FromName: r.opts.FromName,
		To:       r.opts.Recipients,
		Subject:  r.opts.Subject,
		Body:     body,
		Date:     now,
		ReportID: runID,
	}
	if err := r.transport.Send(ctx, msg); err != nil {
		return nil, stageError(StageDelivery, err)
	}
	result.Sent = true
	logger.Info().Int("recipients", len(msg.To)).Msg("Report sent")

	return result, nil
}

// loadDataset reads the run's ratings, opening and closing the store when the
// runner was built with an opener.
func (r *Runner) loadDataset(ctx context.Context, window Window) (*dataset, error) {
	if r.open == nil {
		return load(ctx, r.store, window)
	}

	store, closer, err := r.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to close ratings store")
		}
	}()
	return load(ctx, store, window)
}

// buildParams computes every statistic the report shows.
func (r *Runner) buildParams(ctx context.Context, now time.Time, ds *dataset) report.Params {
	all := buildMatrix(ctx, "all", ds.users, ds.jokes, ds.all)
	daily := buildMatrix(ctx, "daily", ds.users, ds.jokes, ds.daily)

	return report.Params{
		Header: report.NewHeader(now),
		Daily: report.DailyStats{
			RatingsCount: len(ds.daily),
			Ratings:      stats.Describe(daily.Defined()),
		},
		Aggregate: report.AggregateStats{
			TotalUsers:   ds.users,
			TotalRatings: ds.totalRatings,
			Ratings:      stats.Describe(all.Defined()),
			JokesRated:   stats.Describe(stats.Ints(jokesRated(ds.raters))),
			TopRated:     stats.TopK(stats.RankColumns(all, stats.Mean), r.opts.TopRated),
			TopVariance:  stats.TopK(stats.RankColumns(all, stats.Variance), r.opts.TopVariance),
		},
	}
}

func (r *Runner) pushMetrics(ctx context.Context) {
	if r.opts.PushgatewayURL == "" {
		return
	}
	// The run context may already be cancelled; the push still deserves a try.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsPushTimeout)
	defer cancel()
	if err := metrics.Push(pushCtx, r.opts.PushgatewayURL, r.opts.MetricsJob); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to push metrics")
	}
}

func jokesRated(raters []models.Rater) []int {
	counts := make([]int, len(raters))
	for i, r := range raters {
		counts[i] = r.JokesRated
	}
	return counts
}

// outcomeFor maps a run error to the metrics outcome label.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrStorage):
		return metrics.OutcomeStorageError
	case errors.Is(err, ErrTemplate):
		return metrics.OutcomeTemplateError
	case errors.Is(err, ErrDelivery):
		return metrics.OutcomeDeliveryError
	default:
		return metrics.OutcomeError
	}
}
