// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jester-report/internal/logging"
)

// RunFunc executes one scheduled run.
type RunFunc func(ctx context.Context) error

// Scheduler fires a RunFunc on a cron schedule.
type Scheduler struct {
	spec       string
	location   *time.Location
	runTimeout time.Duration
	run        RunFunc

	// logger is handed to every run through its context.
	logger zerolog.Logger

	cron    *cron.Cron
	entryID cron.EntryID
	job     cron.Job

	mu      sync.Mutex
	baseCtx context.Context
	running bool

	runs     atomic.Int64
	failures atomic.Int64
}

// New parses spec (standard 5-field cron or a descriptor such as @daily)
// and returns a stopped scheduler.
func New(spec string, loc *time.Location, run RunFunc, runTimeout time.Duration) (*Scheduler, error) {
	if run == nil {
		return nil, errors.New("run function must not be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if runTimeout <= 0 {
		return nil, fmt.Errorf("run timeout must be positive, got %v", runTimeout)
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	logger := newCronLogger()
	s := &Scheduler{
		spec:       spec,
		location:   loc,
		runTimeout: runTimeout,
		run:        run,
		logger:     logging.WithComponent("scheduler"),
		cron:       cron.New(cron.WithLocation(loc), cron.WithLogger(logger)),
	}
	s.job = cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(s.execute))
	s.entryID = s.cron.Schedule(schedule, s.job)
	return s, nil
}

// Start begins firing the schedule. Runs derive their context from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("scheduler already running")
	}
	s.baseCtx = ctx
	s.running = true
	s.cron.Start()

	logging.Info().
		Str("cron", s.spec).
		Str("timezone", s.location.String()).
		Time("next_run", s.Next()).
		Msg("Report scheduler started")
	return nil
}

// Stop halts the schedule and waits for an in-flight run to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	logging.Info().Int64("runs", s.runs.Load()).Msg("Report scheduler stopped")
}

// Serve implements suture.Service. It blocks until ctx is cancelled.
func (s *Scheduler) Serve(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logs.
func (s *Scheduler) String() string {
	return "report-scheduler"
}

// Next returns the next time the schedule fires, or the zero time when stopped.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Runs returns how many runs have executed.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Failures returns how many runs returned an error.
func (s *Scheduler) Failures() int64 {
	return s.failures.Load()
}

// execute runs once with its own timeout.
func (s *Scheduler) execute() {
	s.mu.Lock()
	base := s.baseCtx
	s.mu.Unlock()
	if base == nil {
		base = context.Background()
	}
	if base.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(base, s.runTimeout)
	defer cancel()
	ctx = logging.ContextWithLogger(ctx, s.logger)

	s.runs.Add(1)
	if err := s.run(ctx); err != nil {
		s.failures.Add(1)
		s.logger.Warn().Err(err).Time("next_run", s.Next()).Msg("Scheduled report run failed")
		return
	}
	s.logger.Debug().Time("next_run", s.Next()).Msg("Scheduled report run finished")
}
