// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Package scheduler triggers report runs on a cron schedule.
//
// It is only used when the process stays up (schedule.enabled). The default
// deployment runs the job once per invocation from an external scheduler.
//
// Runs never overlap: a trigger that fires while the previous run is still
// going is skipped and logged. Each run gets its own timeout derived from the
// scheduler's context, so cancelling the scheduler also cancels the run.
//
// The Scheduler implements suture.Service through Serve and is normally
// hosted by the supervisor tree:
//
//	sched, err := scheduler.New(cfg.Schedule.Cron, loc, runFn, cfg.Schedule.RunTimeout)
//	if err != nil {
//	    return err
//	}
//	tree.AddJobService(sched)
package scheduler
