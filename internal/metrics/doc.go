// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

/*
Package metrics records Prometheus metrics for report runs.

The job is a batch process with no HTTP listener, so metrics are pushed to a
Prometheus Pushgateway at the end of each run instead of being scraped. All
collectors live in the package Registry rather than the default registry, so
a push carries only report metrics.

# Available Metrics

  - jester_report_runs_total: completed runs (counter)
    Labels: outcome (success, storage_error, template_error, delivery_error, error)
  - jester_report_run_duration_seconds: wall time of a run (histogram)
  - jester_report_ratings_loaded: ratings read in the last run (gauge)
    Labels: window (all, daily)
  - jester_report_mail_send_duration_seconds: SMTP session time (histogram)
  - jester_report_last_success_timestamp_seconds: Unix time of the last successful run (gauge)
  - jester_report_mail_breaker_state: mail circuit breaker state (gauge)
    Values: 0 closed, 1 half-open, 2 open

# Usage

	metrics.RecordRatingsLoaded(metrics.WindowDaily, len(daily))
	metrics.RecordRun(metrics.OutcomeSuccess, time.Since(start))
	if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
	    logging.Warn().Err(err).Msg("Metrics push failed")
	}
*/
package metrics
