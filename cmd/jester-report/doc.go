// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Command jester-report mails the daily Jester rating statistics report.
//
// A run loads every rating plus yesterday's ratings from DuckDB, computes
// summary statistics and per-joke rankings, renders a text template and sends
// one email to the configured recipients.
//
// # Modes
//
// One-shot (default): run the report once and exit. Use this from cron,
// a systemd timer or a Kubernetes CronJob.
//
// Scheduled (SCHEDULE_ENABLED=true): stay up under a supervisor and run on
// SCHEDULE_CRON in REPORT_TIMEZONE. The mail transport is wrapped in a
// circuit breaker in this mode.
//
// # Configuration
//
// There are no flags. Settings come from built-in defaults, an optional YAML
// file (CONFIG_PATH, ./config.yaml, /etc/jester-report/config.yaml) and
// environment variables, highest priority last:
//
//	export DUCKDB_PATH=/data/jester.duckdb
//	export SMTP_HOST=smtp.example.com
//	export SMTP_FROM=jester@example.com
//	export REPORT_RECIPIENTS=ops@example.com,team@example.com
//	./jester-report
//
// REPORT_DRY_RUN=true renders and logs the report without sending it.
//
// # Exit Codes
//
//	0  report sent (or rendered, in a dry run)
//	1  configuration or startup failure
//	2  storage failure
//	3  template failure
//	4  delivery failure
//	5  any other run failure
//
// In scheduled mode the process exits 0 on SIGINT or SIGTERM; individual run
// failures are logged and do not stop the process.
package main
