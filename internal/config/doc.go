// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

/*
Package config provides configuration loading and validation for jester-report.

# Configuration Sources

Koanf v2 layers three sources, later ones winning:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/jester-report/config.yaml
  - Environment variables listed in envMappings

# Environment Variables

Database:
  - DUCKDB_PATH: ratings database file (default: /data/jester.duckdb)
  - DUCKDB_READ_ONLY: open read-only (default: true)

Report:
  - REPORT_TEMPLATE_PATH: Go text/template file (default: built-in)
  - REPORT_SUBJECT: email subject (default: Jester v5 Daily Report)
  - REPORT_TOP_RATED, REPORT_TOP_VARIANCE: ranking sizes (default: 10)
  - REPORT_TIMEZONE: zone for "today"/"yesterday" (default: UTC)
  - REPORT_ARCHIVE_DIR: write a JSON copy of each report
  - REPORT_DRY_RUN: render without sending

Mail:
  - SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, SMTP_USE_TLS
  - SMTP_FROM, SMTP_FROM_NAME, SMTP_TIMEOUT
  - REPORT_RECIPIENTS: comma-separated list

Metrics and scheduling:
  - PUSHGATEWAY_URL, METRICS_JOB_NAME
  - SCHEDULE_ENABLED, SCHEDULE_CRON, SCHEDULE_RUN_TIMEOUT
  - SCHEDULE_BREAKER_FAILURES, SCHEDULE_BREAKER_TIMEOUT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
