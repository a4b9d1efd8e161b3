// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package config

import (
	"fmt"
	"time"
)

// Config holds all job configuration loaded from defaults, an optional YAML
// file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Report   ReportConfig   `koanf:"report"`
	Mail     MailConfig     `koanf:"mail"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Schedule ScheduleConfig `koanf:"schedule"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings for the ratings store.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" is accepted for testing.
	Path string `koanf:"path" validate:"required"`

	// ReadOnly opens the database with access_mode=READ_ONLY.
	// The report job never writes ratings, so this is the default.
	ReadOnly bool `koanf:"read_only"`

	// Threads is the DuckDB worker thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads" validate:"gte=0"`

	// MaxMemory is the DuckDB memory limit (e.g. "1GB").
	MaxMemory string `koanf:"max_memory" validate:"required"`
}

// ReportConfig controls what the report contains and how it is rendered.
type ReportConfig struct {
	// TemplatePath points to a Go text/template file. Empty uses the built-in template.
	TemplatePath string `koanf:"template_path"`

	// Subject is the email subject line.
	Subject string `koanf:"subject" validate:"required"`

	// TopRated is how many jokes to list by mean rating.
	TopRated int `koanf:"top_rated" validate:"gte=0,lte=1000"`

	// TopVariance is how many jokes to list by rating variance.
	TopVariance int `koanf:"top_variance" validate:"gte=0,lte=1000"`

	// Timezone is the IANA zone used to compute "today" and "yesterday".
	Timezone string `koanf:"timezone" validate:"required"`

	// ArchiveDir, when set, receives a JSON copy of every rendered report.
	ArchiveDir string `koanf:"archive_dir"`

	// DryRun renders the report but skips the mail send.
	DryRun bool `koanf:"dry_run"`
}

// Location resolves Timezone. Validate() guarantees it loads.
func (r *ReportConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// MailConfig holds SMTP relay and envelope settings.
type MailConfig struct {
	Host     string `koanf:"host" validate:"required,hostname_rfc1123|ip"`
	Port     int    `koanf:"port" validate:"gte=1,lte=65535"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// UseTLS upgrades the connection with STARTTLS.
	UseTLS bool `koanf:"use_tls"`

	From       string   `koanf:"from" validate:"omitempty,email"`
	FromName   string   `koanf:"from_name"`
	Recipients []string `koanf:"recipients" validate:"dive,email"`

	// Timeout bounds the whole SMTP session, dial included.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// MetricsConfig controls the optional Prometheus Pushgateway push.
type MetricsConfig struct {
	// PushgatewayURL enables pushing run metrics when non-empty.
	PushgatewayURL string `koanf:"pushgateway_url" validate:"omitempty,url"`

	// JobName is the Pushgateway job label.
	JobName string `koanf:"job_name" validate:"required"`
}

// ScheduleConfig enables the built-in daily trigger.
// When disabled (the default) the process runs the report once and exits.
type ScheduleConfig struct {
	Enabled bool `koanf:"enabled"`

	// Cron is a standard 5-field cron expression evaluated in the report timezone.
	Cron string `koanf:"cron"`

	// RunTimeout bounds a single scheduled run.
	RunTimeout time.Duration `koanf:"run_timeout" validate:"gt=0"`

	// BreakerFailures is the number of consecutive delivery failures that
	// open the mail circuit breaker.
	BreakerFailures uint32 `koanf:"breaker_failures" validate:"gte=1"`

	// BreakerTimeout is how long the breaker stays open before a trial send.
	BreakerTimeout time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}
