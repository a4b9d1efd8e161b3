// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/jester-report/config.yaml",
	"/etc/jester-report/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/jester.duckdb",
			ReadOnly:  true,
			Threads:   0, // 0 = use runtime.NumCPU()
			MaxMemory: "1GB",
		},
		Report: ReportConfig{
			TemplatePath: "", // built-in template
			Subject:      "Jester v5 Daily Report",
			TopRated:     10,
			TopVariance:  10,
			Timezone:     "UTC",
			ArchiveDir:   "",
			DryRun:       false,
		},
		Mail: MailConfig{
			Host:       "localhost",
			Port:       25,
			UseTLS:     false,
			From:       "",
			FromName:   "Jester",
			Recipients: []string{},
			Timeout:    30 * time.Second,
		},
		Metrics: MetricsConfig{
			PushgatewayURL: "",
			JobName:        "jester_report",
		},
		Schedule: ScheduleConfig{
			Enabled:         false, // one-shot by default, external cron drives it
			Cron:            "0 6 * * *",
			RunTimeout:      10 * time.Minute,
			BreakerFailures: 3,
			BreakerTimeout:  time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// The resulting Config is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// SMTP_HOST -> mail.host, REPORT_TOP_RATED -> report.top_rated
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"mail.recipients",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// YAML lists are already slices
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Database
	"duckdb_path":       "database.path",
	"duckdb_read_only":  "database.read_only",
	"duckdb_threads":    "database.threads",
	"duckdb_max_memory": "database.max_memory",

	// Report
	"report_template_path": "report.template_path",
	"report_subject":       "report.subject",
	"report_top_rated":     "report.top_rated",
	"report_top_variance":  "report.top_variance",
	"report_timezone":      "report.timezone",
	"report_archive_dir":   "report.archive_dir",
	"report_dry_run":       "report.dry_run",

	// Mail
	"smtp_host":         "mail.host",
	"smtp_port":         "mail.port",
	"smtp_user":         "mail.username",
	"smtp_password":     "mail.password",
	"smtp_use_tls":      "mail.use_tls",
	"smtp_from":         "mail.from",
	"smtp_from_name":    "mail.from_name",
	"smtp_timeout":      "mail.timeout",
	"report_recipients": "mail.recipients",

	// Metrics
	"pushgateway_url":  "metrics.pushgateway_url",
	"metrics_job_name": "metrics.job_name",

	// Schedule
	"schedule_enabled":          "schedule.enabled",
	"schedule_cron":             "schedule.cron",
	"schedule_run_timeout":      "schedule.run_timeout",
	"schedule_breaker_failures": "schedule.breaker_failures",
	"schedule_breaker_timeout":  "schedule.breaker_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return an empty string and are skipped, which keeps
// unrelated environment variables out of the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
