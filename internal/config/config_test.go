// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package config

import (
	"strings"
	"testing"
)

// validConfig returns a configuration that passes Validate()
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Mail.From = "jester@example.com"
	cfg.Mail.Recipients = []string{"ops@example.com"}
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid defaults with envelope",
			mutate: func(*Config) {},
		},
		{
			name: "dry run needs no envelope",
			mutate: func(c *Config) {
				c.Report.DryRun = true
				c.Mail.From = ""
				c.Mail.Recipients = nil
			},
		},
		{
			name:    "missing sender",
			mutate:  func(c *Config) { c.Mail.From = "" },
			wantErr: "SMTP_FROM is required",
		},
		{
			name:    "missing recipients",
			mutate:  func(c *Config) { c.Mail.Recipients = nil },
			wantErr: "REPORT_RECIPIENTS must list at least one address",
		},
		{
			name:    "invalid recipient",
			mutate:  func(c *Config) { c.Mail.Recipients = []string{"not-an-address"} },
			wantErr: "must be a valid email address",
		},
		{
			name:    "user without password",
			mutate:  func(c *Config) { c.Mail.Username = "jester" },
			wantErr: "SMTP_USER and SMTP_PASSWORD must be set together",
		},
		{
			name:    "negative top rated",
			mutate:  func(c *Config) { c.Report.TopRated = -1 },
			wantErr: "TopRated must be greater than or equal to 0",
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Report.Timezone = "Mars/Olympus_Mons" },
			wantErr: "REPORT_TIMEZONE",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "Format must be one of",
		},
		{
			name:    "bad pushgateway url",
			mutate:  func(c *Config) { c.Metrics.PushgatewayURL = "not a url" },
			wantErr: "PushgatewayURL must be a valid URL",
		},
		{
			name: "schedule with bad cron",
			mutate: func(c *Config) {
				c.Schedule.Enabled = true
				c.Schedule.Cron = "every day"
			},
			wantErr: "SCHEDULE_CRON",
		},
		{
			name: "schedule with valid cron",
			mutate: func(c *Config) {
				c.Schedule.Enabled = true
				c.Schedule.Cron = "30 5 * * 1-5"
			},
		},
		{
			name:   "disabled schedule ignores cron",
			mutate: func(c *Config) { c.Schedule.Cron = "garbage" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}
