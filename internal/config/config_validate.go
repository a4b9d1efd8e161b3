// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/jester-report/internal/validation"
)

// Validate checks that required configuration is present and valid.
// Field-level rules live in the validate struct tags; the cross-field
// rules below cover what tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateTimezone(); err != nil {
		return err
	}

	if err := c.validateMail(); err != nil {
		return err
	}

	return c.validateSchedule()
}

// validateTimezone ensures the report timezone resolves
func (c *Config) validateTimezone() error {
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("REPORT_TIMEZONE %q is invalid: %w", c.Report.Timezone, err)
	}
	return nil
}

// validateMail checks envelope settings. A dry run never sends, so sender and
// recipients are only required when the report is actually mailed.
func (c *Config) validateMail() error {
	if c.Report.DryRun {
		return nil
	}
	if c.Mail.From == "" {
		return fmt.Errorf("SMTP_FROM is required unless REPORT_DRY_RUN=true")
	}
	if len(c.Mail.Recipients) == 0 {
		return fmt.Errorf("REPORT_RECIPIENTS must list at least one address unless REPORT_DRY_RUN=true")
	}
	if (c.Mail.Username == "") != (c.Mail.Password == "") {
		return fmt.Errorf("SMTP_USER and SMTP_PASSWORD must be set together")
	}
	return nil
}

// validateSchedule checks the cron expression (only if enabled)
func (c *Config) validateSchedule() error {
	if !c.Schedule.Enabled {
		return nil
	}
	if c.Schedule.Cron == "" {
		return fmt.Errorf("SCHEDULE_CRON is required when SCHEDULE_ENABLED=true")
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("SCHEDULE_CRON %q is invalid: %w", c.Schedule.Cron, err)
	}
	return nil
}
