// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package job

import (
	"time"

	"github.com/tomtom215/jester-report/internal/config"
)

// Options controls what a run produces and where it goes.
type Options struct {
	// TemplatePath is the report template file. Empty uses the built-in template.
	TemplatePath string

	Subject    string
	From       string
	FromName   string
	Recipients []string

	// TopRated and TopVariance are the K of each ranking.
	TopRated    int
	TopVariance int

	// Location decides where "today" and "yesterday" begin.
	Location *time.Location

	// ArchiveDir receives a JSON copy of each report when set.
	ArchiveDir string

	// DryRun renders the report without sending it.
	DryRun bool

	// PushgatewayURL enables a metrics push at the end of each run.
	PushgatewayURL string
	MetricsJob     string
}

// OptionsFromConfig maps the loaded configuration onto run options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	loc, err := cfg.Report.Location()
	if err != nil {
		return Options{}, err
	}
	return Options{
		TemplatePath:   cfg.Report.TemplatePath,
		Subject:        cfg.Report.Subject,
		From:           cfg.Mail.From,
		FromName:       cfg.Mail.FromName,
		Recipients:     cfg.Mail.Recipients,
		TopRated:       cfg.Report.TopRated,
		TopVariance:    cfg.Report.TopVariance,
		Location:       loc,
		ArchiveDir:     cfg.Report.ArchiveDir,
		DryRun:         cfg.Report.DryRun,
		PushgatewayURL: cfg.Metrics.PushgatewayURL,
		MetricsJob:     cfg.Metrics.JobName,
	}, nil
}
