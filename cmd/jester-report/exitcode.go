// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package main

import (
	"errors"

	"github.com/tomtom215/jester-report/internal/job"
)

// Process exit codes.
const (
	exitOK       = 0
	exitConfig   = 1
	exitStorage  = 2
	exitTemplate = 3
	exitDelivery = 4
	exitOther    = 5
)

// exitCode maps a run error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, job.ErrStorage):
		return exitStorage
	case errors.Is(err, job.ErrTemplate):
		return exitTemplate
	case errors.Is(err, job.ErrDelivery):
		return exitDelivery
	default:
		return exitOther
	}
}
