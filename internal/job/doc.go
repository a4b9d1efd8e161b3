// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Package job runs one daily report from storage to mailbox.
//
// A run loads the full rating history and the previous day's ratings,
// builds the rating matrices, computes the statistics and rankings,
// renders the template and sends a single email. The storage handle and
// the mail transport are passed in, so a run can be exercised with fakes:
//
//	runner := job.NewRunner(db, transport, opts)
//	result, err := runner.Run(ctx)
//
// Every failure is returned as a *StageError so callers can tell a storage
// problem from a template mismatch or a delivery failure:
//
//	switch {
//	case errors.Is(err, job.ErrStorage):
//	case errors.Is(err, job.ErrTemplate):
//	case errors.Is(err, job.ErrDelivery):
//	}
//
// Missing or sparse data is never an error: empty statistics render as
// "n/a" and rankings shorter than K are clamped.
package job
