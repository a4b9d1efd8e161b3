// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tomtom215/jester-report/internal/job"
	"github.com/tomtom215/jester-report/internal/mail"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: exitOK},
		{name: "storage", err: &job.StageError{Stage: job.StageStorage, Err: errors.New("database is locked")}, want: exitStorage},
		{name: "template", err: &job.StageError{Stage: job.StageTemplate, Err: errors.New("missing field")}, want: exitTemplate},
		{
			name: "delivery",
			err:  &job.StageError{Stage: job.StageDelivery, Err: &mail.DeliveryError{Code: mail.CodeTimeout, Err: errors.New("i/o timeout")}},
			want: exitDelivery,
		},
		{name: "wrapped stage", err: fmt.Errorf("scheduled run: %w", &job.StageError{Stage: job.StageDelivery, Err: errors.New("x")}), want: exitDelivery},
		{name: "unclassified", err: errors.New("panic recovered"), want: exitOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
