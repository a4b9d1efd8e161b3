// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package job

import (
	"errors"
	"fmt"
)

// Stage names the part of a run that failed.
type Stage string

// Run stages that can fail.
const (
	StageStorage  Stage = "storage"
	StageTemplate Stage = "template"
	StageDelivery Stage = "delivery"
)

// Sentinels matched by errors.Is against a *StageError.
var (
	ErrStorage  = errors.New("storage failure")
	ErrTemplate = errors.New("template failure")
	ErrDelivery = errors.New("delivery failure")
)

// StageError wraps a run failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's stage.
func (e *StageError) Is(target error) bool {
	switch e.Stage {
	case StageStorage:
		return target == ErrStorage
	case StageTemplate:
		return target == ErrTemplate
	case StageDelivery:
		return target == ErrDelivery
	}
	return false
}

func stageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
