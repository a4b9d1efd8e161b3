// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jester-report/internal/logging"
)

// cronLogger adapts cron's key/value logger to zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

var _ cron.Logger = cronLogger{}

func newCronLogger() cronLogger {
	return cronLogger{logger: logging.WithComponent("cron")}
}

// Info logs at debug level; cron reports every wakeup and schedule here.
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	addPairs(l.logger.Debug(), keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	addPairs(l.logger.Error().Err(err), keysAndValues).Msg(msg)
}

func addPairs(event *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		event = event.Interface(key, keysAndValues[i+1])
	}
	return event
}
