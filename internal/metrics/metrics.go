// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run outcomes used as the outcome label.
const (
	OutcomeSuccess       = "success"
	OutcomeStorageError  = "storage_error"
	OutcomeTemplateError = "template_error"
	OutcomeDeliveryError = "delivery_error"
	OutcomeError         = "error"
)

// Rating windows used as the window label.
const (
	WindowAll   = "all"
	WindowDaily = "daily"
)

// Registry holds every report collector.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	RunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jester_report_runs_total",
			Help: "Total number of report runs by outcome",
		},
		[]string{"outcome"},
	)

	RunDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jester_report_run_duration_seconds",
			Help:    "Duration of report runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	RatingsLoaded = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jester_report_ratings_loaded",
			Help: "Number of ratings read in the last run",
		},
		[]string{"window"},
	)

	MailSendDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jester_report_mail_send_duration_seconds",
			Help:    "Duration of SMTP sessions in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	LastSuccess = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "jester_report_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful report run",
		},
	)

	MailBreakerState = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "jester_report_mail_breaker_state",
			Help: "Mail circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordRun records the outcome and duration of one run.
func RecordRun(outcome string, duration time.Duration) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		LastSuccess.SetToCurrentTime()
	}
}

// RecordRatingsLoaded records how many ratings a window contained.
func RecordRatingsLoaded(window string, count int) {
	RatingsLoaded.WithLabelValues(window).Set(float64(count))
}

// RecordMailSend records the duration of one SMTP session.
func RecordMailSend(duration time.Duration) {
	MailSendDuration.Observe(duration.Seconds())
}

// SetMailBreakerState records the breaker state as 0 closed, 1 half-open or 2 open.
func SetMailBreakerState(state float64) {
	MailBreakerState.Set(state)
}

// Push sends every collector in Registry to the Pushgateway at url under the
// given job name, replacing the previous push for that job.
func Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
