// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Package mail delivers the rendered report over SMTP.
//
// A Transport sends one Message to all of its recipients. SMTPTransport talks
// to a relay directly: the whole session, dial included, is bounded by the
// configured timeout so a stuck relay cannot hang the job. Failures are
// returned as *DeliveryError carrying a code that tells an operator what went
// wrong (connection, authentication, timeout, rejected recipient).
//
// BreakerTransport wraps another Transport in a circuit breaker. The
// long-running scheduled mode uses it so a relay that keeps failing is not
// dialed on every run; while open, sends fail fast with CodeCircuitOpen.
//
// Credentials are never logged.
package mail
