// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Package testinfra provides containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// # Mailpit Container
//
// MailpitContainer runs an SMTP sink with an HTTP API, so a test can send a
// real report over SMTP and then read back what arrived:
//
//	mp, err := testinfra.NewMailpitContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, mp.Container)
//
//	transport := mail.NewSMTPTransport(&config.MailConfig{Host: mp.SMTPHost, Port: mp.SMTPPort, Timeout: 10 * time.Second})
//	// ... run the job ...
//	msgs, err := mp.Messages(ctx)
//
// Tests are skipped when Docker is unavailable. The first run pulls the image.
package testinfra
