// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Package report turns computed statistics into the text of the daily email.
//
// Report fields come from three ordered sections (header, daily, aggregate).
// Params.Fields merges them into one flat map and fails with a
// *DuplicateFieldError if two sections produce the same key, so a field can
// never be silently replaced.
//
// Templates use Go text/template syntax with one placeholder per field:
//
//	Ratings yesterday: {{.daily_ratings_count}}
//	{{range .top_rated_jokes}}{{.}}
//	{{end}}
//
// Before a template executes, its parse tree is checked against the field
// set and the first unknown key is returned as a *MissingFieldError naming
// it. Fields the template does not use are reported, not rejected.
//
// Rendered reports can be archived as JSON files for later inspection.
package report
