// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Package models defines the rating records read from storage.
//
// Ids are 1-based. The statistics package places rating (u, j) at matrix
// cell [u-1][j-1], so a gap in the id sequence leaves an unrated row or
// column rather than shifting later ids.
package models
