// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Package database provides read access to the Jester ratings store in DuckDB.
//
// # Overview
//
// The report job only reads. By default the database file is opened with
// access_mode=READ_ONLY so the job can run next to the writer that collects
// ratings. When opened read-write (tests, local seeding) the schema is
// created if it does not exist.
//
// # Schema
//
//	raters  (id BIGINT PRIMARY KEY, jokes_rated INTEGER)
//	jokes   (id BIGINT PRIMARY KEY)
//	ratings (id BIGINT PRIMARY KEY, user_id BIGINT, joke_id BIGINT,
//	         rating DECIMAL(4,2), timestamp TIMESTAMP)
//
// Ratings are fixed-point in storage and converted to float64 before they
// leave this package. TIMESTAMP columns carry no zone and are treated as UTC.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	daily, err := db.RatingsBetween(ctx, start, end)
//
// # Thread Safety
//
// DB wraps a *sql.DB and is safe for concurrent use.
package database
