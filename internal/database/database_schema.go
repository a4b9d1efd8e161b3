// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package database

import (
	"context"
	"fmt"
)

// schemaQueries create the rating tables. The writer application owns the
// data; these definitions mirror its layout.
var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS raters (
		id BIGINT PRIMARY KEY,
		jokes_rated INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS jokes (
		id BIGINT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		joke_id BIGINT NOT NULL,
		rating DECIMAL(4,2) NOT NULL,
		timestamp TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_timestamp ON ratings(timestamp)`,
}

// createTables runs the schema queries in order.
func (db *DB) createTables(ctx context.Context) error {
	for _, query := range schemaQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}
	return nil
}
