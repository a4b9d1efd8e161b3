// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/jester-report/internal/models"
)

// Ratings are ordered by (timestamp, id) so that when a user rated the same
// joke more than once, the most recent rating is applied last.
const (
	selectAllRatings = `SELECT id, user_id, joke_id, rating, timestamp
		FROM ratings
		ORDER BY timestamp, id`

	selectRatingsBetween = `SELECT id, user_id, joke_id, rating, timestamp
		FROM ratings
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp, id`
)

// CountRaters returns the number of rows in the raters table.
func (db *DB) CountRaters(ctx context.Context) (int, error) {
	return db.count(ctx, "raters")
}

// CountJokes returns the number of rows in the jokes table.
func (db *DB) CountJokes(ctx context.Context) (int, error) {
	return db.count(ctx, "jokes")
}

// CountRatings returns the number of rows in the ratings table.
func (db *DB) CountRatings(ctx context.Context) (int, error) {
	return db.count(ctx, "ratings")
}

// count runs SELECT COUNT(*) on one of the fixed rating tables.
func (db *DB) count(ctx context.Context, table string) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	// table is one of the constant names above, never user input.
	query := "SELECT COUNT(*) FROM " + table //nolint:gosec
	if err := db.conn.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return int(n), nil
}

// Raters returns every rater ordered by id.
func (db *DB) Raters(ctx context.Context) ([]models.Rater, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, "SELECT id, jokes_rated FROM raters ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query raters: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var raters []models.Rater
	for rows.Next() {
		var r models.Rater
		var jokesRated sql.NullInt64
		if err := rows.Scan(&r.ID, &jokesRated); err != nil {
			return nil, fmt.Errorf("failed to scan rater: %w", err)
		}
		r.JokesRated = int(jokesRated.Int64)
		raters = append(raters, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating raters: %w", err)
	}
	return raters, nil
}

// AllRatings returns the full rating history.
func (db *DB) AllRatings(ctx context.Context) ([]models.Rating, error) {
	return db.queryRatings(ctx, selectAllRatings)
}

// RatingsBetween returns ratings with start <= timestamp < end.
// Bounds are converted to UTC to match the zone-less TIMESTAMP column.
func (db *DB) RatingsBetween(ctx context.Context, start, end time.Time) ([]models.Rating, error) {
	return db.queryRatings(ctx, selectRatingsBetween, start.UTC(), end.UTC())
}

// queryRatings scans rating rows in result order.
func (db *DB) queryRatings(ctx context.Context, query string, args ...any) ([]models.Rating, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		var raw any
		if err := rows.Scan(&r.ID, &r.UserID, &r.JokeID, &raw, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		value, err := ratingValue(raw)
		if err != nil {
			return nil, fmt.Errorf("rating %d: %w", r.ID, err)
		}
		r.Value = value
		r.Timestamp = r.Timestamp.UTC()
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}

// ratingValue converts the scanned rating column to float64. DECIMAL columns
// arrive as duckdb.Decimal; a writer that stores DOUBLE or INTEGER is accepted too.
func ratingValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case duckdb.Decimal:
		return v.Float64(), nil
	case *duckdb.Decimal:
		return v.Float64(), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unsupported rating type %T", raw)
	}
}
