// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package database

import (
	"context"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/jester-report/internal/models"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func seedRatings(t *testing.T, db *DB) {
	t.Helper()
	insertRaters(t, db,
		models.Rater{ID: 1, JokesRated: 2},
		models.Rater{ID: 2, JokesRated: 1},
		models.Rater{ID: 3, JokesRated: 0},
	)
	insertJokes(t, db, 3)
	insertRatings(t, db,
		models.Rating{ID: 1, UserID: 1, JokeID: 1, Value: 5.00, Timestamp: day.Add(-2 * time.Hour)},
		models.Rating{ID: 2, UserID: 1, JokeID: 2, Value: 3.25, Timestamp: day.Add(9 * time.Hour)},
		models.Rating{ID: 3, UserID: 2, JokeID: 1, Value: -9.87, Timestamp: day.Add(23*time.Hour + 59*time.Minute)},
		models.Rating{ID: 4, UserID: 2, JokeID: 3, Value: 10.00, Timestamp: day.Add(24 * time.Hour)},
	)
}

func TestCounts(t *testing.T) {
	db := setupTestDB(t)
	seedRatings(t, db)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func(context.Context) (int, error)
		want int
	}{
		{"raters", db.CountRaters, 3},
		{"jokes", db.CountJokes, 3},
		{"ratings", db.CountRatings, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRaters(t *testing.T) {
	db := setupTestDB(t)
	seedRatings(t, db)

	raters, err := db.Raters(context.Background())
	if err != nil {
		t.Fatalf("Raters: %v", err)
	}
	if len(raters) != 3 {
		t.Fatalf("expected 3 raters, got %d", len(raters))
	}
	want := []int{2, 1, 0}
	for i, r := range raters {
		if r.ID != int64(i+1) {
			t.Errorf("raters[%d].ID = %d, want %d", i, r.ID, i+1)
		}
		if r.JokesRated != want[i] {
			t.Errorf("raters[%d].JokesRated = %d, want %d", i, r.JokesRated, want[i])
		}
	}
}

func TestAllRatings_DecimalConversion(t *testing.T) {
	db := setupTestDB(t)
	seedRatings(t, db)

	ratings, err := db.AllRatings(context.Background())
	if err != nil {
		t.Fatalf("AllRatings: %v", err)
	}
	if len(ratings) != 4 {
		t.Fatalf("expected 4 ratings, got %d", len(ratings))
	}

	want := []float64{5.00, 3.25, -9.87, 10.00}
	for i, r := range ratings {
		if math.Abs(r.Value-want[i]) > 1e-9 {
			t.Errorf("ratings[%d].Value = %v, want %v", i, r.Value, want[i])
		}
		if !r.InRange() {
			t.Errorf("ratings[%d] out of range: %v", i, r.Value)
		}
	}
}

func TestAllRatings_OrderedByTimestamp(t *testing.T) {
	db := setupTestDB(t)
	insertRaters(t, db, models.Rater{ID: 1, JokesRated: 1})
	insertJokes(t, db, 1)
	// Same user and joke rated twice; the later rating has the lower id.
	insertRatings(t, db,
		models.Rating{ID: 1, UserID: 1, JokeID: 1, Value: 7, Timestamp: day.Add(2 * time.Hour)},
		models.Rating{ID: 2, UserID: 1, JokeID: 1, Value: -3, Timestamp: day.Add(time.Hour)},
	)

	ratings, err := db.AllRatings(context.Background())
	if err != nil {
		t.Fatalf("AllRatings: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(ratings))
	}
	if ratings[0].ID != 2 || ratings[1].ID != 1 {
		t.Errorf("expected timestamp order [2 1], got [%d %d]", ratings[0].ID, ratings[1].ID)
	}
}

func TestRatingsBetween_HalfOpenWindow(t *testing.T) {
	db := setupTestDB(t)
	seedRatings(t, db)

	ratings, err := db.RatingsBetween(context.Background(), day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("RatingsBetween: %v", err)
	}

	// Rating 1 is before the window and rating 4 sits exactly on the end bound.
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings in window, got %d", len(ratings))
	}
	if ratings[0].ID != 2 || ratings[1].ID != 3 {
		t.Errorf("expected ids [2 3], got [%d %d]", ratings[0].ID, ratings[1].ID)
	}
}

func TestRatingsBetween_ConvertsZone(t *testing.T) {
	db := setupTestDB(t)
	seedRatings(t, db)

	// Midnight in UTC-5 is 05:00 UTC, which excludes rating 1 (22:00 UTC the
	// previous day) and includes rating 4 (00:00 UTC the next day).
	loc := time.FixedZone("EST", -5*60*60)
	start := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)

	ratings, err := db.RatingsBetween(context.Background(), start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("RatingsBetween: %v", err)
	}
	if len(ratings) != 3 {
		t.Fatalf("expected 3 ratings in shifted window, got %d", len(ratings))
	}
	if ratings[2].ID != 4 {
		t.Errorf("expected last rating id 4, got %d", ratings[2].ID)
	}
}

func TestRatingsBetween_Empty(t *testing.T) {
	db := setupTestDB(t)

	ratings, err := db.RatingsBetween(context.Background(), day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("RatingsBetween: %v", err)
	}
	if len(ratings) != 0 {
		t.Errorf("expected no ratings, got %d", len(ratings))
	}
}

func TestRatingValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     any
		want    float64
		wantErr bool
	}{
		{"decimal", duckdb.Decimal{Width: 4, Scale: 2, Value: big.NewInt(-987)}, -9.87, false},
		{"float64", 4.5, 4.5, false},
		{"float32", float32(2.5), 2.5, false},
		{"int64", int64(-10), -10, false},
		{"int32", int32(3), 3, false},
		{"string", "4.5", 0, true},
		{"nil", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ratingValue(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ratingValue(%v) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ratingValue(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
