// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/jester-report/internal/logging"
	"github.com/tomtom215/jester-report/internal/metrics"
	"github.com/tomtom215/jester-report/internal/models"
	"github.com/tomtom215/jester-report/internal/stats"
)

// Store is the read-only storage the job needs.
type Store interface {
	CountRaters(ctx context.Context) (int, error)
	CountJokes(ctx context.Context) (int, error)
	CountRatings(ctx context.Context) (int, error)
	Raters(ctx context.Context) ([]models.Rater, error)
	AllRatings(ctx context.Context) ([]models.Rating, error)
	RatingsBetween(ctx context.Context, start, end time.Time) ([]models.Rating, error)
}

// Window is the half-open daily interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// DailyWindow returns yesterday 00:00 to today 00:00 in now's location.
func DailyWindow(now time.Time) Window {
	y, m, d := now.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return Window{Start: time.Date(y, m, d-1, 0, 0, 0, 0, now.Location()), End: end}
}

// dataset is everything a run reads from storage.
type dataset struct {
	users, jokes, totalRatings int
	raters                     []models.Rater
	all, daily                 []models.Rating
}

// load reads the counts and rating sets for one run.
func load(ctx context.Context, store Store, window Window) (*dataset, error) {
	var ds dataset
	var err error

	if ds.users, err = store.CountRaters(ctx); err != nil {
		return nil, fmt.Errorf("count raters: %w", err)
	}
	if ds.jokes, err = store.CountJokes(ctx); err != nil {
		return nil, fmt.Errorf("count jokes: %w", err)
	}
	if ds.totalRatings, err = store.CountRatings(ctx); err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}
	if ds.raters, err = store.Raters(ctx); err != nil {
		return nil, fmt.Errorf("load raters: %w", err)
	}
	if ds.all, err = store.AllRatings(ctx); err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	if ds.daily, err = store.RatingsBetween(ctx, window.Start, window.End); err != nil {
		return nil, fmt.Errorf("load daily ratings: %w", err)
	}

	if n := countOffScale(ds.all); n > 0 {
		logging.Ctx(ctx).Warn().
			Int("ratings", n).
			Float64("min", models.MinRatingValue).
			Float64("max", models.MaxRatingValue).
			Msg("Ratings outside the rating scale are included as stored")
	}

	metrics.RecordRatingsLoaded(metrics.WindowAll, len(ds.all))
	metrics.RecordRatingsLoaded(metrics.WindowDaily, len(ds.daily))
	return &ds, nil
}

// buildMatrix fills a users x jokes matrix and logs ratings it could not place.
func buildMatrix(ctx context.Context, name string, users, jokes int, ratings []models.Rating) *stats.Matrix {
	m := stats.NewMatrix(users, jokes)
	res := m.Fill(ratings)

	logger := logging.Ctx(ctx)
	if len(res.Skipped) > 0 {
		logger.Warn().
			Str("matrix", name).
			Int("skipped", len(res.Skipped)).
			Ints64("rating_ids", firstIDs(res.Skipped, 20)).
			Int("users", users).
			Int("jokes", jokes).
			Msg("Ratings reference users or jokes outside the counted range")
	}
	if res.Overwritten > 0 {
		logger.Debug().
			Str("matrix", name).
			Int("overwritten", res.Overwritten).
			Msg("Repeated ratings replaced earlier ones")
	}
	return m
}

func countOffScale(ratings []models.Rating) int {
	n := 0
	for i := range ratings {
		if !ratings[i].InRange() {
			n++
		}
	}
	return n
}

func firstIDs(ids []int64, n int) []int64 {
	return ids[:min(n, len(ids))]
}
