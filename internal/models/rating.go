// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package models

import "time"

// Rating bounds. Values are stored as DECIMAL(4,2).
const (
	MinRatingValue = -10.0
	MaxRatingValue = 10.0
)

// Rating is one user's score for one joke.
type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	JokeID    int64     `json:"joke_id"`
	Value     float64   `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// InRange reports whether the rating value lies within the Jester scale.
func (r *Rating) InRange() bool {
	return r.Value >= MinRatingValue && r.Value <= MaxRatingValue
}

// Rater is a user of the rating system. JokesRated is maintained by the
// application that collects ratings and may be zero.
type Rater struct {
	ID         int64 `json:"id"`
	JokesRated int   `json:"jokes_rated"`
}
