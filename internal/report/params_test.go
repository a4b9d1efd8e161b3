// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package report

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/jester-report/internal/models"
	"github.com/tomtom215/jester-report/internal/stats"
)

// scenarioParams builds params for 2 users and 3 jokes with ratings
// (u1,j1)=5, (u1,j2)=3, (u2,j1)=4, all received yesterday.
func scenarioParams(topK int) Params {
	ratings := []models.Rating{
		{ID: 1, UserID: 1, JokeID: 1, Value: 5},
		{ID: 2, UserID: 1, JokeID: 2, Value: 3},
		{ID: 3, UserID: 2, JokeID: 1, Value: 4},
	}
	all := stats.NewMatrix(2, 3)
	all.Fill(ratings)
	daily := stats.NewMatrix(2, 3)
	daily.Fill(ratings)

	now := time.Date(2026, 3, 15, 6, 30, 5, 0, time.UTC)
	return Params{
		Header: NewHeader(now),
		Daily: DailyStats{
			RatingsCount: len(ratings),
			Ratings:      stats.Describe(daily.Defined()),
		},
		Aggregate: AggregateStats{
			TotalUsers:   2,
			TotalRatings: len(ratings),
			Ratings:      stats.Describe(all.Defined()),
			JokesRated:   stats.Describe(stats.Ints([]int{2, 1})),
			TopRated:     stats.TopK(stats.RankColumns(all, stats.Mean), topK),
			TopVariance:  stats.TopK(stats.RankColumns(all, stats.Variance), topK),
		},
	}
}

func TestParamsFields_Scenario(t *testing.T) {
	t.Parallel()

	p := scenarioParams(10)
	fields, err := p.Fields()
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}

	want := map[string]any{
		"time":                         "06:30:05",
		"today":                        "03/15/26",
		"yesterday":                    "03/14/26",
		"daily_ratings_count":          3,
		"mean_daily_rating":            "4.000",
		"median_daily_rating":          "4.000",
		"total_users":                  2,
		"total_ratings":                3,
		"mean_rating":                  "4.000",
		"median_rating":                "4.000",
		"min_rating":                   "3.000",
		"max_rating":                   "5.000",
		"mean_number_of_jokes_rated":   "1.500",
		"median_number_of_jokes_rated": "1.500",
		"min_number_of_jokes_rated":    "1",
		"max_number_of_jokes_rated":    "2",
		"top_rated_joke_1":             "Joke 1. Mean Rating: 4.500",
		"top_rated_joke_2":             "Joke 2. Mean Rating: 3.000",
		"top_variance_joke_1":          "Joke 1. Variance: 0.250",
		"top_variance_joke_2":          "Joke 2. Variance: 0.000",
	}
	for key, value := range want {
		if got := fields[key]; got != value {
			t.Errorf("fields[%q] = %#v, want %#v", key, got, value)
		}
	}

	// Joke 3 was never rated, so only two ranked lines exist.
	for _, key := range []string{"top_rated_joke_3", "top_variance_joke_3"} {
		if _, ok := fields[key]; ok {
			t.Errorf("unexpected field %q", key)
		}
	}
	if lines, ok := fields["top_rated_jokes"].([]string); !ok || len(lines) != 2 {
		t.Errorf("top_rated_jokes = %#v, want 2 lines", fields["top_rated_jokes"])
	}
}

func TestParamsFields_ClampsTopK(t *testing.T) {
	t.Parallel()

	p := scenarioParams(1)
	fields, err := p.Fields()
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if _, ok := fields["top_rated_joke_1"]; !ok {
		t.Error("expected top_rated_joke_1")
	}
	if _, ok := fields["top_rated_joke_2"]; ok {
		t.Error("top_rated_joke_2 should not exist for K=1")
	}
}

func TestParamsSections_Order(t *testing.T) {
	t.Parallel()

	p := scenarioParams(10)
	sections := p.Sections()
	want := []string{"header", "daily", "aggregate"}
	if len(sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(sections), len(want))
	}
	for i, name := range want {
		if sections[i].Name != name {
			t.Errorf("sections[%d].Name = %q, want %q", i, sections[i].Name, name)
		}
	}
}

func TestMergeSections_Duplicate(t *testing.T) {
	t.Parallel()

	_, err := MergeSections([]Section{
		{Name: "header", Fields: map[string]any{"today": "03/15/26"}},
		{Name: "daily", Fields: map[string]any{"daily_ratings_count": 3}},
		{Name: "aggregate", Fields: map[string]any{"today": "override"}},
	})

	var dup *DuplicateFieldError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateFieldError, got %v", err)
	}
	if dup.Field != "today" || dup.First != "header" || dup.Second != "aggregate" {
		t.Errorf("unexpected duplicate error: %+v", dup)
	}
}

func TestParamsFields_EmptyData(t *testing.T) {
	t.Parallel()

	empty := stats.NewMatrix(0, 0)
	p := Params{
		Header: NewHeader(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		Daily:  DailyStats{Ratings: stats.Describe(empty.Defined())},
		Aggregate: AggregateStats{
			Ratings:     stats.Describe(nil),
			JokesRated:  stats.Describe(nil),
			TopRated:    stats.TopK(stats.RankColumns(empty, stats.Mean), 10),
			TopVariance: stats.TopK(stats.RankColumns(empty, stats.Variance), 10),
		},
	}

	fields, err := p.Fields()
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	for _, key := range []string{"mean_daily_rating", "mean_rating", "min_rating", "min_number_of_jokes_rated"} {
		if fields[key] != NotAvailable {
			t.Errorf("fields[%q] = %v, want %q", key, fields[key], NotAvailable)
		}
	}
	if fields["yesterday"] != "12/31/25" {
		t.Errorf("yesterday = %v, want 12/31/25", fields["yesterday"])
	}
}

func TestFormatRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{4.5, "4.500"},
		{-9.8765, "-9.877"},
		{0, "0.000"},
		{math.NaN(), NotAvailable},
	}
	for _, tt := range tests {
		if got := FormatRating(tt.in); got != tt.want {
			t.Errorf("FormatRating(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{150, "150"},
		{math.NaN(), NotAvailable},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
