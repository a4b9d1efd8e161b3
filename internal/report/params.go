// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package report

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/jester-report/internal/stats"
)

// Display formats for ranked jokes.
const (
	TopRatedFormat    = "Joke %d. Mean Rating: %.3f"
	TopVarianceFormat = "Joke %d. Variance: %.3f"
)

// Header date and time layouts.
const (
	TimeLayout = "15:04:05"
	DateLayout = "01/02/06"
)

// NotAvailable is rendered for a statistic that has no defined input.
const NotAvailable = "n/a"

// Section is one named group of report fields.
type Section struct {
	Name   string
	Fields map[string]any
}

// Header holds the run time and the dates the daily window covers.
type Header struct {
	Now       time.Time
	Yesterday time.Time
}

// NewHeader builds a header for a run at now. The yesterday date is the
// calendar day before now in now's location.
func NewHeader(now time.Time) Header {
	y, m, d := now.Date()
	return Header{
		Now:       now,
		Yesterday: time.Date(y, m, d-1, 0, 0, 0, 0, now.Location()),
	}
}

func (h Header) fields() map[string]any {
	return map[string]any{
		"time":      h.Now.Format(TimeLayout),
		"today":     h.Now.Format(DateLayout),
		"yesterday": h.Yesterday.Format(DateLayout),
	}
}

// DailyStats covers ratings received during the daily window.
type DailyStats struct {
	RatingsCount int
	Ratings      stats.Summary
}

func (d DailyStats) fields() map[string]any {
	return map[string]any{
		"daily_ratings_count": d.RatingsCount,
		"mean_daily_rating":   FormatRating(d.Ratings.Mean),
		"median_daily_rating": FormatRating(d.Ratings.Median),
	}
}

// AggregateStats covers the full rating history.
type AggregateStats struct {
	TotalUsers   int
	TotalRatings int
	Ratings      stats.Summary
	JokesRated   stats.Summary
	TopRated     []stats.Ranked
	TopVariance  []stats.Ranked
}

func (a AggregateStats) fields() map[string]any {
	f := map[string]any{
		"total_users":                  a.TotalUsers,
		"total_ratings":                a.TotalRatings,
		"mean_rating":                  FormatRating(a.Ratings.Mean),
		"median_rating":                FormatRating(a.Ratings.Median),
		"min_rating":                   FormatRating(a.Ratings.Min),
		"max_rating":                   FormatRating(a.Ratings.Max),
		"mean_number_of_jokes_rated":   FormatRating(a.JokesRated.Mean),
		"median_number_of_jokes_rated": FormatRating(a.JokesRated.Median),
		"min_number_of_jokes_rated":    FormatCount(a.JokesRated.Min),
		"max_number_of_jokes_rated":    FormatCount(a.JokesRated.Max),
	}

	topRated := rankedLines(TopRatedFormat, a.TopRated)
	for i, line := range topRated {
		f[fmt.Sprintf("top_rated_joke_%d", i+1)] = line
	}
	f["top_rated_jokes"] = topRated

	topVariance := rankedLines(TopVarianceFormat, a.TopVariance)
	for i, line := range topVariance {
		f[fmt.Sprintf("top_variance_joke_%d", i+1)] = line
	}
	f["top_variance_jokes"] = topVariance

	return f
}

// Params is the complete set of values one report is rendered from.
type Params struct {
	Header    Header
	Daily     DailyStats
	Aggregate AggregateStats
}

// Sections returns the report sections in merge order.
func (p *Params) Sections() []Section {
	return []Section{
		{Name: "header", Fields: p.Header.fields()},
		{Name: "daily", Fields: p.Daily.fields()},
		{Name: "aggregate", Fields: p.Aggregate.fields()},
	}
}

// DuplicateFieldError reports a key produced by more than one section.
type DuplicateFieldError struct {
	Field  string
	First  string
	Second string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("report field %q is produced by both the %s and %s sections", e.Field, e.First, e.Second)
}

// Fields merges the sections into one flat field map.
func (p *Params) Fields() (map[string]any, error) {
	return MergeSections(p.Sections())
}

// MergeSections merges sections in order and fails on the first key that
// two sections share.
func MergeSections(sections []Section) (map[string]any, error) {
	merged := make(map[string]any)
	owner := make(map[string]string)
	for _, s := range sections {
		for key, value := range s.Fields {
			if prev, ok := owner[key]; ok {
				return nil, &DuplicateFieldError{Field: key, First: prev, Second: s.Name}
			}
			owner[key] = s.Name
			merged[key] = value
		}
	}
	return merged, nil
}

// FormatRating renders a statistic with three decimals, or NotAvailable for NaN.
func FormatRating(v float64) string {
	if math.IsNaN(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.3f", v)
}

// FormatCount renders a whole-number statistic, or NotAvailable for NaN.
func FormatCount(v float64) string {
	if math.IsNaN(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%d", int64(math.Round(v)))
}

func rankedLines(format string, ranked []stats.Ranked) []string {
	lines := make([]string, len(ranked))
	for i, r := range ranked {
		lines[i] = fmt.Sprintf(format, r.JokeID, r.Value)
	}
	return lines
}
