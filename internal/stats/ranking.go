// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package stats

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Metric reduces the defined ratings of one joke to a single value.
// It is only called with a non-empty sample.
type Metric func(values []float64) float64

// Mean is the arithmetic mean of a joke's ratings.
func Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// Variance is the population variance of a joke's ratings.
func Variance(values []float64) float64 {
	return stat.PopVariance(values, nil)
}

// Ranked is one joke with its metric value.
type Ranked struct {
	JokeID int64
	Value  float64
}

// RankColumns computes metric for every joke column and returns the jokes
// sorted by value, highest first. Ties keep ascending joke id order. Jokes
// nobody rated are left out.
func RankColumns(m *Matrix, metric Metric) []Ranked {
	_, cols := m.Dims()
	ranked := make([]Ranked, 0, cols)
	for j := 0; j < cols; j++ {
		col := m.Column(j)
		if len(col) == 0 {
			continue
		}
		ranked = append(ranked, Ranked{JokeID: int64(j + 1), Value: metric(col)})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return ranked
}

// TopK returns the first min(k, len(list)) entries. k <= 0 gives an empty list.
func TopK(list []Ranked, k int) []Ranked {
	if k <= 0 {
		return []Ranked{}
	}
	return list[:min(k, len(list))]
}
