// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics over the defined values of a sample.
type Summary struct {
	Count    int
	Mean     float64
	Median   float64
	Min      float64
	Max      float64
	Variance float64
}

// Describe computes a Summary over values, ignoring NaN entries.
// Every statistic is NaN when no defined value remains.
func Describe(values []float64) Summary {
	defined := appendDefined(make([]float64, 0, len(values)), values)
	if len(defined) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Median: nan, Min: nan, Max: nan, Variance: nan}
	}

	return Summary{
		Count:    len(defined),
		Mean:     stat.Mean(defined, nil),
		Median:   Median(defined),
		Min:      floats.Min(defined),
		Max:      floats.Max(defined),
		Variance: stat.PopVariance(defined, nil),
	}
}

// Median returns the middle value of values, or the mean of the two middle
// values for an even count. NaN entries are ignored; an empty sample gives NaN.
// gonum's stat.Quantile uses the lower middle value for even samples, hence
// the separate implementation.
func Median(values []float64) float64 {
	sorted := appendDefined(make([]float64, 0, len(values)), values)
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Ints converts integer counts to float64 so they can be described.
func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
