// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

// Package stats holds the NaN-aware rating matrix and the statistics computed
// over it.
//
// A Matrix is a dense users x jokes grid backed by gonum's mat.Dense. Every
// cell starts as NaN ("not rated") and ratings are written at
// [user_id-1][joke_id-1]. Statistics skip NaN cells:
//
//	m := stats.NewMatrix(raters, jokes)
//	res := m.Fill(ratings)
//	s := stats.Describe(m.Defined())
//	top := stats.TopK(stats.RankColumns(m, stats.Mean), 10)
//
// Variance is the population variance (divide by n), mean and variance come
// from gonum/stat and min/max from gonum/floats. An empty sample yields NaN
// for every statistic; callers decide how to render it.
package stats
