// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/jester-report/internal/models"
)

// ErrOutOfRange is returned by Set for a user or joke id outside the matrix.
var ErrOutOfRange = errors.New("id outside rating matrix")

// Matrix is a users x jokes grid of ratings where NaN marks an unrated cell.
// mat.Dense cannot have a zero dimension, so an empty matrix has no backing data.
type Matrix struct {
	rows, cols int
	data       *mat.Dense
}

// NewMatrix returns a rows x cols matrix with every cell NaN.
// Negative dimensions are treated as zero.
func NewMatrix(rows, cols int) *Matrix {
	rows = max(rows, 0)
	cols = max(cols, 0)
	m := &Matrix{rows: rows, cols: cols}
	if rows == 0 || cols == 0 {
		return m
	}

	backing := make([]float64, rows*cols)
	for i := range backing {
		backing[i] = math.NaN()
	}
	m.data = mat.NewDense(rows, cols, backing)
	return m
}

// Dims returns the number of users and jokes.
func (m *Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// At returns the rating at 0-based (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// Set writes value at [userID-1][jokeID-1]. It reports whether the cell
// already held a rating.
func (m *Matrix) Set(userID, jokeID int64, value float64) (overwrote bool, err error) {
	if userID < 1 || userID > int64(m.rows) || jokeID < 1 || jokeID > int64(m.cols) {
		return false, fmt.Errorf("%w: user %d, joke %d (matrix %dx%d)", ErrOutOfRange, userID, jokeID, m.rows, m.cols)
	}
	i, j := int(userID-1), int(jokeID-1)
	overwrote = !math.IsNaN(m.data.At(i, j))
	m.data.Set(i, j, value)
	return overwrote, nil
}

// FillResult reports what happened while filling a matrix.
type FillResult struct {
	// Applied is the number of ratings written.
	Applied int
	// Overwritten counts ratings that replaced an earlier one for the same cell.
	Overwritten int
	// Skipped holds ids of ratings whose user or joke falls outside the matrix.
	Skipped []int64
}

// Fill writes ratings in order, so the last rating for a cell wins.
func (m *Matrix) Fill(ratings []models.Rating) FillResult {
	var res FillResult
	for i := range ratings {
		r := &ratings[i]
		overwrote, err := m.Set(r.UserID, r.JokeID, r.Value)
		if err != nil {
			res.Skipped = append(res.Skipped, r.ID)
			continue
		}
		res.Applied++
		if overwrote {
			res.Overwritten++
		}
	}
	return res
}

// Defined returns every non-NaN cell in row-major order.
func (m *Matrix) Defined() []float64 {
	if m.data == nil {
		return nil
	}
	out := make([]float64, 0, m.rows)
	for i := 0; i < m.rows; i++ {
		out = appendDefined(out, m.data.RawRowView(i))
	}
	return out
}

// Column returns the defined ratings for the joke at 0-based column j.
func (m *Matrix) Column(j int) []float64 {
	if m.data == nil {
		return nil
	}
	return appendDefined(nil, mat.Col(nil, j, m.data))
}

// Count returns the number of defined cells.
func (m *Matrix) Count() int {
	if m.data == nil {
		return 0
	}
	n := 0
	for i := 0; i < m.rows; i++ {
		for _, v := range m.data.RawRowView(i) {
			if !math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

func appendDefined(dst, src []float64) []float64 {
	for _, v := range src {
		if !math.IsNaN(v) {
			dst = append(dst, v)
		}
	}
	return dst
}
