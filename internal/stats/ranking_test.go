// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package stats

import (
	"testing"

	"github.com/tomtom215/jester-report/internal/models"
)

// twoUsersThreeJokes is the matrix [[5, 3, NaN], [4, NaN, 2]].
func twoUsersThreeJokes() *Matrix {
	m := NewMatrix(2, 3)
	m.Fill([]models.Rating{
		{ID: 1, UserID: 1, JokeID: 1, Value: 5},
		{ID: 2, UserID: 1, JokeID: 2, Value: 3},
		{ID: 3, UserID: 2, JokeID: 1, Value: 4},
		{ID: 4, UserID: 2, JokeID: 3, Value: 2},
	})
	return m
}

func TestRankColumns_Mean(t *testing.T) {
	t.Parallel()

	got := RankColumns(twoUsersThreeJokes(), Mean)
	want := []Ranked{{1, 4.5}, {2, 3}, {3, 2}}
	assertRanked(t, got, want)
}

func TestRankColumns_Variance(t *testing.T) {
	t.Parallel()

	got := RankColumns(twoUsersThreeJokes(), Variance)
	// Joke 1 has ratings {5, 4}; jokes 2 and 3 have a single rating each and
	// tie at zero, keeping ascending id order.
	want := []Ranked{{1, 0.25}, {2, 0}, {3, 0}}
	assertRanked(t, got, want)
}

func TestRankColumns_SkipsUnratedJokes(t *testing.T) {
	t.Parallel()

	m := NewMatrix(2, 4)
	m.Fill([]models.Rating{
		{UserID: 1, JokeID: 2, Value: -1},
		{UserID: 2, JokeID: 4, Value: 6},
	})

	got := RankColumns(m, Mean)
	want := []Ranked{{4, 6}, {2, -1}}
	assertRanked(t, got, want)
}

func TestRankColumns_StableTies(t *testing.T) {
	t.Parallel()

	m := NewMatrix(1, 5)
	for j := int64(1); j <= 5; j++ {
		if _, err := m.Set(1, j, 1); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	got := RankColumns(m, Mean)
	for i, r := range got {
		if r.JokeID != int64(i+1) {
			t.Errorf("got[%d].JokeID = %d, want %d", i, r.JokeID, i+1)
		}
	}
}

func TestTopK(t *testing.T) {
	t.Parallel()

	list := []Ranked{{1, 9}, {2, 8}, {3, 7}}
	tests := []struct {
		name string
		k    int
		want int
	}{
		{"fewer than available", 2, 2},
		{"exactly available", 3, 3},
		{"more than available", 10, 3},
		{"zero", 0, 0},
		{"negative", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TopK(list, tt.k)
			if len(got) != tt.want {
				t.Fatalf("len(TopK(k=%d)) = %d, want %d", tt.k, len(got), tt.want)
			}
			for i := range got {
				if got[i] != list[i] {
					t.Errorf("TopK[%d] = %v, want %v", i, got[i], list[i])
				}
			}
		})
	}

	if got := TopK(nil, 5); len(got) != 0 {
		t.Errorf("TopK(nil, 5) = %v, want empty", got)
	}
}

func assertRanked(t *testing.T, got, want []Ranked) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d ranked jokes %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].JokeID != want[i].JokeID || !approxEqual(got[i].Value, want[i].Value) {
			t.Errorf("ranked[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
