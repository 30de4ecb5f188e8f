// Package compat computes questionnaire compatibility between two users.
//
// The score is a weighted agreement percentage over the questions both users
// answered. Answer ids are ordinal within a question, so the distance between
// two chosen ids measures disagreement:
//
//	diff       = |a - b|
//	matchScore = 5 - min(diff, 5)
//	score      = sum(matchScore * w) / sum(5 * w) * 100
//
// Score is symmetric and always within [0, 100].
package compat

import (
	"math"
	"slices"
)

// MaxPoints is the best per-question agreement; a difference of MaxPoints or
// more earns nothing.
const MaxPoints = 5

// DefaultWeight applies to questions without an explicit weight.
const DefaultWeight = 1.0

// Answers maps question id to the chosen answer id.
type Answers map[uint64]uint64

// Weights is a total function over question ids: every question has a weight,
// either an explicit positive one or the default.
type Weights struct {
	byQuestion map[uint64]float64
	def        float64
}

// NewWeights copies m, dropping entries that are not positive finite numbers.
func NewWeights(m map[uint64]float64) Weights {
	w := Weights{byQuestion: make(map[uint64]float64, len(m)), def: DefaultWeight}
	for q, v := range m {
		if v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			w.byQuestion[q] = v
		}
	}
	return w
}

// Of returns the weight for question q.
func (w Weights) Of(q uint64) float64 {
	if v, ok := w.byQuestion[q]; ok {
		return v
	}
	if w.def > 0 {
		return w.def
	}
	return DefaultWeight
}

// Score returns the compatibility percentage of a and b. Users sharing no
// answered question score 0.
func Score(a, b Answers, w Weights) float64 {
	common := shared(a, b)
	if len(common) == 0 {
		return 0
	}

	// weights are taken relative to the largest one in play so that the
	// sums stay finite however large the explicit weights are
	var scale float64
	for _, q := range common {
		scale = max(scale, w.Of(q))
	}

	var total, maxPossible float64
	for _, q := range common {
		weight := w.Of(q) / scale
		total += float64(points(a[q], b[q])) * weight
		maxPossible += MaxPoints * weight
	}
	if maxPossible == 0 {
		return 0
	}
	score := total / maxPossible * 100
	if math.IsNaN(score) {
		return 0
	}
	return min(max(score, 0), 100)
}

// Round2 rounds a score to two decimals for presentation.
func Round2(score float64) float64 {
	return math.Round(score*100) / 100
}

func points(x, y uint64) int {
	var diff uint64
	if x > y {
		diff = x - y
	} else {
		diff = y - x
	}
	if diff >= MaxPoints {
		return 0
	}
	return MaxPoints - int(diff)
}

// shared returns the question ids present in both maps in ascending order.
// A fixed order keeps the float sum identical whichever side is a.
func shared(a, b Answers) []uint64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	out := make([]uint64, 0, len(small))
	for q := range small {
		if _, ok := large[q]; ok {
			out = append(out, q)
		}
	}
	slices.Sort(out)
	return out
}
