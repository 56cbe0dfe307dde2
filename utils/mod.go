package utils

import "math"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// MaskedArgmax returns the index of the largest score whose mask entry is true.
// A nil mask allows every index. Ties go to the lowest index. Returns -1 when
// nothing is allowed.
func MaskedArgmax(scores []float64, mask []bool) int {
	best := -1
	bestScore := math.Inf(-1)
	for i, s := range scores {
		if mask != nil && (i >= len(mask) || !mask[i]) {
			continue
		}
		if best == -1 || s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}
