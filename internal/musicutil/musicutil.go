package musicutil

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// Clamp constrains v to the inclusive range [lo, hi].
func Clamp[A constraints.Ordered](v A, lo A, hi A) A {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundClamp rounds v to the nearest integer and clamps it to [lo, hi].
func RoundClamp(v float64, lo int, hi int) int {
	return Clamp(int(math.Round(v)), lo, hi)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Reverse returns a reversed copy of s.
func Reverse[A any](s []A) []A {
	res := make([]A, len(s))
	for i, v := range s {
		res[len(s)-1-i] = v
	}
	return res
}

// MinInt returns the smaller of two integers.
func MinInt[A constraints.Integer](a A, b A) A {
	if a > b {
		return b
	}
	return a
}
