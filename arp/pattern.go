package arp

import (
	"math/rand"
	"sort"

	"github.com/jvetere1999/producer-hub-core/internal/musicutil"
)

// PatternOrder arranges the chord's pitches into the sequence the arpeggio
// cycles through: sorted ascending, replicated across octaves (+12 per
// octave copy), then reordered by the pattern. The random pattern is a true
// (non-deterministic) shuffle; use SeededPatternOrder when reproducibility
// matters. When includeRoot is set the lowest sorted pitch is appended at
// the cycle end.
func PatternOrder(pitches []int, pattern Pattern, octaves int, includeRoot bool) []int {
	return patternOrder(pitches, pattern, octaves, includeRoot, nil)
}

// SeededPatternOrder is PatternOrder with deterministic randomness: calls
// with identical arguments yield identical sequences. Callers arpeggiating
// several chords derive the per-chord seed as base seed + chord index.
func SeededPatternOrder(pitches []int, pattern Pattern, octaves int, includeRoot bool, seed int64) []int {
	rng := rand.New(rand.NewSource(int64(splitmix64(uint64(seed)))))
	return patternOrder(pitches, pattern, octaves, includeRoot, rng)
}

func patternOrder(pitches []int, pattern Pattern, octaves int, includeRoot bool, rng *rand.Rand) []int {
	if len(pitches) == 0 {
		return nil
	}
	if octaves < 1 {
		octaves = 1
	}

	sorted := make([]int, len(pitches))
	copy(sorted, pitches)
	sort.Ints(sorted)

	base := sorted
	if pattern == PatternPlayed {
		base = pitches // keep the order the chord was voiced in
	}

	expanded := make([]int, 0, len(base)*octaves)
	for octave := 0; octave < octaves; octave++ {
		for _, p := range base {
			expanded = append(expanded, p+12*octave)
		}
	}

	var order []int
	switch pattern {
	case PatternDown:
		order = musicutil.Reverse(expanded)
	case PatternUpDown:
		// up then back down without repeating the peak
		order = append(order, expanded...)
		down := musicutil.Reverse(expanded)
		order = append(order, down[1:]...)
	case PatternDownUp:
		down := musicutil.Reverse(expanded)
		order = append(order, down...)
		order = append(order, expanded[1:]...)
	case PatternRandom:
		order = append(order, expanded...)
		shuffle(order, rng)
	default: // up, played
		order = expanded
	}

	if includeRoot {
		order = append(order, sorted[0])
	}
	return order
}

// shuffle is a Fisher-Yates pass over s, drawing from rng when supplied and
// from the shared non-deterministic source otherwise.
func shuffle(s []int, rng *rand.Rand) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if rng != nil {
		rng.Shuffle(len(s), swap)
	} else {
		rand.Shuffle(len(s), swap)
	}
}

// splitmix64 mixes a seed into a well-distributed state. The sequence
// contract is "same seed, same output"; the mixer just keeps nearby seeds
// (seed, seed+1, ...) from producing correlated shuffles.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
