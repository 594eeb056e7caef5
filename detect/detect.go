// Package detect identifies chords from unordered MIDI pitch sets by
// matching pitch-class interval patterns against a fixed template table.
package detect

import (
	"math"
	"sort"

	"github.com/jvetere1999/producer-hub-core/theory"
)

// Result describes a detected chord. Confidence is the winning template's
// priority divided by 10.
type Result struct {
	Root       string  `json:"root"`
	Type       string  `json:"type"`
	Symbol     string  `json:"symbol"`
	Notes      []int   `json:"notes"`
	Inversion  int     `json:"inversion"`
	Confidence float64 `json:"confidence"`
}

// template is one row of the detection table. Matching is interval-set
// equality against intervals-from-root.
type template struct {
	name     string
	suffix   string
	priority int
	// intervals from the rotation root, ascending, deduplicated
	intervals []int
}

// templates is scanned in declaration order; when two rotations score the
// same priority the first-declared template (and the earliest rotation)
// wins. This order is load-bearing for ambiguous inputs and must not be
// rearranged.
var templates = []template{
	{name: "major", suffix: "", priority: 10, intervals: []int{0, 4, 7}},
	{name: "minor", suffix: "m", priority: 10, intervals: []int{0, 3, 7}},
	{name: "diminished", suffix: "dim", priority: 9, intervals: []int{0, 3, 6}},
	{name: "augmented", suffix: "aug", priority: 9, intervals: []int{0, 4, 8}},
	{name: "sus2", suffix: "sus2", priority: 8, intervals: []int{0, 2, 7}},
	{name: "sus4", suffix: "sus4", priority: 8, intervals: []int{0, 5, 7}},
	{name: "major7", suffix: "maj7", priority: 10, intervals: []int{0, 4, 7, 11}},
	{name: "minor7", suffix: "m7", priority: 10, intervals: []int{0, 3, 7, 10}},
	{name: "dominant7", suffix: "7", priority: 10, intervals: []int{0, 4, 7, 10}},
	{name: "diminished7", suffix: "dim7", priority: 9, intervals: []int{0, 3, 6, 9}},
	{name: "halfDiminished7", suffix: "m7b5", priority: 9, intervals: []int{0, 3, 6, 10}},
	{name: "minorMajor7", suffix: "mMaj7", priority: 8, intervals: []int{0, 3, 7, 11}},
	{name: "augmented7", suffix: "aug7", priority: 8, intervals: []int{0, 4, 8, 10}},
	{name: "add9", suffix: "add9", priority: 7, intervals: []int{0, 2, 4, 7}},
	{name: "madd9", suffix: "madd9", priority: 7, intervals: []int{0, 2, 3, 7}},
	{name: "6", suffix: "6", priority: 7, intervals: []int{0, 4, 7, 9}},
	{name: "m6", suffix: "m6", priority: 7, intervals: []int{0, 3, 7, 9}},
	{name: "power", suffix: "5", priority: 5, intervals: []int{0, 7}},
	{name: "octave", suffix: "8", priority: 3, intervals: []int{0}},
}

// DetectChord identifies the chord formed by the given pitches, octave
// invariantly. It returns nil for fewer than two pitches or when no
// template matches any rotation.
func DetectChord(pitches []int) *Result {
	if len(pitches) < 2 {
		return nil
	}

	classes := pitchClassSet(pitches)

	var best *Result
	bestPriority := 0
	for rotation, root := range classes {
		intervals := intervalsFromRoot(classes, root)
		for _, tmpl := range templates {
			if !sameIntervalSet(intervals, tmpl.intervals) {
				continue
			}
			if tmpl.priority > bestPriority {
				bestPriority = tmpl.priority
				rootName := theory.NoteNames[root]
				best = &Result{
					Root:       rootName,
					Type:       tmpl.name,
					Symbol:     rootName + tmpl.suffix,
					Notes:      pitches,
					Inversion:  rotation,
					Confidence: float64(tmpl.priority) / 10,
				}
			}
			// first match in table order is the best this rotation offers
			break
		}
	}
	return best
}

// DetectChordsInSequence groups notes by their start beat quantized to the
// nearest 16th and detects one chord per group of two or more simultaneous
// notes, keyed by the quantized beat.
func DetectChordsInSequence(notes []theory.MelodyNote) map[float64]*Result {
	groups := make(map[float64][]int)
	for _, n := range notes {
		beat := math.Round(n.StartBeat*4) / 4
		groups[beat] = append(groups[beat], n.Pitch)
	}

	res := make(map[float64]*Result)
	for beat, pitches := range groups {
		if len(pitches) < 2 {
			continue
		}
		if chord := DetectChord(pitches); chord != nil {
			res[beat] = chord
		}
	}
	return res
}

// pitchClassSet returns the deduplicated, ascending pitch classes.
func pitchClassSet(pitches []int) []int {
	seen := make(map[int]bool)
	var classes []int
	for _, p := range pitches {
		pc := ((p % 12) + 12) % 12
		if !seen[pc] {
			seen[pc] = true
			classes = append(classes, pc)
		}
	}
	sort.Ints(classes)
	return classes
}

// intervalsFromRoot rotates the class set around root, mod 12, ascending.
func intervalsFromRoot(classes []int, root int) []int {
	intervals := make([]int, len(classes))
	for i, c := range classes {
		intervals[i] = ((c - root) + 12) % 12
	}
	sort.Ints(intervals)
	return intervals
}

func sameIntervalSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
