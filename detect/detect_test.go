package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvetere1999/producer-hub-core/theory"
)

func TestDetectChord(t *testing.T) {
	tests := []struct {
		name           string
		pitches        []int
		expectedRoot   string
		expectedType   string
		expectedSymbol string
		expectedInv    int
	}{
		{
			name:           "C major root position",
			pitches:        []int{60, 64, 67},
			expectedRoot:   "C",
			expectedType:   "major",
			expectedSymbol: "C",
			expectedInv:    0,
		},
		{
			name:           "A minor first-ish voicing",
			pitches:        []int{57, 60, 64},
			expectedRoot:   "A",
			expectedType:   "minor",
			expectedSymbol: "Am",
			expectedInv:    2,
		},
		{
			name:           "G dominant 7",
			pitches:        []int{55, 59, 62, 65},
			expectedRoot:   "G",
			expectedType:   "dominant7",
			expectedSymbol: "G7",
			expectedInv:    2,
		},
		{
			name:           "D sus4",
			pitches:        []int{62, 67, 69},
			expectedRoot:   "D",
			expectedType:   "sus4",
			expectedSymbol: "Dsus4",
			expectedInv:    0,
		},
		{
			name:           "power chord",
			pitches:        []int{40, 47},
			expectedRoot:   "E",
			expectedType:   "power",
			expectedSymbol: "E5",
			expectedInv:    0,
		},
		{
			name:           "octaves only",
			pitches:        []int{48, 60, 72},
			expectedRoot:   "C",
			expectedType:   "octave",
			expectedSymbol: "C8",
			expectedInv:    0,
		},
		{
			name:           "octave invariance",
			pitches:        []int{48, 76, 91},
			expectedRoot:   "C",
			expectedType:   "major",
			expectedSymbol: "C",
			expectedInv:    0,
		},
		{
			// dim7 is symmetric: every rotation matches, so the earliest
			// rotation root in the sorted class list names the chord.
			name:           "diminished 7 names earliest rotation root",
			pitches:        []int{54, 57, 60, 63},
			expectedRoot:   "C",
			expectedType:   "diminished7",
			expectedSymbol: "Cdim7",
			expectedInv:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectChord(tt.pitches)
			require.NotNil(t, result)
			assert.Equal(t, tt.expectedRoot, result.Root)
			assert.Equal(t, tt.expectedType, result.Type)
			assert.Equal(t, tt.expectedSymbol, result.Symbol)
			assert.Equal(t, tt.expectedInv, result.Inversion)
			assert.Equal(t, tt.pitches, result.Notes)
		})
	}
}

func TestDetectChordTooFewNotes(t *testing.T) {
	assert.Nil(t, DetectChord(nil))
	assert.Nil(t, DetectChord([]int{}))
	assert.Nil(t, DetectChord([]int{60}))
}

func TestDetectChordPriorityBeatsLaterRotation(t *testing.T) {
	// C-E-G-A reads as both C6 (priority 7) and Am7 (priority 10);
	// the seventh must win regardless of rotation order.
	result := DetectChord([]int{60, 64, 67, 69})
	require.NotNil(t, result)
	assert.Equal(t, "A", result.Root)
	assert.Equal(t, "minor7", result.Type)
	assert.Equal(t, "Am7", result.Symbol)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestDetectChordConfidence(t *testing.T) {
	power := DetectChord([]int{60, 67})
	require.NotNil(t, power)
	assert.Equal(t, 0.5, power.Confidence)

	triad := DetectChord([]int{60, 64, 67})
	require.NotNil(t, triad)
	assert.Equal(t, 1.0, triad.Confidence)
}

func TestDetectChordNoMatch(t *testing.T) {
	// A dense chromatic cluster matches no template at any rotation.
	assert.Nil(t, DetectChord([]int{60, 61, 62, 63, 64, 65}))
}

func TestDetectChordsInSequence(t *testing.T) {
	notes := []theory.MelodyNote{
		theory.NewMelodyNote(60, 0, 1, 100),
		theory.NewMelodyNote(64, 0.01, 1, 100), // rounds to the same 16th
		theory.NewMelodyNote(67, 0, 1, 100),
		theory.NewMelodyNote(62, 2, 1, 100), // lone note, no chord
		theory.NewMelodyNote(57, 4, 1, 100),
		theory.NewMelodyNote(60, 4, 1, 100),
		theory.NewMelodyNote(64, 4, 1, 100),
	}

	chords := DetectChordsInSequence(notes)
	require.Len(t, chords, 2)

	require.NotNil(t, chords[0.0])
	assert.Equal(t, "C", chords[0.0].Symbol)
	require.NotNil(t, chords[4.0])
	assert.Equal(t, "Am", chords[4.0].Symbol)
	assert.NotContains(t, chords, 2.0)
}
