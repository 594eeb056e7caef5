package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvetere1999/producer-hub-core/theory"
)

func TestParseNumeral(t *testing.T) {
	tests := []struct {
		numeral        string
		expectedOffset int
		expectedType   theory.ChordType
	}{
		{numeral: "I", expectedOffset: 0, expectedType: theory.ChordMajor},
		{numeral: "ii", expectedOffset: 2, expectedType: theory.ChordMinor},
		{numeral: "iii", expectedOffset: 4, expectedType: theory.ChordMinor},
		{numeral: "IV", expectedOffset: 5, expectedType: theory.ChordMajor},
		{numeral: "V", expectedOffset: 7, expectedType: theory.ChordMajor},
		{numeral: "V7", expectedOffset: 7, expectedType: theory.ChordDominant7},
		{numeral: "vi", expectedOffset: 9, expectedType: theory.ChordMinor},
		{numeral: "vi7", expectedOffset: 9, expectedType: theory.ChordMinor7},
		{numeral: "vii°", expectedOffset: 11, expectedType: theory.ChordDiminished},
		{numeral: "Imaj7", expectedOffset: 0, expectedType: theory.ChordMajor7},
		{numeral: "bVII", expectedOffset: 10, expectedType: theory.ChordMajor},
		{numeral: "#IV", expectedOffset: 6, expectedType: theory.ChordMajor},
		{numeral: "IVsus4", expectedOffset: 5, expectedType: theory.ChordSus4},
		{numeral: "Vaug", expectedOffset: 7, expectedType: theory.ChordAugmented},
	}

	for _, tt := range tests {
		t.Run(tt.numeral, func(t *testing.T) {
			parsed := ParseNumeral(tt.numeral)
			require.NotNil(t, parsed)
			assert.Equal(t, tt.expectedOffset, parsed.DegreeOffset)
			assert.Equal(t, tt.expectedType, parsed.ChordType)
		})
	}
}

func TestParseNumeralRejectsGarbage(t *testing.T) {
	for _, numeral := range []string{"", "X", "I9?", "b", "VIII"} {
		assert.Nil(t, ParseNumeral(numeral), "numeral %q should not parse", numeral)
	}
}

func TestGenerate(t *testing.T) {
	scale := theory.ScaleConfig{Root: "C", Type: theory.ScaleMajor}
	steps := []Step{
		{Numeral: "I", Duration: 4},
		{Numeral: "V", Duration: 4},
		{Numeral: "vi", Duration: 2},
		{Numeral: "IV", Duration: 2},
	}

	blocks := Generate(steps, scale, 3, 96, nil)
	require.Len(t, blocks, 4)

	assert.Equal(t, 48, blocks[0].RootPitch) // C3
	assert.Equal(t, theory.ChordMajor, blocks[0].ChordType)
	assert.Equal(t, 0.0, blocks[0].StartBeat)

	assert.Equal(t, 55, blocks[1].RootPitch) // G3
	assert.Equal(t, 4.0, blocks[1].StartBeat)

	assert.Equal(t, 57, blocks[2].RootPitch) // A3
	assert.Equal(t, theory.ChordMinor, blocks[2].ChordType)
	assert.Equal(t, 8.0, blocks[2].StartBeat)

	assert.Equal(t, 53, blocks[3].RootPitch) // F3
	assert.Equal(t, 10.0, blocks[3].StartBeat)

	for _, b := range blocks {
		assert.Equal(t, 96, b.Velocity)
		assert.NotEmpty(t, b.ID)
	}
}

func TestGenerateSkipsUnparseableNumerals(t *testing.T) {
	scale := theory.ScaleConfig{Root: "C", Type: theory.ScaleMajor}
	steps := []Step{
		{Numeral: "I", Duration: 4},
		{Numeral: "XII", Duration: 4}, // unparseable, skipped silently
		{Numeral: "V", Duration: 4},
	}

	blocks := Generate(steps, scale, 3, 100, nil)
	require.Len(t, blocks, 2)
	assert.Equal(t, 0.0, blocks[0].StartBeat)
	assert.Equal(t, 4.0, blocks[1].StartBeat)
}

func TestGenerateWithCustomParser(t *testing.T) {
	calls := 0
	parse := func(numeral string) *ParsedNumeral {
		calls++
		return &ParsedNumeral{DegreeOffset: 3, ChordType: theory.ChordSus2}
	}
	scale := theory.ScaleConfig{Root: "D", Type: theory.ScaleMinor}

	blocks := Generate([]Step{{Numeral: "anything", Duration: 1}}, scale, 4, 80, parse)
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 65, blocks[0].RootPitch) // D4 (62) + 3
	assert.Equal(t, theory.ChordSus2, blocks[0].ChordType)
}

func makeBlock(start, duration float64) theory.ChordBlock {
	return theory.NewChordBlock(60, theory.ChordMajor, start, duration, 100)
}

func TestApplyRhythmPatternWhole(t *testing.T) {
	blocks := []theory.ChordBlock{makeBlock(0, 4)}
	out := ApplyRhythmPattern(blocks, RhythmWhole)
	assert.Equal(t, blocks, out)
}

func TestApplyRhythmPatternHalf(t *testing.T) {
	out := ApplyRhythmPattern([]theory.ChordBlock{makeBlock(0, 4)}, RhythmHalf)
	require.Len(t, out, 2)
	assert.Equal(t, 0.0, out[0].StartBeat)
	assert.InDelta(t, 1.8, out[0].Duration, 1e-9)
	assert.Equal(t, 2.0, out[1].StartBeat)
	assert.InDelta(t, 1.8, out[1].Duration, 1e-9)
	assert.NotEqual(t, out[0].ID, out[1].ID)
}

func TestApplyRhythmPatternStabs(t *testing.T) {
	out := ApplyRhythmPattern([]theory.ChordBlock{makeBlock(0, 4), makeBlock(4, 1)}, RhythmStabs)
	require.Len(t, out, 2)
	assert.Equal(t, 0.5, out[0].Duration)  // min(0.5, 4/4=1)
	assert.Equal(t, 0.25, out[1].Duration) // min(0.5, 1/4)
}

func TestApplyRhythmPatternOffbeat(t *testing.T) {
	out := ApplyRhythmPattern([]theory.ChordBlock{makeBlock(0, 4)}, RhythmOffbeat)
	require.Len(t, out, 4)
	for i, b := range out {
		assert.Equal(t, float64(i)+0.5, b.StartBeat)
		assert.Equal(t, 0.4, b.Duration)
	}
}

func TestApplyRhythmPatternPads(t *testing.T) {
	out := ApplyRhythmPattern([]theory.ChordBlock{makeBlock(0, 4)}, RhythmPads)
	require.Len(t, out, 1)
	assert.InDelta(t, 4.4, out[0].Duration, 1e-9)
}

func TestBassNotesRoundTrip(t *testing.T) {
	blocks := []theory.ChordBlock{makeBlock(0, 4)}

	withBass := AddBassNotes(blocks, 2)
	require.Len(t, withBass, 1)
	require.NotNil(t, withBass[0].BassNote)
	assert.Equal(t, 36, *withBass[0].BassNote) // C2
	assert.Nil(t, blocks[0].BassNote, "input must not be mutated")

	stripped := RemoveBassNotes(withBass)
	assert.Nil(t, stripped[0].BassNote)
	require.NotNil(t, withBass[0].BassNote, "input must not be mutated")
}
