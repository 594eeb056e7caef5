// Package progression expands roman-numeral chord progressions into timed
// chord blocks and applies rhythmic variants to them.
package progression

import (
	"math"

	"github.com/jvetere1999/producer-hub-core/internal/logger"
	"github.com/jvetere1999/producer-hub-core/theory"
)

// ParsedNumeral is the result of resolving a roman numeral against a key:
// a scale-degree offset in semitones plus a chord quality.
type ParsedNumeral struct {
	DegreeOffset int
	ChordType    theory.ChordType
}

// ParseNumeralFunc resolves a numeral, returning nil when it cannot be
// parsed. The surrounding application supplies its own lookup; ParseNumeral
// in this package is a usable default.
type ParseNumeralFunc func(numeral string) *ParsedNumeral

// Step is one entry of a progression template.
type Step struct {
	Numeral  string  `json:"numeral"`
	Duration float64 `json:"duration"` // beats
}

// RhythmPattern names one of the rhythmic variants applied by
// ApplyRhythmPattern.
type RhythmPattern string

const (
	RhythmWhole       RhythmPattern = "whole"
	RhythmHalf        RhythmPattern = "half"
	RhythmStabs       RhythmPattern = "stabs"
	RhythmArpeggiated RhythmPattern = "arpeggiated"
	RhythmOffbeat     RhythmPattern = "offbeat"
	RhythmPads        RhythmPattern = "pads"
)

// Generate walks the steps sequentially, accumulating the current beat and
// emitting one chord block per numeral rooted at the key's tonic in the
// given octave plus the numeral's degree offset. Numerals the parser cannot
// resolve are skipped silently and do not advance the beat.
func Generate(steps []Step, scale theory.ScaleConfig, octave int, velocity int, parse ParseNumeralFunc) []theory.ChordBlock {
	if parse == nil {
		parse = ParseNumeral
	}

	tonic, err := theory.NoteToMidi(scale.Root, octave)
	if err != nil {
		logger.Warn("progression generate: unknown key root", logger.Fields{"root": scale.Root})
		return nil
	}

	var blocks []theory.ChordBlock
	currentBeat := 0.0
	for _, step := range steps {
		parsed := parse(step.Numeral)
		if parsed == nil {
			logger.Debug("progression generate: skipping unparseable numeral", logger.Fields{"numeral": step.Numeral})
			continue
		}
		block := theory.NewChordBlock(tonic+parsed.DegreeOffset, parsed.ChordType, currentBeat, step.Duration, velocity)
		blocks = append(blocks, block)
		currentBeat += step.Duration
	}
	return blocks
}

// ApplyRhythmPattern is a pure transform producing a rhythmic variant of the
// blocks. Split patterns mint fresh ids for the pieces they create.
func ApplyRhythmPattern(blocks []theory.ChordBlock, pattern RhythmPattern) []theory.ChordBlock {
	switch pattern {
	case RhythmHalf:
		var res []theory.ChordBlock
		for _, b := range blocks {
			half := b.Duration / 2
			first := b
			first.ID = theory.NewID()
			first.Duration = theory.ClampDuration(half * 0.9)
			second := b
			second.ID = theory.NewID()
			second.StartBeat = b.StartBeat + half
			second.Duration = theory.ClampDuration(half * 0.9)
			res = append(res, first, second)
		}
		return res

	case RhythmStabs, RhythmArpeggiated:
		res := make([]theory.ChordBlock, len(blocks))
		for i, b := range blocks {
			b.Duration = theory.ClampDuration(math.Min(0.5, b.Duration/4))
			res[i] = b
		}
		return res

	case RhythmOffbeat:
		var res []theory.ChordBlock
		for _, b := range blocks {
			// one short hit on the "&" of every whole beat the block spans
			for beat := 0; beat < int(math.Floor(b.Duration)); beat++ {
				hit := b
				hit.ID = theory.NewID()
				hit.StartBeat = b.StartBeat + float64(beat) + 0.5
				hit.Duration = 0.4
				res = append(res, hit)
			}
		}
		return res

	case RhythmPads:
		res := make([]theory.ChordBlock, len(blocks))
		for i, b := range blocks {
			b.Duration = theory.ClampDuration(b.Duration * 1.1)
			res[i] = b
		}
		return res

	default: // whole, or anything unrecognized, is a no-op copy
		res := make([]theory.ChordBlock, len(blocks))
		copy(res, blocks)
		return res
	}
}

// AddBassNotes returns a copy of the blocks with each chord's root pitch
// class injected as a bass note at the given octave.
func AddBassNotes(blocks []theory.ChordBlock, octave int) []theory.ChordBlock {
	res := make([]theory.ChordBlock, len(blocks))
	for i, b := range blocks {
		bass := (octave+1)*12 + ((b.RootPitch%12)+12)%12
		b.BassNote = &bass
		res[i] = b
	}
	return res
}

// RemoveBassNotes returns a copy of the blocks with bass notes stripped.
func RemoveBassNotes(blocks []theory.ChordBlock) []theory.ChordBlock {
	res := make([]theory.ChordBlock, len(blocks))
	for i, b := range blocks {
		b.BassNote = nil
		res[i] = b
	}
	return res
}
