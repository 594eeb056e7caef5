package theory

import "fmt"

// chordIntervals maps each chord quality to its semitone offsets from the
// root: triads, sevenths, and the two ninths.
var chordIntervals = map[ChordType][]int{
	ChordMajor:           {0, 4, 7},
	ChordMinor:           {0, 3, 7},
	ChordDiminished:      {0, 3, 6},
	ChordAugmented:       {0, 4, 8},
	ChordSus2:            {0, 2, 7},
	ChordSus4:            {0, 5, 7},
	ChordMajor7:          {0, 4, 7, 11},
	ChordMinor7:          {0, 3, 7, 10},
	ChordDominant7:       {0, 4, 7, 10},
	ChordDiminished7:     {0, 3, 6, 9},
	ChordHalfDiminished7: {0, 3, 6, 10},
	ChordMinorMajor7:     {0, 3, 7, 11},
	ChordAugmented7:      {0, 4, 8, 10},
	ChordMajor9:          {0, 4, 7, 11, 14},
	ChordMinor9:          {0, 3, 7, 10, 14},
}

// ChordTones returns root-position chord tones for the given root pitch.
// Unknown qualities fall back to a major triad rather than failing; the
// priority here is always "produce a playable result".
func ChordTones(rootPitch int, chordType ChordType) []int {
	intervals, ok := chordIntervals[chordType]
	if !ok {
		intervals = chordIntervals[ChordMajor]
	}
	notes := make([]int, len(intervals))
	for i, interval := range intervals {
		notes[i] = rootPitch + interval
	}
	return notes
}

// ChordToneCount reports how many tones the quality has (3, 4 or 5).
func ChordToneCount(chordType ChordType) int {
	if intervals, ok := chordIntervals[chordType]; ok {
		return len(intervals)
	}
	return len(chordIntervals[ChordMajor])
}

// ChordTypeSuffix renders the quality's symbol suffix, e.g. minor7 -> "m7".
func ChordTypeSuffix(chordType ChordType) string {
	switch chordType {
	case ChordMajor:
		return ""
	case ChordMinor:
		return "m"
	case ChordDiminished:
		return "dim"
	case ChordAugmented:
		return "aug"
	case ChordSus2:
		return "sus2"
	case ChordSus4:
		return "sus4"
	case ChordMajor7:
		return "maj7"
	case ChordMinor7:
		return "m7"
	case ChordDominant7:
		return "7"
	case ChordDiminished7:
		return "dim7"
	case ChordHalfDiminished7:
		return "m7b5"
	case ChordMinorMajor7:
		return "mMaj7"
	case ChordAugmented7:
		return "aug7"
	case ChordMajor9:
		return "maj9"
	case ChordMinor9:
		return "m9"
	}
	return string(chordType)
}

// ChordSymbol renders a full chord symbol for a root pitch and quality.
func ChordSymbol(rootPitch int, chordType ChordType) string {
	name, _ := MidiToNote(rootPitch)
	return fmt.Sprintf("%s%s", name, ChordTypeSuffix(chordType))
}

// ApplyInversion rotates the chord left k times; each rotated tone moves up
// an octave. k is taken modulo the tone count, so ApplyInversion(notes,
// len(notes)) returns the input unchanged.
func ApplyInversion(notes []int, k int) []int {
	n := len(notes)
	if n == 0 {
		return nil
	}
	k = ((k % n) + n) % n
	res := make([]int, n)
	copy(res, notes)
	for step := 0; step < k; step++ {
		rotated := res[0] + 12
		copy(res, res[1:])
		res[n-1] = rotated
	}
	return res
}

// ApplyVoicing spreads the chord's tones vertically. The spread case offsets
// by raw array index (notes[i] + 12*(i/2)), not by pitch rank; after an
// inversion that can yield non-monotonic voicings for 4+ note chords. Kept
// as-is for output parity with the reference tool.
func ApplyVoicing(notes []int, style VoicingStyle) []int {
	res := make([]int, len(notes))
	copy(res, notes)
	switch style {
	case VoicingOpen:
		if len(res) > 1 {
			res[1] += 12
		}
	case VoicingSpread:
		for i := range res {
			res[i] += 12 * (i / 2)
		}
	case VoicingDrop2:
		dropNthHighest(res, 2)
	case VoicingDrop3:
		dropNthHighest(res, 3)
	}
	return res
}

// dropNthHighest lowers the nth-highest tone by an octave, in place. Chords
// with fewer tones than n are left alone.
func dropNthHighest(notes []int, n int) {
	if len(notes) < n {
		return
	}
	idxs := make([]int, len(notes))
	for i := range idxs {
		idxs[i] = i
	}
	// selection of the nth-highest by value
	for rank := 0; rank < n; rank++ {
		maxAt := rank
		for j := rank + 1; j < len(idxs); j++ {
			if notes[idxs[j]] > notes[idxs[maxAt]] {
				maxAt = j
			}
		}
		idxs[rank], idxs[maxAt] = idxs[maxAt], idxs[rank]
	}
	notes[idxs[n-1]] -= 12
}

// VoicedChordNotes resolves a chord block to concrete pitches: chord tones,
// then inversion, then voicing, then the optional bass note placed one
// octave below the lowest voiced tone. Every pitch is clamped to [21,108].
func VoicedChordNotes(chord ChordBlock) []int {
	tones := ChordTones(chord.RootPitch, chord.ChordType)
	voiced := ApplyVoicing(ApplyInversion(tones, chord.Inversion), chord.VoicingStyle)

	if chord.BassNote != nil {
		lowest := voiced[0]
		for _, p := range voiced[1:] {
			if p < lowest {
				lowest = p
			}
		}
		bassOctave := lowest/12 - 1
		bassPitch := bassOctave*12 + ((*chord.BassNote%12)+12)%12
		withBass := make([]int, 0, len(voiced)+1)
		withBass = append(withBass, bassPitch)
		for _, p := range voiced {
			if p != bassPitch {
				withBass = append(withBass, p)
			}
		}
		voiced = withBass
	}

	for i, p := range voiced {
		voiced[i] = ClampPitch(float64(p))
	}
	return voiced
}
