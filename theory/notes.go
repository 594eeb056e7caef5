package theory

import (
	"fmt"

	"github.com/jvetere1999/producer-hub-core/internal/musicutil"
)

// NoteNames lists the 12 pitch-class names in sharp spelling, index = semitone
// offset from C.
var NoteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

const (
	// MinPitch and MaxPitch bound every pitch this library emits (A0..C8).
	MinPitch = 21
	MaxPitch = 108

	MinVelocity = 1
	MaxVelocity = 127

	MinDuration = 0.0625
	MaxDuration = 16.0
)

// scaleIntervals maps each scale type to its semitone offsets from the root,
// in ascending order. The order matters: SnapToScale breaks distance ties by
// first scale degree encountered.
var scaleIntervals = map[ScaleType][]int{
	ScaleMajor:            {0, 2, 4, 5, 7, 9, 11},
	ScaleMinor:            {0, 2, 3, 5, 7, 8, 10},
	ScaleDorian:           {0, 2, 3, 5, 7, 9, 10},
	ScalePhrygian:         {0, 1, 3, 5, 7, 8, 10},
	ScaleLydian:           {0, 2, 4, 6, 7, 9, 11},
	ScaleMixolydian:       {0, 2, 4, 5, 7, 9, 10},
	ScaleLocrian:          {0, 1, 3, 5, 6, 8, 10},
	ScaleHarmonicMinor:    {0, 2, 3, 5, 7, 8, 11},
	ScaleMelodicMinor:     {0, 2, 3, 5, 7, 9, 11},
	ScalePhrygianDominant: {0, 1, 4, 5, 7, 8, 10},
	ScaleMajorPentatonic:  {0, 2, 4, 7, 9},
	ScaleMinorPentatonic:  {0, 3, 5, 7, 10},
	ScaleBlues:            {0, 3, 5, 6, 7, 10},
}

// noteIndex resolves a note name to its pitch class, accepting flat spellings
// as aliases of the canonical sharp names.
func noteIndex(name string) (int, bool) {
	for i, n := range NoteNames {
		if n == name {
			return i, true
		}
	}
	flats := map[string]int{"Db": 1, "Eb": 3, "Gb": 6, "Ab": 8, "Bb": 10}
	idx, ok := flats[name]
	return idx, ok
}

// NoteToMidi converts a note name and octave to a MIDI pitch
// (C4 = 60, so midi = (octave+1)*12 + pitch class).
func NoteToMidi(name string, octave int) (int, error) {
	idx, ok := noteIndex(name)
	if !ok {
		return 0, fmt.Errorf("unknown note name: %q", name)
	}
	return (octave+1)*12 + idx, nil
}

// MidiToNote is the exact inverse of NoteToMidi for midi in [0,127].
func MidiToNote(midi int) (name string, octave int) {
	return NoteNames[((midi%12)+12)%12], midi/12 - 1
}

// NoteNameForMidi renders a pitch for display, e.g. 60 -> "C4".
func NoteNameForMidi(midi int) string {
	name, octave := MidiToNote(midi)
	return fmt.Sprintf("%s%d", name, octave)
}

// ScalePitchClasses returns the scale's pitch classes in ascending interval
// order starting at the root.
func ScalePitchClasses(root string, scaleType ScaleType) ([]int, error) {
	rootIdx, ok := noteIndex(root)
	if !ok {
		return nil, fmt.Errorf("unknown note name: %q", root)
	}
	intervals, ok := scaleIntervals[scaleType]
	if !ok {
		return nil, fmt.Errorf("unknown scale type: %q", scaleType)
	}
	classes := make([]int, len(intervals))
	for i, interval := range intervals {
		classes[i] = (rootIdx + interval) % 12
	}
	return classes, nil
}

// IsInScale reports whether pitch's class belongs to the scale. Unknown
// roots or scale types count as out of scale.
func IsInScale(pitch int, cfg ScaleConfig) bool {
	classes, err := ScalePitchClasses(cfg.Root, cfg.Type)
	if err != nil {
		return false
	}
	pc := ((pitch % 12) + 12) % 12
	for _, c := range classes {
		if c == pc {
			return true
		}
	}
	return false
}

// SnapToScale moves an out-of-scale pitch to the nearest scale tone. Ties on
// circular distance keep the first scale degree in ascending interval order,
// which is deterministic rather than audibly "best". In-scale pitches pass
// through unchanged; results are clamped to the playable range.
func SnapToScale(pitch int, cfg ScaleConfig) int {
	if IsInScale(pitch, cfg) {
		return pitch
	}
	classes, err := ScalePitchClasses(cfg.Root, cfg.Type)
	if err != nil {
		return ClampPitch(float64(pitch))
	}

	pc := ((pitch % 12) + 12) % 12
	best := classes[0]
	bestDist := circularDistance(pc, classes[0])
	for _, c := range classes[1:] {
		if d := circularDistance(pc, c); d < bestDist {
			best = c
			bestDist = d
		}
	}

	snapped := pitch - pc + best
	// Wrap-around correction: only nudge an octave when the raw class delta
	// points the long way round the circle.
	if raw := best - pc; raw > 6 {
		snapped -= 12
	} else if raw < -6 {
		snapped += 12
	}
	return ClampPitch(float64(snapped))
}

func circularDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return musicutil.MinInt(d, 12-d)
}

// ClampPitch rounds and clamps to the playable MIDI range [21,108].
func ClampPitch(pitch float64) int {
	return musicutil.RoundClamp(pitch, MinPitch, MaxPitch)
}

// ClampVelocity rounds and clamps to [1,127].
func ClampVelocity(velocity float64) int {
	return musicutil.RoundClamp(velocity, MinVelocity, MaxVelocity)
}

// ClampDuration clamps to [0.0625,16] beats without rounding.
func ClampDuration(duration float64) float64 {
	return musicutil.Clamp(duration, MinDuration, MaxDuration)
}

// TransposeNotes shifts every note by the given number of semitones,
// clamping into the playable range. The input slice is not modified.
func TransposeNotes(notes []MelodyNote, semitones int) []MelodyNote {
	res := make([]MelodyNote, len(notes))
	for i, n := range notes {
		n.Pitch = ClampPitch(float64(n.Pitch + semitones))
		res[i] = n
	}
	return res
}
