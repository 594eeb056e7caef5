package arp

import (
	"math"
	"math/rand"
	"sort"

	"github.com/jvetere1999/producer-hub-core/theory"
)

// StrumOffsetBeats returns the onset delay in beats for the note at index
// within a strummed chord of total notes. Disabled strums and single notes
// get no offset. The alternate direction resolves to up or down by chord
// index parity (even chords strum up).
func StrumOffsetBeats(index, total int, cfg StrumConfig, bpm float64, chordIndex int) float64 {
	if !cfg.Enabled || total <= 1 {
		return 0
	}

	var offsetPerNote float64
	if cfg.UseTicks {
		offsetPerNote = cfg.TimingTicks / TicksPerBeat
	} else {
		offsetPerNote = (cfg.TimingMs / 1000) * (bpm / 60)
	}

	direction := cfg.Direction
	if direction == StrumAlternate {
		if chordIndex%2 == 0 {
			direction = StrumUp
		} else {
			direction = StrumDown
		}
	}

	if direction == StrumDown {
		return float64(total-1-index) * offsetPerNote
	}
	return float64(index) * offsetPerNote
}

// ApplyVelocityCurve shapes the base velocity for the note at index within
// a chord of total notes. Single notes pass through unchanged.
func ApplyVelocityCurve(base, index, total int, curve VelocityCurve) int {
	if total <= 1 {
		return base
	}

	switch curve {
	case CurveAccentFirst:
		if index == 0 {
			return theory.ClampVelocity(float64(base + 20))
		}
		return theory.ClampVelocity(float64(base - 10))
	case CurveAccentLast:
		if index == total-1 {
			return theory.ClampVelocity(float64(base + 20))
		}
		return theory.ClampVelocity(float64(base - 10))
	case CurveCrescendo:
		position := float64(index) / float64(total-1)
		return theory.ClampVelocity(float64(base) * (0.6 + 0.4*position))
	case CurveDecrescendo:
		position := float64(index) / float64(total-1)
		return theory.ClampVelocity(float64(base) * (1 - 0.4*position))
	default: // flat
		return base
	}
}

// ArpeggiateChord renders one chord block to timed notes. With strum
// enabled the voiced pitches sound near-simultaneously with per-note
// offsets and curved velocities; otherwise the pattern order cycles at the
// configured rate for as many whole steps as fit the chord's duration.
// A non-nil seed makes the random pattern deterministic for that seed.
func ArpeggiateChord(chord theory.ChordBlock, cfg Config, strum StrumConfig, bpm float64, chordIndex int, seed *int64) []theory.MelodyNote {
	pitches := theory.VoicedChordNotes(chord)
	if len(pitches) == 0 {
		return nil
	}

	if strum.Enabled {
		return strumChord(chord, pitches, strum, bpm, chordIndex)
	}

	var order []int
	if seed != nil {
		order = SeededPatternOrder(pitches, cfg.Pattern, cfg.Octaves, cfg.IncludeRoot, *seed)
	} else {
		order = PatternOrder(pitches, cfg.Pattern, cfg.Octaves, cfg.IncludeRoot)
	}
	if len(order) == 0 {
		return nil
	}

	rateBeats, ok := RateBeats[cfg.Rate]
	if !ok {
		rateBeats = RateBeats[RateSixteenth]
	}
	noteDuration := rateBeats * float64(cfg.Gate) / 100
	maxNotes := int(math.Floor(chord.Duration / rateBeats))

	notes := make([]theory.MelodyNote, 0, maxNotes)
	for i := 0; i < maxNotes; i++ {
		note := theory.NewMelodyNote(
			order[i%len(order)],
			chord.StartBeat+float64(i)*rateBeats,
			noteDuration,
			chord.Velocity,
		)
		notes = append(notes, note)
	}
	return notes
}

func strumChord(chord theory.ChordBlock, pitches []int, strum StrumConfig, bpm float64, chordIndex int) []theory.MelodyNote {
	sorted := make([]int, len(pitches))
	copy(sorted, pitches)
	sort.Ints(sorted)

	notes := make([]theory.MelodyNote, 0, len(sorted))
	for i, pitch := range sorted {
		offset := StrumOffsetBeats(i, len(sorted), strum, bpm, chordIndex)
		note := theory.NewMelodyNote(
			pitch,
			chord.StartBeat+offset,
			math.Max(0.1, chord.Duration-offset),
			ApplyVelocityCurve(chord.Velocity, i, len(sorted), strum.VelocityCurve),
		)
		notes = append(notes, note)
	}
	return notes
}

// GeneratePreview arpeggiates every chord block and concatenates the
// results, optionally re-snapping pitches to a scale and applying
// humanization, then stably sorts by start beat. When seed is non-nil each
// chord uses seed + its index, so the whole preview reproduces from one
// base seed.
func GeneratePreview(chords []theory.ChordBlock, cfg Config, strum StrumConfig, bpm float64, scale *theory.ScaleConfig, humanize *theory.HumanizeConfig, seed *int64) []theory.MelodyNote {
	var notes []theory.MelodyNote
	for i, chord := range chords {
		var chordSeed *int64
		if seed != nil {
			s := *seed + int64(i)
			chordSeed = &s
		}
		notes = append(notes, ArpeggiateChord(chord, cfg, strum, bpm, i, chordSeed)...)
	}

	if scale != nil && scale.SnapToScale {
		for i := range notes {
			notes[i].Pitch = theory.SnapToScale(notes[i].Pitch, *scale)
		}
	}

	if humanize != nil && humanize.Enabled {
		notes = HumanizeNotes(notes, *humanize)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].StartBeat < notes[j].StartBeat
	})
	return notes
}

// CommitPreview merges a preview into existing notes. Every previewed note
// gets a brand-new id so later edits to the preview cannot collide with the
// committed copies. The result is sorted by start beat.
func CommitPreview(existing, preview []theory.MelodyNote) []theory.MelodyNote {
	merged := make([]theory.MelodyNote, 0, len(existing)+len(preview))
	merged = append(merged, existing...)
	for _, n := range preview {
		n.ID = theory.NewID()
		merged = append(merged, n)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartBeat < merged[j].StartBeat
	})
	return merged
}

// HumanizeNotes applies random timing and velocity jitter within the
// configured ranges. Swing only shifts off-beat notes (those whose doubled
// start beat is odd), by at most swingAmount * 0.1 beats. The jitter is
// intentionally non-deterministic; previews regenerate it on every call.
func HumanizeNotes(notes []theory.MelodyNote, cfg theory.HumanizeConfig) []theory.MelodyNote {
	res := make([]theory.MelodyNote, len(notes))
	for i, n := range notes {
		if cfg.SwingAmount > 0 && int(math.Round(n.StartBeat*2))%2 == 1 {
			n.StartBeat += cfg.SwingAmount * 0.1
		}
		if cfg.TimingRange > 0 {
			n.StartBeat += (rand.Float64()*2 - 1) * cfg.TimingRange
			if n.StartBeat < 0 {
				n.StartBeat = 0
			}
		}
		if cfg.VelocityRange > 0 {
			jitter := rand.Intn(2*cfg.VelocityRange+1) - cfg.VelocityRange
			n.Velocity = theory.ClampVelocity(float64(n.Velocity + jitter))
		}
		res[i] = n
	}
	return res
}
