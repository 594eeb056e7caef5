// Package theory implements the music-theory model: note/MIDI conversion,
// scale membership and snapping, chord-tone/inversion/voicing math, and the
// core note and chord entities everything else in the library operates on.
package theory

import (
	"time"

	"github.com/google/uuid"
)

// ChordType identifies one of the 15 supported chord qualities.
type ChordType string

const (
	ChordMajor           ChordType = "major"
	ChordMinor           ChordType = "minor"
	ChordDiminished      ChordType = "diminished"
	ChordAugmented       ChordType = "augmented"
	ChordSus2            ChordType = "sus2"
	ChordSus4            ChordType = "sus4"
	ChordMajor7          ChordType = "major7"
	ChordMinor7          ChordType = "minor7"
	ChordDominant7       ChordType = "dominant7"
	ChordDiminished7     ChordType = "diminished7"
	ChordHalfDiminished7 ChordType = "halfDiminished7"
	ChordMinorMajor7     ChordType = "minorMajor7"
	ChordAugmented7      ChordType = "augmented7"
	ChordMajor9          ChordType = "major9"
	ChordMinor9          ChordType = "minor9"
)

// ScaleType identifies one of the 13 supported scale modes.
type ScaleType string

const (
	ScaleMajor            ScaleType = "major"
	ScaleMinor            ScaleType = "minor"
	ScaleDorian           ScaleType = "dorian"
	ScalePhrygian         ScaleType = "phrygian"
	ScaleLydian           ScaleType = "lydian"
	ScaleMixolydian       ScaleType = "mixolydian"
	ScaleLocrian          ScaleType = "locrian"
	ScaleHarmonicMinor    ScaleType = "harmonicMinor"
	ScaleMelodicMinor     ScaleType = "melodicMinor"
	ScalePhrygianDominant ScaleType = "phrygianDominant"
	ScaleMajorPentatonic  ScaleType = "majorPentatonic"
	ScaleMinorPentatonic  ScaleType = "minorPentatonic"
	ScaleBlues            ScaleType = "blues"
)

// VoicingStyle selects the vertical arrangement of a chord's tones.
type VoicingStyle string

const (
	VoicingClose  VoicingStyle = "close"
	VoicingOpen   VoicingStyle = "open"
	VoicingSpread VoicingStyle = "spread"
	VoicingDrop2  VoicingStyle = "drop2"
	VoicingDrop3  VoicingStyle = "drop3"
)

// NoteMode controls how a lane's notes are triggered during playback.
type NoteMode string

const (
	NoteModeSustain NoteMode = "sustain"
	NoteModeOneShot NoteMode = "oneShot"
)

// MelodyNote is a single timed note. It is a value type: transforms return
// fresh copies rather than mutating in place.
type MelodyNote struct {
	ID        string  `json:"id"`
	Pitch     int     `json:"pitch"`     // MIDI, clamped to [21,108]
	StartBeat float64 `json:"startBeat"` // beats from clip start, >= 0
	Duration  float64 `json:"duration"`  // beats, clamped to [0.0625,16]
	Velocity  int     `json:"velocity"`  // clamped to [1,127]
}

// ChordBlock is a timed chord region. The effective inversion is always
// Inversion mod the chord's tone count.
type ChordBlock struct {
	ID           string       `json:"id"`
	RootPitch    int          `json:"rootPitch"`
	ChordType    ChordType    `json:"chordType"`
	StartBeat    float64      `json:"startBeat"`
	Duration     float64      `json:"duration"`
	Velocity     int          `json:"velocity"`
	Inversion    int          `json:"inversion"`
	VoicingStyle VoicingStyle `json:"voicingStyle"`
	BassNote     *int         `json:"bassNote,omitempty"`
}

// ScaleConfig names the active key and whether pitches snap into it.
type ScaleConfig struct {
	Root        string    `json:"root"` // one of the 12 sharp note names
	Type        ScaleType `json:"type"`
	SnapToScale bool      `json:"snapToScale"`
}

// HumanizeConfig controls timing/velocity jitter and swing.
type HumanizeConfig struct {
	Enabled           bool    `json:"enabled"`
	TimingRange       float64 `json:"timingRange"` // max jitter in beats
	VelocityRange     int     `json:"velocityRange"`
	SwingAmount       float64 `json:"swingAmount"` // 0..1
	LinkToGlobalSwing bool    `json:"linkToGlobalSwing"`
}

// TimeSignature is a bar meter such as 4/4 or 6/8.
type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// NewID returns a fresh collision-free entity id.
func NewID() string {
	return uuid.NewString()
}

// Now returns the ISO-8601 timestamp used on created/updated fields.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NewMelodyNote creates a note with a fresh id, clamping every numeric field
// into its playable range.
func NewMelodyNote(pitch int, startBeat, duration float64, velocity int) MelodyNote {
	if startBeat < 0 {
		startBeat = 0
	}
	return MelodyNote{
		ID:        NewID(),
		Pitch:     ClampPitch(float64(pitch)),
		StartBeat: startBeat,
		Duration:  ClampDuration(duration),
		Velocity:  ClampVelocity(float64(velocity)),
	}
}

// NewChordBlock creates a chord block with a fresh id and clamped fields.
func NewChordBlock(rootPitch int, chordType ChordType, startBeat, duration float64, velocity int) ChordBlock {
	if startBeat < 0 {
		startBeat = 0
	}
	if chordType == "" {
		chordType = ChordMajor
	}
	return ChordBlock{
		ID:           NewID(),
		RootPitch:    ClampPitch(float64(rootPitch)),
		ChordType:    chordType,
		StartBeat:    startBeat,
		Duration:     ClampDuration(duration),
		Velocity:     ClampVelocity(float64(velocity)),
		VoicingStyle: VoicingClose,
	}
}
