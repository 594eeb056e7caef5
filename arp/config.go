// Package arp converts chord blocks into individual timed notes: pattern
// ordering across octaves, seeded or free randomness, strum timing offsets,
// and velocity curves. The whole package is a stateless pipeline from
// (chords, config, bpm) to melody notes.
package arp

import "fmt"

// TicksPerBeat is the tick resolution used for tick-based strum timing.
const TicksPerBeat = 480.0

// Pattern selects the note ordering of the arpeggio.
type Pattern string

const (
	PatternUp     Pattern = "up"
	PatternDown   Pattern = "down"
	PatternUpDown Pattern = "upDown"
	PatternDownUp Pattern = "downUp"
	PatternRandom Pattern = "random"
	PatternPlayed Pattern = "played"
)

// Rate is the rhythmic step of the arpeggio.
type Rate string

const (
	RateWhole     Rate = "1/1"
	RateHalf      Rate = "1/2"
	RateQuarter   Rate = "1/4"
	RateEighth    Rate = "1/8"
	RateSixteenth Rate = "1/16"
	RateThirtySec Rate = "1/32"
)

// RateBeats maps each rate to its length in beats.
var RateBeats = map[Rate]float64{
	RateWhole:     4,
	RateHalf:      2,
	RateQuarter:   1,
	RateEighth:    0.5,
	RateSixteenth: 0.25,
	RateThirtySec: 0.125,
}

// Config drives arpeggio generation.
type Config struct {
	Pattern     Pattern `json:"pattern"`
	Rate        Rate    `json:"rate"`
	Gate        int     `json:"gate"`    // percent of the step actually sounded, [1,200]
	Octaves     int     `json:"octaves"` // [1,4]
	IncludeRoot bool    `json:"includeRoot"`
}

// StrumDirection orders strummed notes in time.
type StrumDirection string

const (
	StrumUp        StrumDirection = "up"
	StrumDown      StrumDirection = "down"
	StrumAlternate StrumDirection = "alternate"
)

// VelocityCurve shapes per-note velocities across a strummed chord.
type VelocityCurve string

const (
	CurveFlat        VelocityCurve = "flat"
	CurveAccentFirst VelocityCurve = "accentFirst"
	CurveAccentLast  VelocityCurve = "accentLast"
	CurveCrescendo   VelocityCurve = "crescendo"
	CurveDecrescendo VelocityCurve = "decrescendo"
)

// StrumConfig drives strummed (near-simultaneous) chord rendering. Timing is
// interpreted in ticks (480/beat) when UseTicks is set, otherwise in
// milliseconds.
type StrumConfig struct {
	Enabled       bool           `json:"enabled"`
	TimingMs      float64        `json:"timingMs"`
	TimingTicks   float64        `json:"timingTicks"`
	UseTicks      bool           `json:"useTicks"`
	Direction     StrumDirection `json:"direction"`
	VelocityCurve VelocityCurve  `json:"velocityCurve"`
}

// ValidateConfig returns human-readable violations for out-of-range config
// values. An empty result means valid. Violations are advisory: generation
// functions still run on invalid configs, they just produce degenerate
// output.
func ValidateConfig(cfg Config, strum StrumConfig) []string {
	var violations []string
	if cfg.Gate < 1 || cfg.Gate > 200 {
		violations = append(violations, fmt.Sprintf("gate must be between 1 and 200, got %d", cfg.Gate))
	}
	if cfg.Octaves < 1 || cfg.Octaves > 4 {
		violations = append(violations, fmt.Sprintf("octaves must be between 1 and 4, got %d", cfg.Octaves))
	}
	if strum.TimingMs < 0 || strum.TimingMs > 500 {
		violations = append(violations, fmt.Sprintf("strum timing must be between 0 and 500 ms, got %g", strum.TimingMs))
	}
	if strum.TimingTicks < 0 || strum.TimingTicks > 480 {
		violations = append(violations, fmt.Sprintf("strum timing must be between 0 and 480 ticks, got %g", strum.TimingTicks))
	}
	return violations
}
