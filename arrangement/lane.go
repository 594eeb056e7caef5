// Package arrangement models the lane/arrangement container and its
// versioned, size-bounded wire format.
package arrangement

import (
	"encoding/json"
	"fmt"

	"github.com/jvetere1999/producer-hub-core/internal/musicutil"
	"github.com/jvetere1999/producer-hub-core/theory"
)

// LaneType discriminates the lane variants on the wire.
type LaneType string

const (
	LaneMelody LaneType = "melody"
	LaneDrums  LaneType = "drums"
	LaneChords LaneType = "chords"
)

// LaneBase carries the fields shared by every lane variant.
type LaneBase struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Muted     bool            `json:"muted"`
	Solo      bool            `json:"solo"`
	Volume    int             `json:"volume"` // [0,127]
	Pan       int             `json:"pan"`    // [-64,63]
	Color     string          `json:"color"`
	Collapsed bool            `json:"collapsed"`
	NoteMode  theory.NoteMode `json:"noteMode"`
}

// Lane is a sealed tagged union over the three lane variants. Adding a new
// variant means implementing the unexported method, which forces every
// switch over Type() in this module to be revisited.
type Lane interface {
	Type() LaneType
	Base() LaneBase
	// WithBase returns a copy of the lane with its shared fields replaced.
	WithBase(base LaneBase) Lane

	isLane()
}

// MelodyLane holds melodic notes played against a scale.
type MelodyLane struct {
	LaneBase
	Notes      []theory.MelodyNote `json:"notes"`
	Scale      theory.ScaleConfig  `json:"scale"`
	Instrument string              `json:"instrument"`
}

// DrumLane holds one-shot hits for a drum kit.
type DrumLane struct {
	LaneBase
	Notes   []theory.MelodyNote `json:"notes"`
	Kit     string              `json:"kit"`
	Pattern string              `json:"pattern"`
}

// ChordLane holds chord blocks for a harmonic instrument.
type ChordLane struct {
	LaneBase
	Chords     []theory.ChordBlock `json:"chords"`
	Instrument string              `json:"instrument"`
}

func (l MelodyLane) Type() LaneType { return LaneMelody }
func (l DrumLane) Type() LaneType   { return LaneDrums }
func (l ChordLane) Type() LaneType  { return LaneChords }

func (l MelodyLane) Base() LaneBase { return l.LaneBase }
func (l DrumLane) Base() LaneBase   { return l.LaneBase }
func (l ChordLane) Base() LaneBase  { return l.LaneBase }

func (l MelodyLane) WithBase(base LaneBase) Lane { l.LaneBase = base; return l }
func (l DrumLane) WithBase(base LaneBase) Lane   { l.LaneBase = base; return l }
func (l ChordLane) WithBase(base LaneBase) Lane  { l.LaneBase = base; return l }

func (MelodyLane) isLane() {}
func (DrumLane) isLane()   {}
func (ChordLane) isLane()  {}

// newLaneBase builds the shared fields with playable defaults and a fresh
// id, clamping volume and pan.
func newLaneBase(name string, noteMode theory.NoteMode) LaneBase {
	return LaneBase{
		ID:       theory.NewID(),
		Name:     name,
		Volume:   100,
		Pan:      0,
		NoteMode: noteMode,
	}
}

// NewMelodyLane creates an empty melody lane in the given scale.
func NewMelodyLane(name string, scale theory.ScaleConfig, instrument string) MelodyLane {
	return MelodyLane{
		LaneBase:   newLaneBase(name, theory.NoteModeSustain),
		Scale:      scale,
		Instrument: instrument,
	}
}

// NewDrumLane creates an empty drum lane. Drum lanes default to one-shot
// triggering.
func NewDrumLane(name string, kit string) DrumLane {
	return DrumLane{
		LaneBase: newLaneBase(name, theory.NoteModeOneShot),
		Kit:      kit,
	}
}

// NewChordLane creates an empty chord lane.
func NewChordLane(name string, instrument string) ChordLane {
	return ChordLane{
		LaneBase:   newLaneBase(name, theory.NoteModeSustain),
		Instrument: instrument,
	}
}

// ClampLaneBase constrains volume and pan into their valid ranges.
func ClampLaneBase(base LaneBase) LaneBase {
	base.Volume = musicutil.Clamp(base.Volume, 0, 127)
	base.Pan = musicutil.Clamp(base.Pan, -64, 63)
	return base
}

// laneEnvelope is the wire shape of a lane: the variant's fields plus a
// discriminator.
type laneEnvelope struct {
	Type LaneType `json:"type"`
}

func (l MelodyLane) MarshalJSON() ([]byte, error) {
	type alias MelodyLane
	return json.Marshal(struct {
		Type LaneType `json:"type"`
		alias
	}{Type: LaneMelody, alias: alias(l)})
}

func (l DrumLane) MarshalJSON() ([]byte, error) {
	type alias DrumLane
	return json.Marshal(struct {
		Type LaneType `json:"type"`
		alias
	}{Type: LaneDrums, alias: alias(l)})
}

func (l ChordLane) MarshalJSON() ([]byte, error) {
	type alias ChordLane
	return json.Marshal(struct {
		Type LaneType `json:"type"`
		alias
	}{Type: LaneChords, alias: alias(l)})
}

// Lanes is a lane list that knows how to decode its tagged variants.
type Lanes []Lane

func (ls *Lanes) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	lanes := make(Lanes, 0, len(raws))
	for _, raw := range raws {
		var env laneEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return err
		}
		lane, err := unmarshalLane(env.Type, raw)
		if err != nil {
			return err
		}
		lanes = append(lanes, lane)
	}
	*ls = lanes
	return nil
}

func unmarshalLane(laneType LaneType, raw json.RawMessage) (Lane, error) {
	switch laneType {
	case LaneMelody:
		var l MelodyLane
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		return l, nil
	case LaneDrums:
		var l DrumLane
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		return l, nil
	case LaneChords:
		var l ChordLane
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown lane type: %q", laneType)
	}
}
