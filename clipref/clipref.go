// Package clipref implements the compact, shareable clip snapshot format:
// a denormalized copy of a lane's contents with short wire keys so a set of
// clips fits in a URL, plus the per-project clip store.
package clipref

import (
	"github.com/jvetere1999/producer-hub-core/internal/musicutil"
	"github.com/jvetere1999/producer-hub-core/theory"
)

// ClipKind tags what kind of lane a clip was snapshotted from.
type ClipKind string

const (
	KindDrumLane   ClipKind = "drumLane"
	KindMelodyLane ClipKind = "melodyLane"
	KindChordLane  ClipKind = "chordLane"
	KindAudioLoop  ClipKind = "audioLoop"
)

// validKinds guards boundary payloads; anything else rejects the payload.
var validKinds = map[ClipKind]bool{
	KindDrumLane:   true,
	KindMelodyLane: true,
	KindChordLane:  true,
	KindAudioLoop:  true,
}

// ClipMetadata captures the musical context the clip was authored in.
type ClipMetadata struct {
	BPM           float64 `json:"bpm"`
	Key           string  `json:"key"`
	Scale         string  `json:"scale"`
	TimeSignature string  `json:"timeSignature"`
}

// LaneSettings carries the playback settings a clip needs to sound right
// outside its source lane.
type LaneSettings struct {
	InstrumentID    string          `json:"instrumentId"`
	NoteMode        theory.NoteMode `json:"noteMode"`
	VelocityDefault int             `json:"velocityDefault"`
	QuantizeGrid    string          `json:"quantizeGrid"`
}

// ProjectClipRef is the rich in-memory clip shape. Once created it is a
// copy with its own lifetime: edits to the source lane do not reach it.
type ProjectClipRef struct {
	ID           string              `json:"id"`
	Kind         ClipKind            `json:"kind"`
	RefID        string              `json:"refId"`
	Name         string              `json:"name"`
	StartBar     int                 `json:"startBar"`   // >= 1
	LengthBars   int                 `json:"lengthBars"` // >= 1
	Metadata     ClipMetadata        `json:"metadata"`
	LaneSettings LaneSettings        `json:"laneSettings"`
	Notes        []theory.MelodyNote `json:"notes"`
	CreatedAt    string              `json:"createdAt"`
	UpdatedAt    string              `json:"updatedAt"`
}

// NewClipRef creates a clip snapshot with a fresh id and timestamps,
// clamping bars to their minimum of 1.
func NewClipRef(kind ClipKind, refID, name string, startBar, lengthBars int) ProjectClipRef {
	now := theory.Now()
	return ProjectClipRef{
		ID:         theory.NewID(),
		Kind:       kind,
		RefID:      refID,
		Name:       name,
		StartBar:   musicutil.Clamp(startBar, 1, 1<<30),
		LengthBars: musicutil.Clamp(lengthBars, 1, 1<<30),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch returns a copy with UpdatedAt refreshed.
func (c ProjectClipRef) Touch() ProjectClipRef {
	c.UpdatedAt = theory.Now()
	return c
}
