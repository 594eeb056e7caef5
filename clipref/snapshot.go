package clipref

import (
	"fmt"
	"math"

	"github.com/jvetere1999/producer-hub-core/arrangement"
	"github.com/jvetere1999/producer-hub-core/theory"
)

// SnapshotLane captures a lane from an arrangement as a standalone clip.
// Chord lanes are flattened to their voiced notes so the clip plays back
// without needing the chord model. Returns false if the lane is absent.
func SnapshotLane(a arrangement.Arrangement, laneID string) (ProjectClipRef, bool) {
	lane, ok := a.FindLane(laneID)
	if !ok {
		return ProjectClipRef{}, false
	}
	base := lane.Base()

	var kind ClipKind
	var notes []theory.MelodyNote
	instrument := ""
	switch l := lane.(type) {
	case arrangement.MelodyLane:
		kind = KindMelodyLane
		notes = append(notes, l.Notes...)
		instrument = l.Instrument
	case arrangement.DrumLane:
		kind = KindDrumLane
		notes = append(notes, l.Notes...)
	case arrangement.ChordLane:
		kind = KindChordLane
		instrument = l.Instrument
		for _, block := range l.Chords {
			for _, pitch := range theory.VoicedChordNotes(block) {
				notes = append(notes, theory.NewMelodyNote(pitch, block.StartBeat, block.Duration, block.Velocity))
			}
		}
	default:
		return ProjectClipRef{}, false
	}

	beatsPerBar := float64(a.TimeSignature.Numerator)
	lastBeat := 0.0
	for _, n := range notes {
		if end := n.StartBeat + n.Duration; end > lastBeat {
			lastBeat = end
		}
	}
	lengthBars := int(math.Ceil(lastBeat / beatsPerBar))
	if lengthBars < 1 {
		lengthBars = 1
	}

	clip := NewClipRef(kind, base.ID, base.Name, 1, lengthBars)
	clip.Notes = notes
	clip.Metadata = ClipMetadata{
		BPM:   a.BPM,
		Key:   a.Key,
		Scale: string(a.Scale.Type),
		TimeSignature: formatTimeSignature(a.TimeSignature),
	}
	clip.LaneSettings = LaneSettings{
		InstrumentID:    instrument,
		NoteMode:        base.NoteMode,
		VelocityDefault: 100,
	}
	return clip, true
}

func formatTimeSignature(ts theory.TimeSignature) string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}
