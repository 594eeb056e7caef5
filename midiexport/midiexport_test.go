package midiexport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jvetere1999/producer-hub-core/arrangement"
	"github.com/jvetere1999/producer-hub-core/theory"
)

type capturedNote struct {
	delta   uint32
	channel uint8
	key     uint8
	on      bool
}

func noteEvents(t *testing.T, track smf.Track) []capturedNote {
	t.Helper()
	var out []capturedNote
	for _, evt := range track {
		var channel, key, velocity uint8
		switch {
		case evt.Message.GetNoteOn(&channel, &key, &velocity):
			out = append(out, capturedNote{delta: evt.Delta, channel: channel, key: key, on: true})
		case evt.Message.GetNoteOff(&channel, &key, &velocity):
			out = append(out, capturedNote{delta: evt.Delta, channel: channel, key: key})
		}
	}
	return out
}

func TestNotesToSMFTimingAndTempo(t *testing.T) {
	notes := []theory.MelodyNote{
		theory.NewMelodyNote(60, 1, 1, 100),
	}

	s, err := NotesToSMF(notes, 124)
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2, "tempo track plus one note track")

	var bpm float64
	foundTempo := false
	for _, evt := range s.Tracks[0] {
		if evt.Message.GetMetaTempo(&bpm) {
			foundTempo = true
		}
	}
	require.True(t, foundTempo)
	assert.InDelta(t, 124.0, bpm, 0.01)

	events := noteEvents(t, s.Tracks[1])
	require.Len(t, events, 2)
	assert.True(t, events[0].on)
	assert.Equal(t, uint32(480), events[0].delta, "note starts one beat in")
	assert.Equal(t, uint8(60), events[0].key)
	assert.False(t, events[1].on)
	assert.Equal(t, uint32(480), events[1].delta, "note lasts one beat")
}

func TestNotesToSMFBackToBackNotesReleaseBeforeRetrigger(t *testing.T) {
	notes := []theory.MelodyNote{
		theory.NewMelodyNote(60, 0, 1, 100),
		theory.NewMelodyNote(60, 1, 1, 100),
	}

	s, err := NotesToSMF(notes, 120)
	require.NoError(t, err)

	events := noteEvents(t, s.Tracks[1])
	require.Len(t, events, 4)
	assert.True(t, events[0].on)
	assert.False(t, events[1].on, "first note releases before the repeat triggers")
	assert.True(t, events[2].on)
	assert.Equal(t, uint32(0), events[2].delta)
}

func TestArrangementToSMFLanesAndChannels(t *testing.T) {
	scale := theory.ScaleConfig{Root: "C", Type: theory.ScaleMajor}

	melody := arrangement.NewMelodyLane("Lead", scale, "synth")
	melody.Notes = []theory.MelodyNote{theory.NewMelodyNote(60, 0, 1, 100)}

	drums := arrangement.NewDrumLane("Kit", "808")
	drums.Notes = []theory.MelodyNote{theory.NewMelodyNote(36, 0, 4, 110)}

	chords := arrangement.NewChordLane("Pads", "strings")
	chords.Chords = []theory.ChordBlock{theory.NewChordBlock(60, theory.ChordMajor, 0, 4, 90)}

	arr := arrangement.New(120, 4, scale).AddLane(melody).AddLane(drums).AddLane(chords)

	s, err := ArrangementToSMF(arr)
	require.NoError(t, err)
	require.Len(t, s.Tracks, 4, "tempo track plus three lane tracks")

	melodyEvents := noteEvents(t, s.Tracks[1])
	require.NotEmpty(t, melodyEvents)
	assert.Equal(t, uint8(0), melodyEvents[0].channel)

	drumEvents := noteEvents(t, s.Tracks[2])
	require.Len(t, drumEvents, 2)
	assert.Equal(t, uint8(9), drumEvents[0].channel, "drums land on the percussion channel")
	assert.False(t, drumEvents[1].on)
	assert.Equal(t, uint32(TicksPerBeat/4), drumEvents[1].delta, "one-shot notes use a fixed short gate")

	chordEvents := noteEvents(t, s.Tracks[3])
	ons := 0
	for _, e := range chordEvents {
		if e.on {
			ons++
			assert.Equal(t, uint8(1), e.channel, "chords take the next melodic channel")
		}
	}
	assert.Equal(t, 3, ons, "major triad flattens to three notes")
}

func TestArrangementToSMFSkipsMutedLanes(t *testing.T) {
	scale := theory.ScaleConfig{Root: "C", Type: theory.ScaleMajor}
	lead := arrangement.NewMelodyLane("Lead", scale, "synth")
	lead.Notes = []theory.MelodyNote{theory.NewMelodyNote(60, 0, 1, 100)}
	muted := arrangement.NewMelodyLane("Scratch", scale, "synth")
	muted.Muted = true
	muted.Notes = []theory.MelodyNote{theory.NewMelodyNote(72, 0, 1, 100)}

	arr := arrangement.New(120, 4, scale).AddLane(lead).AddLane(muted)

	s, err := ArrangementToSMF(arr)
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 2, "muted lane does not render")
}

func TestArrangementToSMFSoloWins(t *testing.T) {
	scale := theory.ScaleConfig{Root: "C", Type: theory.ScaleMajor}
	lead := arrangement.NewMelodyLane("Lead", scale, "synth")
	lead.Notes = []theory.MelodyNote{theory.NewMelodyNote(60, 0, 1, 100)}
	soloed := arrangement.NewMelodyLane("Hook", scale, "synth")
	soloed.Solo = true
	soloed.Notes = []theory.MelodyNote{theory.NewMelodyNote(72, 0, 1, 100)}

	arr := arrangement.New(120, 4, scale).AddLane(lead).AddLane(soloed)

	s, err := ArrangementToSMF(arr)
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2, "only the soloed lane renders")

	events := noteEvents(t, s.Tracks[1])
	require.NotEmpty(t, events)
	assert.Equal(t, uint8(72), events[0].key)
}

func TestWriteToProducesSMFHeader(t *testing.T) {
	s, err := NotesToSMF([]theory.MelodyNote{theory.NewMelodyNote(60, 0, 1, 100)}, 120)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTo(s, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("MThd")))
}

func TestNotesToSMFClampsOutOfRangePitches(t *testing.T) {
	s, err := NotesToSMF([]theory.MelodyNote{{ID: "n", Pitch: 300, StartBeat: 0, Duration: 1, Velocity: 100}}, 120)
	require.NoError(t, err)

	events := noteEvents(t, s.Tracks[1])
	require.NotEmpty(t, events)
	assert.Equal(t, uint8(theory.MaxPitch), events[0].key)
}
