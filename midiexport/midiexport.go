// Package midiexport renders arrangements and note sequences to Standard
// MIDI Files so authored material can move into a DAW.
package midiexport

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jvetere1999/producer-hub-core/arrangement"
	"github.com/jvetere1999/producer-hub-core/theory"
)

// TicksPerBeat is the SMF resolution used for all exports.
const TicksPerBeat = 480

// drumChannel is the General MIDI percussion channel.
const drumChannel = uint8(9)

// oneShotBeats is the fixed gate used for one-shot (sample trigger) notes,
// whose stored duration is a grid artifact rather than a sounding length.
const oneShotBeats = 0.25

type event struct {
	tick uint32
	off  bool
	msg  []byte
}

// NotesToSMF renders a note sequence as a single-track SMF at the given
// tempo. Notes outside the MIDI pitch range are clamped, not dropped.
func NotesToSMF(notes []theory.MelodyNote, bpm float64) (*smf.SMF, error) {
	s := newSMF(bpm, theory.TimeSignature{Numerator: 4, Denominator: 4})
	track := notesTrack("notes", notes, 0, theory.NoteModeSustain)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("midiexport: add track: %w", err)
	}
	return s, nil
}

// ArrangementToSMF renders each audible lane of an arrangement as its own
// track. If any lane is soloed, only soloed lanes render; otherwise muted
// lanes are skipped. Chord lanes are flattened to their voiced notes and
// drum lanes land on the percussion channel.
func ArrangementToSMF(a arrangement.Arrangement) (*smf.SMF, error) {
	s := newSMF(a.BPM, a.TimeSignature)

	anySolo := false
	for _, lane := range a.Lanes {
		if lane.Base().Solo {
			anySolo = true
			break
		}
	}

	melodicChannel := uint8(0)
	for _, lane := range a.Lanes {
		base := lane.Base()
		if anySolo && !base.Solo {
			continue
		}
		if !anySolo && base.Muted {
			continue
		}

		var (
			notes   []theory.MelodyNote
			channel uint8
		)
		switch l := lane.(type) {
		case arrangement.MelodyLane:
			notes = l.Notes
			channel = nextMelodicChannel(&melodicChannel)
		case arrangement.DrumLane:
			notes = l.Notes
			channel = drumChannel
		case arrangement.ChordLane:
			for _, block := range l.Chords {
				for _, pitch := range theory.VoicedChordNotes(block) {
					notes = append(notes, theory.NewMelodyNote(pitch, block.StartBeat, block.Duration, block.Velocity))
				}
			}
			channel = nextMelodicChannel(&melodicChannel)
		default:
			continue
		}

		track := notesTrack(base.Name, notes, channel, base.NoteMode)
		if err := s.Add(track); err != nil {
			return nil, fmt.Errorf("midiexport: add track %q: %w", base.Name, err)
		}
	}
	return s, nil
}

// WriteTo streams the file to w.
func WriteTo(s *smf.SMF, w io.Writer) error {
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("midiexport: write smf: %w", err)
	}
	return nil
}

// WriteFile renders the file to disk.
func WriteFile(s *smf.SMF, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("midiexport: create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTo(s, f)
}

func newSMF(bpm float64, ts theory.TimeSignature) *smf.SMF {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerBeat)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(uint8(ts.Numerator), uint8(ts.Denominator)))
	tempo.Add(0, smf.MetaTempo(bpm))
	tempo.Close(0)
	// Track 0 carries only meta events; Add on a fresh SMF cannot fail here.
	_ = s.Add(tempo)
	return s
}

func notesTrack(name string, notes []theory.MelodyNote, channel uint8, mode theory.NoteMode) smf.Track {
	events := make([]event, 0, len(notes)*2)
	for _, n := range notes {
		pitch := uint8(theory.ClampPitch(float64(n.Pitch)))
		velocity := uint8(theory.ClampVelocity(float64(n.Velocity)))
		duration := n.Duration
		if mode == theory.NoteModeOneShot {
			duration = oneShotBeats
		}
		on := beatsToTicks(n.StartBeat)
		off := beatsToTicks(n.StartBeat + duration)
		if off <= on {
			off = on + 1
		}
		events = append(events,
			event{tick: on, msg: midi.NoteOn(channel, pitch, velocity)},
			event{tick: off, off: true, msg: midi.NoteOff(channel, pitch)},
		)
	}
	// Offs sort before ons at the same tick so back-to-back repeats of a
	// pitch release before retriggering.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	last := uint32(0)
	for _, ev := range events {
		track.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	track.Close(0)
	return track
}

func nextMelodicChannel(next *uint8) uint8 {
	ch := *next
	if ch == drumChannel {
		ch++
	}
	*next = (ch + 1) % 16
	return ch
}

func beatsToTicks(beats float64) uint32 {
	if beats < 0 {
		return 0
	}
	return uint32(math.Round(beats * TicksPerBeat))
}
