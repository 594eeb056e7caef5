package clipref

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jvetere1999/producer-hub-core/internal/logger"
	"github.com/jvetere1999/producer-hub-core/internal/urlcodec"
	"github.com/jvetere1999/producer-hub-core/theory"
)

// CurrentPayloadVersion is the clip wire format version written by Encode.
const CurrentPayloadVersion = 1

// EncodeCap bounds the JSON size of a clip payload before URL encoding.
const EncodeCap = 8000

var (
	// ErrPayloadTooLarge is returned when the clip set does not fit in a URL.
	ErrPayloadTooLarge = errors.New("clipref: payload exceeds url size limit")
	// ErrInvalidPayload is returned for undecodable or structurally bad input.
	ErrInvalidPayload = errors.New("clipref: invalid payload")
)

// SerializedNote is the compact wire shape of one note.
type SerializedNote struct {
	P int     `json:"p"` // pitch
	S float64 `json:"s"` // start beat
	D float64 `json:"d"` // duration
	V int     `json:"v"` // velocity
}

// SerializedMeta is the compact wire shape of ClipMetadata.
type SerializedMeta struct {
	B float64 `json:"b"` // bpm
	K string  `json:"k"` // key
	S string  `json:"s"` // scale
	T string  `json:"t"` // time signature
}

// SerializedLaneSettings is the compact wire shape of LaneSettings.
type SerializedLaneSettings struct {
	I  string `json:"i"`  // instrument id
	NM string `json:"nm"` // note mode
	V  int    `json:"v"`  // default velocity
	Q  string `json:"q"`  // quantize grid
}

// SerializedClip is the compact wire shape of a clip. Ids and timestamps
// are deliberately absent: the receiver mints its own.
type SerializedClip struct {
	K  string                 `json:"k"`  // kind
	N  string                 `json:"n"`  // name
	SB int                    `json:"sb"` // start bar
	LB int                    `json:"lb"` // length bars
	M  SerializedMeta         `json:"m"`
	LS SerializedLaneSettings `json:"ls"`
	NT []SerializedNote       `json:"nt"`
}

// Payload is the versioned envelope carrying a set of serialized clips.
type Payload struct {
	V     int              `json:"v"`
	Clips []SerializedClip `json:"clips"`
}

// SerializeClip converts a clip to its compact wire shape.
func SerializeClip(c ProjectClipRef) SerializedClip {
	nt := make([]SerializedNote, len(c.Notes))
	for i, n := range c.Notes {
		nt[i] = SerializedNote{P: n.Pitch, S: n.StartBeat, D: n.Duration, V: n.Velocity}
	}
	return SerializedClip{
		K:  string(c.Kind),
		N:  c.Name,
		SB: c.StartBar,
		LB: c.LengthBars,
		M: SerializedMeta{
			B: c.Metadata.BPM,
			K: c.Metadata.Key,
			S: c.Metadata.Scale,
			T: c.Metadata.TimeSignature,
		},
		LS: SerializedLaneSettings{
			I:  c.LaneSettings.InstrumentID,
			NM: string(c.LaneSettings.NoteMode),
			V:  c.LaneSettings.VelocityDefault,
			Q:  c.LaneSettings.QuantizeGrid,
		},
		NT: nt,
	}
}

// DeserializeClip rebuilds a rich clip from the wire shape, minting a fresh
// id and timestamps and fresh note ids.
func DeserializeClip(s SerializedClip) ProjectClipRef {
	c := NewClipRef(ClipKind(s.K), "", s.N, s.SB, s.LB)
	c.Metadata = ClipMetadata{BPM: s.M.B, Key: s.M.K, Scale: s.M.S, TimeSignature: s.M.T}
	c.LaneSettings = LaneSettings{
		InstrumentID:    s.LS.I,
		NoteMode:        theory.NoteMode(s.LS.NM),
		VelocityDefault: s.LS.V,
		QuantizeGrid:    s.LS.Q,
	}
	if len(s.NT) > 0 {
		c.Notes = make([]theory.MelodyNote, len(s.NT))
		for i, n := range s.NT {
			c.Notes[i] = theory.NewMelodyNote(n.P, n.S, n.D, n.V)
		}
	}
	return c
}

// SerializeClipsToPayload wraps the clips in a versioned wire envelope.
func SerializeClipsToPayload(clips []ProjectClipRef) Payload {
	payload := Payload{V: CurrentPayloadVersion, Clips: make([]SerializedClip, len(clips))}
	for i, c := range clips {
		payload.Clips[i] = SerializeClip(c)
	}
	return payload
}

// DeserializeClipsFromPayload rebuilds rich clips from a wire envelope.
func DeserializeClipsFromPayload(payload Payload) []ProjectClipRef {
	clips := make([]ProjectClipRef, len(payload.Clips))
	for i, s := range payload.Clips {
		clips[i] = DeserializeClip(s)
	}
	return clips
}

// EncodeClipsToURL serializes the clips into a URL-safe string, rejecting
// sets whose JSON would exceed EncodeCap characters.
func EncodeClipsToURL(clips []ProjectClipRef) (string, error) {
	raw, err := json.Marshal(SerializeClipsToPayload(clips))
	if err != nil {
		return "", fmt.Errorf("clipref: marshal payload: %w", err)
	}
	if len(raw) > EncodeCap {
		return "", fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(raw))
	}
	return urlcodec.Encode(string(raw)), nil
}

// DecodeClipsFromURL is the inverse of EncodeClipsToURL. Structural problems
// return ErrInvalidPayload; the caller decides whether to surface or ignore.
func DecodeClipsFromURL(encoded string) ([]ProjectClipRef, error) {
	if len(encoded) > EncodeCap*3/2 {
		return nil, fmt.Errorf("%w: encoded input too large", ErrPayloadTooLarge)
	}
	raw, err := urlcodec.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validateClipPayload([]byte(raw)); err != nil {
		return nil, err
	}
	var payload Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return DeserializeClipsFromPayload(migrateClipPayload(payload)), nil
}

// validateClipPayload probes the envelope with loose typing so malformed
// input fails with a clear error instead of silently zeroing fields.
func validateClipPayload(raw []byte) error {
	var probe struct {
		V     *float64          `json:"v"`
		Clips []json.RawMessage `json:"clips"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if probe.V == nil || *probe.V < 1 {
		return fmt.Errorf("%w: missing or bad version", ErrInvalidPayload)
	}
	if probe.Clips == nil {
		return fmt.Errorf("%w: missing clips", ErrInvalidPayload)
	}
	for i, rawClip := range probe.Clips {
		var clip struct {
			K  *string `json:"k"`
			SB *int    `json:"sb"`
			LB *int    `json:"lb"`
		}
		if err := json.Unmarshal(rawClip, &clip); err != nil {
			return fmt.Errorf("%w: clip %d: %v", ErrInvalidPayload, i, err)
		}
		if clip.K == nil || !validKinds[ClipKind(*clip.K)] {
			return fmt.Errorf("%w: clip %d: unknown kind", ErrInvalidPayload, i)
		}
		if clip.SB == nil || *clip.SB < 1 {
			return fmt.Errorf("%w: clip %d: bad start bar", ErrInvalidPayload, i)
		}
		if clip.LB == nil || *clip.LB < 1 {
			return fmt.Errorf("%w: clip %d: bad length", ErrInvalidPayload, i)
		}
	}
	return nil
}

// migrateClipPayload upgrades older payload versions in place. Payloads
// from a newer writer pass through untouched so older readers degrade
// gracefully instead of refusing the link.
func migrateClipPayload(p Payload) Payload {
	if p.V > CurrentPayloadVersion {
		logger.Warn("Clip payload from newer version, passing through", logger.Fields{
			"payloadVersion": p.V,
			"supported":      CurrentPayloadVersion,
		})
		return p
	}
	// Version 1 is the oldest shipped format; nothing to rewrite yet.
	p.V = CurrentPayloadVersion
	return p
}
