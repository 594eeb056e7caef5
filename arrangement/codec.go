package arrangement

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jvetere1999/producer-hub-core/internal/logger"
	"github.com/jvetere1999/producer-hub-core/internal/urlcodec"
	"github.com/jvetere1999/producer-hub-core/storage"
	"github.com/jvetere1999/producer-hub-core/theory"
)

// EncodeCap bounds the serialized JSON an arrangement share link may carry.
// Decoding tolerates up to 1.5x the cap of *encoded* input before even
// attempting to decode, so oversized garbage is rejected cheaply.
const EncodeCap = 12000

var (
	// ErrPayloadTooLarge reports an arrangement too big to share.
	ErrPayloadTooLarge = errors.New("arrangement: payload exceeds size cap")
	// ErrInvalidPayload reports a payload that failed structural validation.
	ErrInvalidPayload = errors.New("arrangement: invalid payload")
)

// envelope is the versioned wire wrapper.
type envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

// Encode serializes the arrangement as {v, data} JSON and returns it
// base64/URI encoded for URL or localStorage embedding. Arrangements whose
// JSON exceeds EncodeCap are rejected outright.
func Encode(a Arrangement) (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encoding arrangement: %w", err)
	}
	wrapped, err := json.Marshal(envelope{V: CurrentSchemaVersion, Data: data})
	if err != nil {
		return "", fmt.Errorf("encoding arrangement envelope: %w", err)
	}
	if len(wrapped) > EncodeCap {
		return "", ErrPayloadTooLarge
	}
	return urlcodec.Encode(string(wrapped)), nil
}

// Decode parses an encoded arrangement payload. The whole payload is
// rejected on any structural problem: partial trust is never granted.
// Payloads from a newer schema version than this library knows pass
// through unmodified with a warning.
func Decode(encoded string) (*Arrangement, error) {
	if len(encoded) > EncodeCap*3/2 {
		return nil, ErrPayloadTooLarge
	}

	raw, err := urlcodec.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if env.V < 1 {
		return nil, fmt.Errorf("%w: bad schema version %d", ErrInvalidPayload, env.V)
	}

	if err := validateStructure(env.Data); err != nil {
		return nil, err
	}

	var a Arrangement
	if err := json.Unmarshal(env.Data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	migrated := MigratePayload(env.V, a)
	return &migrated, nil
}

// validateStructure checks the wire shape before any of it is trusted:
// id must be a string, lanes an array, bpm and bars in range.
func validateStructure(data json.RawMessage) error {
	var probe struct {
		ID    any      `json:"id"`
		Lanes any      `json:"lanes"`
		BPM   *float64 `json:"bpm"`
		Bars  *float64 `json:"bars"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if _, ok := probe.ID.(string); !ok {
		return fmt.Errorf("%w: id is not a string", ErrInvalidPayload)
	}
	if _, ok := probe.Lanes.([]any); !ok {
		return fmt.Errorf("%w: lanes is not an array", ErrInvalidPayload)
	}
	if probe.BPM == nil || *probe.BPM < MinBPM || *probe.BPM > MaxBPM {
		return fmt.Errorf("%w: bpm out of range", ErrInvalidPayload)
	}
	if probe.Bars == nil || *probe.Bars < MinBars || *probe.Bars > MaxBars {
		return fmt.Errorf("%w: bars out of range", ErrInvalidPayload)
	}
	return nil
}

// migrations maps a schema version to the pure step that lifts an
// arrangement to the next version. Each step is independently testable.
var migrations = map[int]func(Arrangement) Arrangement{
	1: migrateV1ToV2,
}

// MigratePayload lifts an arrangement decoded at the given version to the
// current schema. It never fails: versions newer than this library knows
// pass through unchanged with a warning, and the current version is a
// no-op.
func MigratePayload(version int, a Arrangement) Arrangement {
	if version > CurrentSchemaVersion {
		logger.Warn("arrangement payload from a newer schema version, passing through", logger.Fields{
			"payloadVersion": version,
			"knownVersion":   CurrentSchemaVersion,
		})
		return a
	}
	for v := version; v < CurrentSchemaVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			logger.Warn("no migration step registered, passing through", logger.Fields{"fromVersion": v})
			break
		}
		a = step(a)
	}
	return a
}

// migrateV1ToV2 stamps the schema version and gives every lane the note
// mode v1 predates: one-shot for drums, sustain otherwise.
func migrateV1ToV2(a Arrangement) Arrangement {
	a.SchemaVersion = 2
	lanes := make(Lanes, len(a.Lanes))
	for i, l := range a.Lanes {
		base := l.Base()
		if base.NoteMode == "" {
			if l.Type() == LaneDrums {
				base.NoteMode = theory.NoteModeOneShot
			} else {
				base.NoteMode = theory.NoteModeSustain
			}
		}
		lanes[i] = l.WithBase(base)
	}
	a.Lanes = lanes
	return a
}

// SaveTo encodes the arrangement into the store under key. Storage is an
// untrusted boundary: failures are logged and reported, never panicked.
func SaveTo(kv storage.KV, key string, a Arrangement) error {
	encoded, err := Encode(a)
	if err != nil {
		return err
	}
	if err := kv.Set(key, encoded); err != nil {
		logger.Warn("arrangement save failed", logger.Fields{"key": key, "error": err.Error()})
		return fmt.Errorf("saving arrangement: %w", err)
	}
	return nil
}

// LoadFrom reads and decodes the arrangement stored under key, falling
// back to a fresh default arrangement when the key is missing or the data
// is corrupt.
func LoadFrom(kv storage.KV, key string, fallbackScale theory.ScaleConfig) Arrangement {
	encoded, err := kv.Get(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("arrangement load failed, using default", logger.Fields{"key": key, "error": err.Error()})
		}
		return New(120, 4, fallbackScale)
	}
	a, err := Decode(encoded)
	if err != nil {
		logger.Warn("stored arrangement is corrupt, using default", logger.Fields{"key": key, "error": err.Error()})
		return New(120, 4, fallbackScale)
	}
	return *a
}
