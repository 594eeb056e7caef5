package clipref

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jvetere1999/producer-hub-core/internal/logger"
	"github.com/jvetere1999/producer-hub-core/storage"
)

// StoreVersion is the persisted clip store format version.
const StoreVersion = 1

// DefaultStoreKey is where the clip store lives in the backing KV.
const DefaultStoreKey = "projectClips"

// ErrClipNotFound is returned when a clip id is absent from a project.
var ErrClipNotFound = errors.New("clipref: clip not found")

// storePayload is the persisted shape: clips grouped by project id.
type storePayload struct {
	Version      int                         `json:"version"`
	ProjectClips map[string][]ProjectClipRef `json:"projectClips"`
}

// Store manages per-project clip collections on top of a KV backend.
// A corrupt or missing record resets to an empty store rather than failing,
// so a bad persisted blob never bricks the library.
type Store struct {
	kv  storage.KV
	key string
}

// NewStore creates a clip store persisting under DefaultStoreKey.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv, key: DefaultStoreKey}
}

// NewStoreWithKey creates a clip store persisting under a custom key.
func NewStoreWithKey(kv storage.KV, key string) *Store {
	return &Store{kv: kv, key: key}
}

func (s *Store) load() storePayload {
	empty := storePayload{Version: StoreVersion, ProjectClips: map[string][]ProjectClipRef{}}
	raw, err := s.kv.Get(s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Clip store read failed, starting empty", logger.Fields{
				"key":   s.key,
				"error": err.Error(),
			})
		}
		return empty
	}
	var payload storePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || payload.ProjectClips == nil {
		logger.Warn("Clip store corrupt, starting empty", logger.Fields{"key": s.key})
		return empty
	}
	return payload
}

func (s *Store) save(payload storePayload) error {
	payload.Version = StoreVersion
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("clipref: marshal store: %w", err)
	}
	if err := s.kv.Set(s.key, string(raw)); err != nil {
		logger.Warn("Clip store write failed", logger.Fields{
			"key":   s.key,
			"error": err.Error(),
		})
		return fmt.Errorf("clipref: persist store: %w", err)
	}
	return nil
}

// Attach adds a clip to a project's collection.
func (s *Store) Attach(projectID string, clip ProjectClipRef) error {
	payload := s.load()
	payload.ProjectClips[projectID] = append(payload.ProjectClips[projectID], clip)
	return s.save(payload)
}

// Detach removes a clip from a project by id.
func (s *Store) Detach(projectID, clipID string) error {
	payload := s.load()
	clips := payload.ProjectClips[projectID]
	kept := clips[:0:0]
	for _, c := range clips {
		if c.ID != clipID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(clips) {
		return ErrClipNotFound
	}
	if len(kept) == 0 {
		delete(payload.ProjectClips, projectID)
	} else {
		payload.ProjectClips[projectID] = kept
	}
	return s.save(payload)
}

// List returns a project's clips in attach order. Unknown projects get an
// empty slice.
func (s *Store) List(projectID string) []ProjectClipRef {
	payload := s.load()
	clips := payload.ProjectClips[projectID]
	out := make([]ProjectClipRef, len(clips))
	copy(out, clips)
	return out
}

// Update replaces a clip with the same id, refreshing its UpdatedAt.
func (s *Store) Update(projectID string, clip ProjectClipRef) error {
	payload := s.load()
	clips := payload.ProjectClips[projectID]
	for i, c := range clips {
		if c.ID == clip.ID {
			clips[i] = clip.Touch()
			payload.ProjectClips[projectID] = clips
			return s.save(payload)
		}
	}
	return ErrClipNotFound
}
