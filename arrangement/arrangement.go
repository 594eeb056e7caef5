package arrangement

import (
	"github.com/jvetere1999/producer-hub-core/internal/musicutil"
	"github.com/jvetere1999/producer-hub-core/theory"
)

// CurrentSchemaVersion tags every arrangement this package produces.
const CurrentSchemaVersion = 2

// BPM and bar limits for a valid arrangement.
const (
	MinBPM  = 20
	MaxBPM  = 300
	MinBars = 1
	MaxBars = 64
)

// Arrangement aggregates lanes with the global musical settings. It owns
// its lanes exclusively: no lane value is shared between arrangements, and
// every mutator returns a new value with a refreshed UpdatedAt.
type Arrangement struct {
	ID            string                `json:"id"`
	SchemaVersion int                   `json:"schemaVersion"`
	BPM           float64               `json:"bpm"`
	TimeSignature theory.TimeSignature  `json:"timeSignature"`
	Bars          int                   `json:"bars"`
	Key           string                `json:"key"`
	Scale         theory.ScaleConfig    `json:"scale"`
	Lanes         Lanes                 `json:"lanes"`
	Humanize      theory.HumanizeConfig `json:"humanize"`
	CreatedAt     string                `json:"createdAt"`
	UpdatedAt     string                `json:"updatedAt"`
}

// New creates an empty arrangement at the current schema version, clamping
// bpm and bars into their valid ranges.
func New(bpm float64, bars int, scale theory.ScaleConfig) Arrangement {
	now := theory.Now()
	return Arrangement{
		ID:            theory.NewID(),
		SchemaVersion: CurrentSchemaVersion,
		BPM:           musicutil.Clamp(bpm, MinBPM, MaxBPM),
		TimeSignature: theory.TimeSignature{Numerator: 4, Denominator: 4},
		Bars:          musicutil.Clamp(bars, MinBars, MaxBars),
		Key:           scale.Root,
		Scale:         scale,
		Lanes:         Lanes{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// touched returns a copy with UpdatedAt refreshed.
func (a Arrangement) touched() Arrangement {
	a.UpdatedAt = theory.Now()
	return a
}

// cloneLanes copies the lane slice so mutations never alias the receiver's.
func (a Arrangement) cloneLanes() Lanes {
	lanes := make(Lanes, len(a.Lanes))
	copy(lanes, a.Lanes)
	return lanes
}

// AddLane appends a lane.
func (a Arrangement) AddLane(lane Lane) Arrangement {
	lanes := a.cloneLanes()
	a.Lanes = append(lanes, lane)
	return a.touched()
}

// RemoveLane drops the lane with the given id; unknown ids are a no-op
// (UpdatedAt still refreshes, matching the reference tool).
func (a Arrangement) RemoveLane(laneID string) Arrangement {
	lanes := make(Lanes, 0, len(a.Lanes))
	for _, l := range a.Lanes {
		if l.Base().ID != laneID {
			lanes = append(lanes, l)
		}
	}
	a.Lanes = lanes
	return a.touched()
}

// UpdateLane replaces the lane with the same id.
func (a Arrangement) UpdateLane(lane Lane) Arrangement {
	lanes := a.cloneLanes()
	for i, l := range lanes {
		if l.Base().ID == lane.Base().ID {
			lanes[i] = lane
		}
	}
	a.Lanes = lanes
	return a.touched()
}

// MoveLane swaps the lane at index with its neighbor in the given
// direction (-1 up, +1 down). Moves past either end are no-ops.
func (a Arrangement) MoveLane(index, direction int) Arrangement {
	target := index + direction
	if index < 0 || index >= len(a.Lanes) || target < 0 || target >= len(a.Lanes) {
		return a
	}
	lanes := a.cloneLanes()
	lanes[index], lanes[target] = lanes[target], lanes[index]
	a.Lanes = lanes
	return a.touched()
}

// FindLane returns the lane with the given id, if present.
func (a Arrangement) FindLane(laneID string) (Lane, bool) {
	for _, l := range a.Lanes {
		if l.Base().ID == laneID {
			return l, true
		}
	}
	return nil, false
}
