package roll

import (
	"github.com/google/uuid"

	"go-pianoroll/timing"
)

// MinDuration is the shortest note the store will hold, in seconds.
// Anything shorter is raised to this floor.
const MinDuration = 0.01

// Note is a single musical event on the roll. Start and Duration are in
// seconds from the sequence origin.
type Note struct {
	ID       string  `json:"id"`
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Velocity float64 `json:"velocity"`
}

// End returns the note's release time in seconds.
func (n Note) End() float64 {
	return n.Start + n.Duration
}

// clamp forces all fields into their legal ranges.
func (n Note) clamp() Note {
	n.Pitch = clampPitch(n.Pitch)
	if n.Start < 0 {
		n.Start = 0
	}
	if n.Duration < MinDuration {
		n.Duration = MinDuration
	}
	n.Velocity = clampVelocity(n.Velocity)
	return n
}

func newNoteID() string {
	return uuid.NewString()
}

func clampPitch(p int) int {
	if p < timing.MinPitch {
		return timing.MinPitch
	}
	if p > timing.MaxPitch {
		return timing.MaxPitch
	}
	return p
}

func clampVelocity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
