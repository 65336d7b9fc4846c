// Package timing converts between the coordinate systems the editor deals in:
// wall-clock seconds, musical beats/ticks, and screen pixels.
package timing

import (
	"errors"
	"fmt"
	"math"
)

// PPQ is the tick resolution used for export: pulses per quarter note.
const PPQ = 480

// MinPitch and MaxPitch bound the chromatic range.
const (
	MinPitch = 0
	MaxPitch = 127
)

// ErrInvalidConfig reports a non-positive tempo, resolution, or pixel scale.
var ErrInvalidConfig = errors.New("invalid timing configuration")

// Clock is a pure tempo model. All methods are functions of their inputs
// and the fixed BPM/PPQ; there is no hidden state.
type Clock struct {
	BPM float64
	PPQ int
}

// NewClock validates the tempo and tick resolution.
func NewClock(bpm float64, ppq int) (*Clock, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("%w: bpm %v", ErrInvalidConfig, bpm)
	}
	if ppq <= 0 {
		return nil, fmt.Errorf("%w: ppq %d", ErrInvalidConfig, ppq)
	}
	return &Clock{BPM: bpm, PPQ: ppq}, nil
}

// BeatSeconds returns the length of one beat (quarter note) in seconds.
func (c *Clock) BeatSeconds() float64 {
	return 60.0 / c.BPM
}

func (c *Clock) SecondsToBeats(s float64) float64 {
	return s / c.BeatSeconds()
}

func (c *Clock) BeatsToSeconds(b float64) float64 {
	return b * c.BeatSeconds()
}

// SecondsToTicks quantizes to the tick grid, rounding half away from zero.
func (c *Clock) SecondsToTicks(s float64) int64 {
	return int64(math.Round(c.SecondsToBeats(s) * float64(c.PPQ)))
}

func (c *Clock) TicksToSeconds(t int64) float64 {
	return c.BeatsToSeconds(float64(t) / float64(c.PPQ))
}

// Viewport maps the piano-roll canvas onto time and pitch. X grows rightward
// in time, Y grows downward from TopPitch.
type Viewport struct {
	BeatWidth float64 // pixels per beat
	RowHeight float64 // pixels per semitone row
	TopPitch  int     // pitch of the topmost row
}

// NewViewport validates the pixel scales.
func NewViewport(beatWidth, rowHeight float64, topPitch int) (Viewport, error) {
	if beatWidth <= 0 || rowHeight <= 0 {
		return Viewport{}, fmt.Errorf("%w: beat width %v, row height %v", ErrInvalidConfig, beatWidth, rowHeight)
	}
	return Viewport{BeatWidth: beatWidth, RowHeight: rowHeight, TopPitch: clampPitch(topPitch)}, nil
}

// PixelXToSeconds converts a canvas X coordinate to seconds, clamped to >= 0.
func (c *Clock) PixelXToSeconds(v Viewport, x float64) float64 {
	s := (x / v.BeatWidth) * c.BeatSeconds()
	if s < 0 {
		return 0
	}
	return s
}

// SecondsToPixelX is the inverse of PixelXToSeconds, clamped to >= 0.
func (c *Clock) SecondsToPixelX(v Viewport, s float64) float64 {
	x := c.SecondsToBeats(s) * v.BeatWidth
	if x < 0 {
		return 0
	}
	return x
}

// PixelYToPitch converts a canvas Y coordinate to a pitch, clamped to [0,127].
func (v Viewport) PixelYToPitch(y float64) int {
	return clampPitch(v.TopPitch - int(math.Floor(y/v.RowHeight)))
}

// PitchToPixelY returns the top edge of the row for the given pitch.
func (v Viewport) PitchToPixelY(pitch int) float64 {
	return float64(v.TopPitch-clampPitch(pitch)) * v.RowHeight
}

func clampPitch(p int) int {
	if p < MinPitch {
		return MinPitch
	}
	if p > MaxPitch {
		return MaxPitch
	}
	return p
}
