package roll

import "time"

// Transport maps a monotonically increasing external time source onto the
// sequence timeline. It advances 1:1 with wall clock while playing, freezes
// while paused, and resets to zero on stop. It never triggers sound itself;
// the player and the playhead renderer both read Pos from it so they stay in
// agreement.
type Transport struct {
	playing bool
	pos     float64 // seconds from sequence origin
	last    time.Time
}

func NewTransport() *Transport {
	return &Transport{}
}

// Play starts advancing from the current position.
func (t *Transport) Play(now time.Time) {
	if t.playing {
		return
	}
	t.playing = true
	t.last = now
}

// Pause freezes the position where it is.
func (t *Transport) Pause(now time.Time) {
	if !t.playing {
		return
	}
	t.Advance(now)
	t.playing = false
}

// Stop halts playback and resets the position to zero.
func (t *Transport) Stop() {
	t.playing = false
	t.pos = 0
}

// Seek jumps to the given position, clamped to >= 0.
func (t *Transport) Seek(pos float64) {
	if pos < 0 {
		pos = 0
	}
	t.pos = pos
}

// Advance consumes the elapsed wall-clock delta since the last call and
// returns the new position. Called once per frame; a no-op while paused.
// The position never decreases while playing, even if the time source
// misbehaves.
func (t *Transport) Advance(now time.Time) float64 {
	if !t.playing {
		return t.pos
	}
	if d := now.Sub(t.last); d > 0 {
		t.pos += d.Seconds()
	}
	t.last = now
	return t.pos
}

// Pos returns the current position in seconds.
func (t *Transport) Pos() float64 {
	return t.pos
}

// Playing reports whether the transport is advancing.
func (t *Transport) Playing() bool {
	return t.playing
}
