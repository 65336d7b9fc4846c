package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClockRejectsBadConfig(t *testing.T) {
	_, err := NewClock(0, PPQ)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClock(-120, PPQ)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClock(120, 0)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewViewportRejectsBadConfig(t *testing.T) {
	_, err := NewViewport(0, 16, 83)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewViewport(50, -1, 83)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBeatConversions(t *testing.T) {
	c, err := NewClock(120, PPQ)
	require.NoError(t, err)

	assert.Equal(t, 0.5, c.BeatSeconds())
	assert.Equal(t, 2.0, c.SecondsToBeats(1.0))
	assert.Equal(t, 1.0, c.BeatsToSeconds(2.0))
}

func TestTickRoundTrip(t *testing.T) {
	c, err := NewClock(120, PPQ)
	require.NoError(t, err)

	oneTick := c.TicksToSeconds(1)
	for _, s := range []float64{0, 0.001, 0.1337, 1.0, 2.5, 17.77, 300.25} {
		back := c.TicksToSeconds(c.SecondsToTicks(s))
		assert.InDelta(t, s, back, oneTick, "round trip for %v", s)
	}

	// tick -> seconds -> tick is exact
	for _, tk := range []int64{0, 1, 479, 480, 961, 123456} {
		assert.Equal(t, tk, c.SecondsToTicks(c.TicksToSeconds(tk)))
	}
}

func TestSecondsToTicksRoundsHalfAwayFromZero(t *testing.T) {
	c, err := NewClock(120, PPQ)
	require.NoError(t, err)

	// half a tick above zero rounds up
	half := c.TicksToSeconds(1) / 2
	assert.Equal(t, int64(1), c.SecondsToTicks(half))
}

func TestPixelXConversions(t *testing.T) {
	c, err := NewClock(120, PPQ)
	require.NoError(t, err)
	v, err := NewViewport(50, 16, 83)
	require.NoError(t, err)

	// (120 / 50) beats * 0.5 s/beat
	assert.InDelta(t, 1.2, c.PixelXToSeconds(v, 120), 1e-9)
	assert.InDelta(t, 120, c.SecondsToPixelX(v, 1.2), 1e-9)

	// negative coordinates clamp to the origin
	assert.Equal(t, 0.0, c.PixelXToSeconds(v, -30))
	assert.Equal(t, 0.0, c.SecondsToPixelX(v, -1))
}

func TestPixelYConversions(t *testing.T) {
	v, err := NewViewport(50, 16, 83)
	require.NoError(t, err)

	assert.Equal(t, 71, v.PixelYToPitch(200)) // 83 - floor(200/16)
	assert.Equal(t, 83, v.PixelYToPitch(0))
	assert.Equal(t, float64(0), v.PitchToPixelY(83))
	assert.Equal(t, float64(16*23), v.PitchToPixelY(60))

	// clamped at both ends of the pitch range
	assert.Equal(t, 0, v.PixelYToPitch(1e6))
	assert.Equal(t, 127, v.PixelYToPitch(-1e6))
	assert.Equal(t, v.PitchToPixelY(127), v.PitchToPixelY(400))
}
