package roll

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/timing"
)

func exportClock(t *testing.T) *timing.Clock {
	t.Helper()
	clk, err := timing.NewClock(120, timing.PPQ)
	require.NoError(t, err)
	return clk
}

func TestClustersGroupWithinOneMillisecond(t *testing.T) {
	clk := exportClock(t)
	notes := []Note{
		{ID: "a", Pitch: 60, Start: 0.0, Duration: 0.5, Velocity: 0.8},
		{ID: "b", Pitch: 64, Start: 0.0005, Duration: 0.5, Velocity: 0.8},
		{ID: "c", Pitch: 67, Start: 2.0, Duration: 0.25, Velocity: 0.8},
	}

	cs := Clusters(notes, clk)
	require.Len(t, cs, 2)
	assert.Len(t, cs[0].Notes, 2)
	assert.Len(t, cs[1].Notes, 1)
	assert.Equal(t, 0.0, cs[0].Start)
	assert.Equal(t, 2.0, cs[1].Start)
}

func TestClustersTruncateNotRound(t *testing.T) {
	clk := exportClock(t)
	// both land in the 1.000 bucket; rounding to nearest would split them
	notes := []Note{
		{ID: "a", Pitch: 60, Start: 1.0002, Duration: 0.5, Velocity: 0.8},
		{ID: "b", Pitch: 64, Start: 1.0007, Duration: 0.5, Velocity: 0.8},
	}

	cs := Clusters(notes, clk)
	require.Len(t, cs, 1)
	assert.Equal(t, 1.0, cs[0].Start)
	assert.Len(t, cs[0].Notes, 2)
}

func TestClusterDurationIsMax(t *testing.T) {
	clk := exportClock(t)
	notes := []Note{
		{ID: "a", Pitch: 60, Start: 0, Duration: 0.25, Velocity: 0.8},
		{ID: "b", Pitch: 64, Start: 0, Duration: 1.5, Velocity: 0.8},
		{ID: "c", Pitch: 67, Start: 0, Duration: 0.5, Velocity: 0.8},
	}

	cs := Clusters(notes, clk)
	require.Len(t, cs, 1)
	assert.Equal(t, 1.5, cs[0].Duration)
}

func TestClustersSortUnorderedInput(t *testing.T) {
	clk := exportClock(t)
	notes := []Note{
		{ID: "late", Pitch: 72, Start: 3, Duration: 0.5, Velocity: 0.8},
		{ID: "early", Pitch: 60, Start: 0.5, Duration: 0.5, Velocity: 0.8},
		{ID: "mid", Pitch: 64, Start: 1.5, Duration: 0.5, Velocity: 0.8},
	}

	cs := Clusters(notes, clk)
	require.Len(t, cs, 3)
	assert.Equal(t, "early", cs[0].Notes[0].ID)
	assert.Equal(t, "mid", cs[1].Notes[0].ID)
	assert.Equal(t, "late", cs[2].Notes[0].ID)
}

func TestClusterTickQuantization(t *testing.T) {
	clk := exportClock(t)
	// at 120 BPM one second is two beats: 960 ticks at 480 PPQ
	notes := []Note{{ID: "a", Pitch: 60, Start: 1.0, Duration: 0.5, Velocity: 0.8}}

	cs := Clusters(notes, clk)
	require.Len(t, cs, 1)
	assert.Equal(t, int64(960), cs[0].Tick)
}

func TestClustersEmptyInput(t *testing.T) {
	clk := exportClock(t)
	assert.Empty(t, Clusters(nil, clk))
}

func TestVelocityByte(t *testing.T) {
	assert.Equal(t, uint8(0), velocityByte(0))
	assert.Equal(t, uint8(127), velocityByte(1))
	assert.Equal(t, uint8(127), velocityByte(3.5))
	assert.Equal(t, uint8(102), velocityByte(0.8))
}

func TestWriteSMFProducesAFile(t *testing.T) {
	clk := exportClock(t)
	notes := []Note{
		{ID: "a", Pitch: 60, Start: 0, Duration: 0.5, Velocity: 0.8},
		{ID: "b", Pitch: 64, Start: 0, Duration: 0.5, Velocity: 0.8},
		{ID: "c", Pitch: 60, Start: 0.5, Duration: 0.5, Velocity: 0.8},
	}

	var buf bytes.Buffer
	err := WriteSMF(&buf, Clusters(notes, clk), clk)
	require.NoError(t, err)

	data := buf.Bytes()
	require.True(t, len(data) > 14)
	assert.Equal(t, []byte("MThd"), data[:4])
	assert.True(t, bytes.Contains(data, []byte("MTrk")))
}

func TestWriteSMFZeroLengthClusterStillSounds(t *testing.T) {
	clk := exportClock(t)
	// duration under one tick must not collapse on and off onto the same tick
	notes := []Note{{ID: "a", Pitch: 60, Start: 0, Duration: MinDuration, Velocity: 0.8}}
	cs := Clusters(notes, clk)

	var buf bytes.Buffer
	require.NoError(t, WriteSMF(&buf, cs, clk))
	assert.NotEmpty(t, buf.Bytes())
}
