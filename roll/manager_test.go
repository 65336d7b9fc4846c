package roll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/timing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	clk, err := timing.NewClock(120, timing.PPQ)
	require.NoError(t, err)
	view, err := timing.NewViewport(50, 16, 83)
	require.NoError(t, err)
	return NewManager(clk, view)
}

func TestTickAdvancesWhilePlaying(t *testing.T) {
	m := newTestManager(t)
	m.Store.Add(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.8})
	t0 := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	m.Transport.Play(t0)
	m.Tick(t0.Add(400 * time.Millisecond))

	assert.True(t, m.Transport.Playing())
	assert.InDelta(t, 0.4, m.Transport.Pos(), 1e-9)
}

func TestTickAutoStopsPastSequenceEnd(t *testing.T) {
	m := newTestManager(t)
	m.Store.Add(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.8})
	t0 := time.Now()

	m.Transport.Play(t0)
	m.Tick(t0.Add(2 * time.Second)) // past the last release at 1.0s

	assert.False(t, m.Transport.Playing())
	assert.Equal(t, 0.0, m.Transport.Pos())
}

func TestTickWhileStoppedIsNoOp(t *testing.T) {
	m := newTestManager(t)
	m.Tick(time.Now())
	assert.Equal(t, 0.0, m.Transport.Pos())
	assert.False(t, m.Transport.Playing())
}

// Ticks and store mutations interleave on the caller's goroutine; neither
// side runs anything concurrent against the store.
func TestTickInterleavesWithEdits(t *testing.T) {
	m := newTestManager(t)
	t0 := time.Now()

	n := m.Store.Add(Note{Pitch: 60, Start: 0, Duration: 4, Velocity: 0.8})
	m.Transport.Play(t0)
	for i := 1; i <= 10; i++ {
		m.Tick(t0.Add(time.Duration(i) * 100 * time.Millisecond))
		start := float64(i) * 0.1
		m.Store.Update(n.ID, Patch{Start: &start})
	}

	assert.True(t, m.Transport.Playing())
	assert.InDelta(t, 1.0, m.Transport.Pos(), 1e-9)

	// the moved note pushed the sequence end out past the playhead
	got, _ := m.Store.Get(n.ID)
	assert.InDelta(t, 5.0, got.End(), 1e-9)
}

func TestPlayToggle(t *testing.T) {
	m := newTestManager(t)
	m.Store.Add(Note{Pitch: 60, Start: 0, Duration: 0.5, Velocity: 0.8})

	m.PlayToggle()
	assert.True(t, m.Transport.Playing())

	m.PlayToggle()
	assert.False(t, m.Transport.Playing())
	assert.Equal(t, 0.0, m.Transport.Pos())
}

func TestSetTempoClamps(t *testing.T) {
	m := newTestManager(t)

	m.SetTempo(5)
	assert.Equal(t, 20.0, m.Editor.Clock().BPM)
	m.SetTempo(1000)
	assert.Equal(t, 300.0, m.Editor.Clock().BPM)
	m.SetTempo(96)
	assert.Equal(t, 96.0, m.Editor.Clock().BPM)
}

func TestUpdateChanNeverBlocksMutations(t *testing.T) {
	m := newTestManager(t)

	// nobody draining the channel; a burst of edits must still go through
	for i := 0; i < 20; i++ {
		m.Store.Add(Note{Pitch: 60 + i%12, Start: float64(i), Duration: 0.5, Velocity: 0.8})
	}
	assert.Equal(t, 20, m.Store.Len())

	select {
	case <-m.UpdateChan:
	default:
		t.Fatal("expected a pending update signal")
	}
}
