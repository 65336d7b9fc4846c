package roll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddClampsFields(t *testing.T) {
	s := NewStore()

	n := s.Add(Note{Pitch: 200, Start: -3, Duration: 0, Velocity: 1.5})
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, 127, n.Pitch)
	assert.Equal(t, 0.0, n.Start)
	assert.Equal(t, MinDuration, n.Duration)
	assert.Equal(t, 1.0, n.Velocity)

	n = s.Add(Note{Pitch: -5, Start: 1, Duration: 0.5, Velocity: -0.2})
	assert.Equal(t, 0, n.Pitch)
	assert.Equal(t, 0.0, n.Velocity)
}

func TestAddKeepsGivenID(t *testing.T) {
	s := NewStore()
	n := s.Add(Note{ID: "abc", Pitch: 60, Start: 0, Duration: 1, Velocity: 0.5})
	assert.Equal(t, "abc", n.ID)
}

func TestUpdateAppliesOnlyGivenFields(t *testing.T) {
	s := NewStore()
	n := s.Add(Note{Pitch: 60, Start: 1, Duration: 0.5, Velocity: 0.5})

	start := 2.0
	s.Update(n.ID, Patch{Start: &start})

	got, ok := s.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, 2.0, got.Start)
	assert.Equal(t, 60, got.Pitch)
	assert.Equal(t, 0.5, got.Duration)
	assert.Equal(t, 0.5, got.Velocity)
}

func TestUpdateReclamps(t *testing.T) {
	s := NewStore()
	n := s.Add(Note{Pitch: 60, Start: 1, Duration: 0.5, Velocity: 0.5})

	pitch := 500
	dur := -2.0
	s.Update(n.ID, Patch{Pitch: &pitch, Duration: &dur})

	got, _ := s.Get(n.ID)
	assert.Equal(t, 127, got.Pitch)
	assert.Equal(t, MinDuration, got.Duration)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s := NewStore()
	s.Add(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.5})

	start := 9.0
	s.Update("nope", Patch{Start: &start})
	assert.Equal(t, 1, s.Len())
}

func TestRemove(t *testing.T) {
	s := NewStore()
	n := s.Add(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.5})

	s.Remove("nope") // no-op
	assert.Equal(t, 1, s.Len())

	s.Remove(n.ID)
	assert.Equal(t, 0, s.Len())
}

func TestRemoveSelectedClearsSelection(t *testing.T) {
	s := NewStore()
	n := s.Add(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.5})
	s.Select(n.ID)
	require.Equal(t, n.ID, s.Selected())

	s.Remove(n.ID)
	assert.Equal(t, "", s.Selected())
}

func TestSelectUnknownIDIsIgnored(t *testing.T) {
	s := NewStore()
	n := s.Add(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.5})
	s.Select(n.ID)

	s.Select("nope")
	assert.Equal(t, n.ID, s.Selected())

	s.Select("")
	assert.Equal(t, "", s.Selected())
}

func TestClear(t *testing.T) {
	s := NewStore()
	n := s.Add(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.5})
	s.Select(n.ID)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.Selected())
}

func TestSortedByStartKeepsInsertionOrderOnTies(t *testing.T) {
	s := NewStore()
	a := s.Add(Note{Pitch: 60, Start: 2, Duration: 1, Velocity: 0.5})
	b := s.Add(Note{Pitch: 64, Start: 1, Duration: 1, Velocity: 0.5})
	c := s.Add(Note{Pitch: 67, Start: 1, Duration: 1, Velocity: 0.5})

	sorted := s.SortedByStart()
	require.Len(t, sorted, 3)
	assert.Equal(t, b.ID, sorted[0].ID)
	assert.Equal(t, c.ID, sorted[1].ID)
	assert.Equal(t, a.ID, sorted[2].ID)

	// insertion order untouched
	assert.Equal(t, a.ID, s.List()[0].ID)
}

func TestObserversNotifiedOnEveryMutation(t *testing.T) {
	s := NewStore()
	var count int
	s.OnChange(func() { count++ })

	n := s.Add(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.5})
	start := 1.0
	s.Update(n.ID, Patch{Start: &start})
	s.Select(n.ID)
	s.Remove(n.ID)
	s.Clear()

	assert.Equal(t, 5, count)
}

func TestImportAssignsIDsAndClamps(t *testing.T) {
	s := NewStore()
	added := s.Import([]GeneratedNote{
		{Pitch: 60, Start: 0, Duration: 0.5, Velocity: 0.9},
		{Pitch: 140, Start: -1, Duration: 0, Velocity: 2},
	})

	require.Len(t, added, 2)
	assert.NotEmpty(t, added[0].ID)
	assert.NotEmpty(t, added[1].ID)
	assert.NotEqual(t, added[0].ID, added[1].ID)

	assert.Equal(t, 127, added[1].Pitch)
	assert.Equal(t, 0.0, added[1].Start)
	assert.Equal(t, MinDuration, added[1].Duration)
	assert.Equal(t, 1.0, added[1].Velocity)
	assert.Equal(t, 2, s.Len())
}
