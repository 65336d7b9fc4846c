package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupClampsAndInterpolates(t *testing.T) {
	p := Default()

	assert.Equal(t, p.Colors[0], p.Lookup(-1))
	assert.Equal(t, p.Colors[0], p.Lookup(0))
	assert.Equal(t, p.Colors[len(p.Colors)-1], p.Lookup(1))
	assert.Equal(t, p.Colors[len(p.Colors)-1], p.Lookup(2))

	// midway between two adjacent stops
	mid := p.Lookup(0.5 / float64(len(p.Colors)-1))
	assert.Equal(t, lerp(p.Colors[0][0], p.Colors[1][0], 0.5), mid[0])
}

func TestNoteColorDefaultVelocityMatchesNoteRole(t *testing.T) {
	th := New(Default())
	assert.Equal(t, th.Color(RoleNote), th.NoteColor(0.8))

	// louder is brighter on the default ramp (monotone luminance)
	quiet := Default().Lookup(RoleNote + 0.3*(0.2-0.8))
	loud := Default().Lookup(RoleNote + 0.3*(1.0-0.8))
	assert.Less(t, int(quiet[0]), int(loud[0]))
}
