package roll

import "math"

// ScaleType names a scale/mode interval pattern.
type ScaleType string

const (
	ScaleChromatic       ScaleType = "chromatic"
	ScaleMajor           ScaleType = "major"
	ScaleMinor           ScaleType = "minor"
	ScaleHarmonicMinor   ScaleType = "harmonic-minor"
	ScaleDorian          ScaleType = "dorian"
	ScalePhrygian        ScaleType = "phrygian"
	ScaleLydian          ScaleType = "lydian"
	ScaleMixolydian      ScaleType = "mixolydian"
	ScalePentatonicMajor ScaleType = "pentatonic-major"
	ScalePentatonicMinor ScaleType = "pentatonic-minor"
	ScaleBlues           ScaleType = "blues"
)

// ScaleTypes lists the supported scales in cycle order for the UI.
var ScaleTypes = []ScaleType{
	ScaleChromatic,
	ScaleMajor,
	ScaleMinor,
	ScaleHarmonicMinor,
	ScaleDorian,
	ScalePhrygian,
	ScaleLydian,
	ScaleMixolydian,
	ScalePentatonicMajor,
	ScalePentatonicMinor,
	ScaleBlues,
}

// scaleIntervals maps each scale to its semitone offsets from the root.
var scaleIntervals = map[ScaleType][]int{
	ScaleChromatic:       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	ScaleMajor:           {0, 2, 4, 5, 7, 9, 11},
	ScaleMinor:           {0, 2, 3, 5, 7, 8, 10},
	ScaleHarmonicMinor:   {0, 2, 3, 5, 7, 8, 11},
	ScaleDorian:          {0, 2, 3, 5, 7, 9, 10},
	ScalePhrygian:        {0, 1, 3, 5, 7, 8, 10},
	ScaleLydian:          {0, 2, 4, 6, 7, 9, 11},
	ScaleMixolydian:      {0, 2, 4, 5, 7, 9, 10},
	ScalePentatonicMajor: {0, 2, 4, 7, 9},
	ScalePentatonicMinor: {0, 3, 5, 7, 10},
	ScaleBlues:           {0, 3, 5, 6, 7, 10},
}

// NoteNames are the chromatic root names, index = pitch class.
var NoteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Key is a (root, scale) pair parameterizing pitch quantization. Root is a
// pitch class 0-11 (0 = C). The zero value is C chromatic, which snaps
// nothing.
type Key struct {
	Root  int       `json:"rootNote"`
	Scale ScaleType `json:"scaleType"`
}

// PitchClasses returns the allowed pitch classes for the key, reduced mod 12.
func (k Key) PitchClasses() map[int]bool {
	intervals, ok := scaleIntervals[k.Scale]
	if !ok {
		intervals = scaleIntervals[ScaleChromatic]
	}
	out := make(map[int]bool, len(intervals))
	for _, iv := range intervals {
		out[((k.Root+iv)%12+12)%12] = true
	}
	return out
}

// Contains reports whether the pitch's class is in the key.
func (k Key) Contains(pitch int) bool {
	return k.PitchClasses()[((pitch%12)+12)%12]
}

// SnapPitch maps a pitch to the nearest allowed pitch in the key, ties broken
// toward the lower pitch. The result is clamped to [0,127]. Idempotent.
func (k Key) SnapPitch(pitch int) int {
	allowed := k.PitchClasses()
	if len(allowed) == 0 {
		return clampPitch(pitch)
	}
	// Search outward; the downward candidate is checked first so that an
	// equidistant pair resolves to the lower pitch.
	for d := 0; d < 12; d++ {
		if lo := pitch - d; allowed[((lo%12)+12)%12] {
			return clampPitch(lo)
		}
		if hi := pitch + d; allowed[((hi%12)+12)%12] {
			return clampPitch(hi)
		}
	}
	return clampPitch(pitch)
}

// SnapTime quantizes t to the nearest multiple of grid seconds, rounding half
// away from zero. A non-positive grid leaves t unchanged. Idempotent.
func SnapTime(t, grid float64) float64 {
	if grid <= 0 {
		return t
	}
	return math.Round(t/grid) * grid
}
