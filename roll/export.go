package roll

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-pianoroll/timing"
)

// Cluster is a group of notes that start together. Starts are truncated to
// whole milliseconds before grouping, which absorbs float noise from
// dragging; truncation (not round-to-nearest) keeps 1.0002s and 1.0007s in
// the same bucket. Every note in a cluster releases at the same time: the
// cluster duration is the maximum duration among its members.
type Cluster struct {
	Start    float64 // millisecond-truncated start, seconds
	Tick     int64   // Start quantized to the clock's tick grid
	Duration float64 // max member duration, seconds
	Notes    []Note
}

// msBucket truncates seconds to millisecond precision.
func msBucket(s float64) float64 {
	return math.Floor(s*1000) / 1000
}

// Clusters projects the time-sorted note view into ordered simultaneous
// clusters. Pure and read-only; this is the single grouping logic shared by
// playback scheduling and file export so the two cannot diverge.
func Clusters(notes []Note, clk *timing.Clock) []Cluster {
	sorted := make([]Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var out []Cluster
	for _, n := range sorted {
		start := msBucket(n.Start)
		if len(out) > 0 && out[len(out)-1].Start == start {
			c := &out[len(out)-1]
			c.Notes = append(c.Notes, n)
			if n.Duration > c.Duration {
				c.Duration = n.Duration
			}
			continue
		}
		out = append(out, Cluster{
			Start:    start,
			Tick:     clk.SecondsToTicks(start),
			Duration: n.Duration,
			Notes:    []Note{n},
		})
	}
	return out
}

// velocityByte converts a [0,1] velocity to the MIDI 0-127 range.
func velocityByte(v float64) uint8 {
	b := math.Round(clampVelocity(v) * 127)
	return uint8(b)
}

// WriteSMF serializes the clustered view as a single-track standard MIDI
// file at the clock's tempo and tick resolution.
func WriteSMF(w io.Writer, clusters []Cluster, clk *timing.Clock) error {
	type event struct {
		tick int64
		off  bool
		msg  midi.Message
	}

	var events []event
	for _, c := range clusters {
		offTick := c.Tick + clk.SecondsToTicks(c.Duration)
		if offTick <= c.Tick {
			offTick = c.Tick + 1
		}
		for _, n := range c.Notes {
			events = append(events, event{
				tick: c.Tick,
				msg:  midi.NoteOn(0, uint8(clampPitch(n.Pitch)), velocityByte(n.Velocity)),
			})
			events = append(events, event{
				tick: offTick,
				off:  true,
				msg:  midi.NoteOff(0, uint8(clampPitch(n.Pitch))),
			})
		}
	}

	// Note-offs first at equal ticks so retriggered pitches are released
	// before they sound again.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(clk.PPQ)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(clk.BPM))
	var last int64
	for _, e := range events {
		tr.Add(uint32(e.tick-last), e.msg)
		last = e.tick
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("adding track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing smf: %w", err)
	}
	return nil
}
