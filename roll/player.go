package roll

import (
	"fmt"
	"sort"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-pianoroll/debug"
	"go-pianoroll/timing"
)

// Sender delivers a raw MIDI message. Satisfied by gomidi's SendTo result;
// tests substitute their own.
type Sender func(gomidi.Message) error

// OpenPort opens a MIDI output by name, or the first available port when the
// name is empty.
func OpenPort(name string) (Sender, error) {
	ports := gomidi.GetOutPorts()
	if len(ports) == 0 {
		return nil, fmt.Errorf("no MIDI output ports")
	}
	for _, port := range ports {
		if name == "" || port.String() == name {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return nil, fmt.Errorf("opening port %s: %w", port.String(), err)
			}
			return Sender(send), nil
		}
	}
	return nil, fmt.Errorf("MIDI port %q not found", name)
}

// OutPortNames lists the available MIDI output port names.
func OutPortNames() []string {
	var names []string
	for _, port := range gomidi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}

// Player schedules the clustered note view against the transport and emits
// NoteOn/NoteOff messages. It performs no synthesis; whatever sits behind
// the Sender makes the sound. Player and playhead both read the same
// Transport, so what sounds and what is drawn cannot drift apart.
type Player struct {
	clock     *timing.Clock
	transport *Transport

	mu       sync.Mutex
	send     Sender
	stopChan chan struct{}
	running  bool
	sounding map[int]bool // pitches with a pending note-off
}

func NewPlayer(clock *timing.Clock, transport *Transport) *Player {
	return &Player{
		clock:     clock,
		transport: transport,
		sounding:  make(map[int]bool),
	}
}

// SetSender swaps the MIDI output. Safe to call while stopped.
func (p *Player) SetSender(send Sender) {
	p.mu.Lock()
	p.send = send
	p.mu.Unlock()
}

type playEvent struct {
	at    float64 // seconds on the sequence timeline
	off   bool
	pitch int
	vel   uint8
}

// Play starts the transport at zero and schedules the given clusters.
// Calling Play while running restarts from the top.
func (p *Player) Play(clusters []Cluster, now time.Time) {
	p.Stop()

	var events []playEvent
	for _, c := range clusters {
		for _, n := range c.Notes {
			events = append(events, playEvent{at: c.Start, pitch: n.Pitch, vel: velocityByte(n.Velocity)})
		}
		events = append(events, playEvent{at: c.Start + c.Duration, off: true, pitch: c.Notes[0].Pitch})
		for _, n := range c.Notes[1:] {
			events = append(events, playEvent{at: c.Start + c.Duration, off: true, pitch: n.Pitch})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].off && !events[j].off
	})

	p.mu.Lock()
	p.stopChan = make(chan struct{})
	p.running = true
	p.mu.Unlock()

	p.transport.Stop()
	p.transport.Play(now)

	go p.dispatch(events, now)
}

// dispatch walks the event list in timeline order, sleeping until each
// event's wall time. Wall time is derived from the same 1:1 transport
// mapping the playhead uses.
func (p *Player) dispatch(events []playEvent, start time.Time) {
	p.mu.Lock()
	stop := p.stopChan
	p.mu.Unlock()

	for _, ev := range events {
		wait := time.Until(start.Add(time.Duration(ev.at * float64(time.Second))))
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-stop:
				timer.Stop()
				return
			case <-timer.C:
			}
		} else {
			select {
			case <-stop:
				return
			default:
			}
		}
		p.emit(ev)
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}

func (p *Player) emit(ev playEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.send == nil {
		return
	}
	pitch := uint8(clampPitch(ev.pitch))
	if ev.off {
		p.send(gomidi.NoteOff(0, pitch))
		delete(p.sounding, ev.pitch)
	} else {
		p.send(gomidi.NoteOn(0, pitch, ev.vel))
		p.sounding[ev.pitch] = true
	}
	debug.LogEvery(32, "player", "emit at=%.3f off=%v pitch=%d", ev.at, ev.off, ev.pitch)
}

// Stop halts scheduling synchronously, silences anything still sounding,
// and resets the transport to zero.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.stopChan != nil {
		close(p.stopChan)
		p.stopChan = nil
	}
	p.running = false
	if p.send != nil {
		for pitch := range p.sounding {
			p.send(gomidi.NoteOff(0, uint8(clampPitch(pitch))))
		}
	}
	p.sounding = make(map[int]bool)
	p.mu.Unlock()

	p.transport.Stop()
}

// Running reports whether the dispatch loop still has events pending.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Preview echoes a single note immediately: on now, off shortly after.
// Used when a note is created or nudged so edits are audible.
func (p *Player) Preview(pitch int, velocity float64) {
	p.mu.Lock()
	send := p.send
	p.mu.Unlock()
	if send == nil {
		return
	}
	key := uint8(clampPitch(pitch))
	send(gomidi.NoteOn(0, key, velocityByte(velocity)))
	go func() {
		time.Sleep(120 * time.Millisecond)
		send(gomidi.NoteOff(0, key))
	}()
}
