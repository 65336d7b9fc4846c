package roll

import (
	"time"

	"github.com/bep/debounce"

	"go-pianoroll/debug"
	"go-pianoroll/timing"
)

// FramePeriod is how often the UI drives Tick while the program runs.
const FramePeriod = time.Second / 30

// autosaveDelay is how long the store must be quiet before an autosave fires.
const autosaveDelay = 2 * time.Second

// Manager wires the store, editor, transport, and player together. The
// store and transport have no locking; every access to them goes through
// the UI event goroutine, which calls Tick once per frame. The only
// goroutine the manager touches off-thread is the player's dispatch loop,
// which is internally synchronized.
type Manager struct {
	Store     *Store
	Editor    *Editor
	Transport *Transport
	Player    *Player

	ProjectName string

	// UpdateChan signals the TUI that something changed and a redraw is due.
	UpdateChan chan struct{}

	autosave func(func())
}

func NewManager(clock *timing.Clock, view timing.Viewport) *Manager {
	store := NewStore()
	transport := NewTransport()
	m := &Manager{
		Store:      store,
		Editor:     NewEditor(store, clock, view),
		Transport:  transport,
		Player:     NewPlayer(clock, transport),
		UpdateChan: make(chan struct{}, 1),
		autosave:   debounce.New(autosaveDelay),
	}
	store.OnChange(m.onStoreChange)
	return m
}

// Shutdown stops playback. Call once when the program exits.
func (m *Manager) Shutdown() {
	m.Player.Stop()
}

// Tick is the cooperative per-frame callback, driven from the UI event
// goroutine so it shares the store's single-thread confinement. It advances
// the transport and auto-stops playback once the playhead passes the last
// release.
func (m *Manager) Tick(now time.Time) {
	if !m.Transport.Playing() {
		return
	}
	pos := m.Transport.Advance(now)
	if !m.Player.Running() && pos > m.sequenceEnd() {
		m.Player.Stop()
	}
}

func (m *Manager) sequenceEnd() float64 {
	var end float64
	for _, n := range m.Store.List() {
		if n.End() > end {
			end = n.End()
		}
	}
	return end
}

// PlayToggle starts playback from the top, or stops it if running.
func (m *Manager) PlayToggle() {
	if m.Transport.Playing() {
		m.Player.Stop()
	} else {
		clusters := Clusters(m.Store.SortedByStart(), m.Editor.Clock())
		m.Player.Play(clusters, time.Now())
	}
	m.notifyUpdate()
}

// SetTempo changes the BPM in place, bounded to a sane range. Existing note
// times are seconds and are unaffected; only the grid and export change.
func (m *Manager) SetTempo(bpm float64) {
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 300 {
		bpm = 300
	}
	m.Editor.Clock().BPM = bpm
	m.notifyUpdate()
}

// onStoreChange runs after every store mutation: redraw now, autosave once
// the edits settle. The snapshot is captured here, on the mutating
// goroutine; the debounce timer goroutine only does the file write.
func (m *Manager) onStoreChange() {
	m.notifyUpdate()
	if m.ProjectName == "" {
		return
	}
	name := m.ProjectName
	snap := TakeSnapshot(m.Store, m.Editor.Key, m.Editor.Clock().BPM)
	m.autosave(func() {
		if err := SaveProject(name, snap); err != nil {
			debug.Log("save", "autosave failed: %v", err)
		}
	})
}

// LoadIntoStore applies a loaded snapshot: notes, key, and tempo.
func (m *Manager) LoadIntoStore(snap Snapshot) {
	m.Player.Stop()
	m.Editor.Key = Key{Root: snap.Root, Scale: snap.Scale}
	if snap.Tempo > 0 {
		m.Editor.Clock().BPM = snap.Tempo
	}
	snap.Apply(m.Store)
}

func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
