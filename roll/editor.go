package roll

import (
	"math"

	"go-pianoroll/debug"
	"go-pianoroll/timing"
)

const (
	// DefaultEdgeBand is the width of the resize grab zone at each note
	// edge, in canvas units.
	DefaultEdgeBand = 6.0
	// DefaultDeadzone is how far the pointer must travel before a press
	// becomes a drag; below it, pointer-up is a pure selection click.
	DefaultDeadzone = 3.0
	// FineGridDiv is how much the precision modifier tightens the grid for
	// a single gesture.
	FineGridDiv = 4
	// DefaultVelocity is the velocity of notes created by double-click.
	DefaultVelocity = 0.8
)

type dragKind int

const (
	dragNone dragKind = iota
	dragMove
	dragResizeLeft
	dragResizeRight
)

// Mods are transient per-gesture modifier overrides. They never change the
// editor's persistent snap settings.
type Mods struct {
	Fine      bool // precision: divide the grid by FineGridDiv for this gesture
	Chromatic bool // suppress scale snap for this gesture
}

// Editor is the pointer-driven interaction core. It owns the ephemeral
// gesture state (never serialized) and mutates the store continuously during
// a drag; snapping is applied once, at commit. Malformed pointer coordinates
// are clamped to the canvas, never rejected.
type Editor struct {
	store *Store
	clock *timing.Clock
	view  timing.Viewport

	GridSnap  bool
	ScaleSnap bool
	Key       Key
	GridBeats float64 // grid division, in beats

	// EdgeBand and Deadzone are in canvas units; a cell-based renderer
	// sets them smaller than a pixel canvas would.
	EdgeBand float64
	Deadzone float64

	canvasW float64
	canvasH float64

	// gesture state, valid between pointer-down and pointer-up/cancel
	kind     dragKind
	active   string // note id grabbed at pointer-down
	dragging bool   // deadzone passed
	downX    float64
	downY    float64
	grabDT   float64 // pointer time minus note start at grab
	grabDP   int     // pointer pitch minus note pitch at grab
	origin   Note    // grabbed note as it was at pointer-down
}

func NewEditor(store *Store, clock *timing.Clock, view timing.Viewport) *Editor {
	return &Editor{
		store:     store,
		clock:     clock,
		view:      view,
		GridSnap:  true,
		ScaleSnap: true,
		Key:       Key{Root: 0, Scale: ScaleMajor},
		GridBeats: 0.25,
		EdgeBand:  DefaultEdgeBand,
		Deadzone:  DefaultDeadzone,
		canvasW:   math.Inf(1),
		canvasH:   math.Inf(1),
	}
}

// SetCanvasSize bounds pointer coordinates. Zero or negative dimensions
// leave the canvas unbounded.
func (e *Editor) SetCanvasSize(w, h float64) {
	e.canvasW = w
	e.canvasH = h
	if w <= 0 {
		e.canvasW = math.Inf(1)
	}
	if h <= 0 {
		e.canvasH = math.Inf(1)
	}
}

// View returns the viewport the editor maps pointer coordinates through.
func (e *Editor) View() timing.Viewport {
	return e.view
}

// Clock returns the editor's tempo model.
func (e *Editor) Clock() *timing.Clock {
	return e.clock
}

// GridSeconds returns the effective grid step for a gesture, or 0 when grid
// snap is disabled (SnapTime treats 0 as "no snapping").
func (e *Editor) GridSeconds(mods Mods) float64 {
	if !e.GridSnap {
		return 0
	}
	g := e.clock.BeatsToSeconds(e.GridBeats)
	if mods.Fine {
		g /= FineGridDiv
	}
	return g
}

// NoteRect returns the canvas rectangle for a note: x, y of the top-left
// corner plus width and height. Pure; any renderer can call it per frame.
func (e *Editor) NoteRect(n Note) (x, y, w, h float64) {
	x = e.clock.SecondsToPixelX(e.view, n.Start)
	y = e.view.PitchToPixelY(n.Pitch)
	w = e.clock.SecondsToBeats(n.Duration) * e.view.BeatWidth
	h = e.view.RowHeight
	return x, y, w, h
}

// PlayheadX returns the canvas X for a transport position.
func (e *Editor) PlayheadX(pos float64) float64 {
	return e.clock.SecondsToPixelX(e.view, pos)
}

func (e *Editor) clampToCanvas(x, y float64) (float64, float64) {
	x = math.Min(math.Max(x, 0), e.canvasW)
	y = math.Min(math.Max(y, 0), e.canvasH)
	return x, y
}

// hitTest finds the topmost note under the pointer and classifies the grab
// zone. The most recently added note wins ties, so iteration runs in
// insertion order and the last hit sticks.
func (e *Editor) hitTest(x, y float64) (Note, dragKind, bool) {
	var hit Note
	kind := dragNone
	found := false
	for _, n := range e.store.List() {
		nx, ny, nw, nh := e.NoteRect(n)
		if x < nx || x > nx+nw || y < ny || y >= ny+nh {
			continue
		}
		hit = n
		found = true
		switch {
		case nw <= 2*e.EdgeBand:
			// Note too narrow for distinct bands: nearest edge wins.
			if x-nx < nx+nw-x {
				kind = dragResizeLeft
			} else {
				kind = dragResizeRight
			}
		case x >= nx+nw-e.EdgeBand:
			kind = dragResizeRight
		case x <= nx+e.EdgeBand:
			kind = dragResizeLeft
		default:
			kind = dragMove
		}
	}
	return hit, kind, found
}

// PointerDown starts a gesture. On a note it records the grab and selects
// it; on empty canvas it clears the selection.
func (e *Editor) PointerDown(x, y float64) {
	x, y = e.clampToCanvas(x, y)
	e.resetGesture()
	n, kind, ok := e.hitTest(x, y)
	if !ok {
		e.store.Select("")
		return
	}
	e.active = n.ID
	e.kind = kind
	e.origin = n
	e.downX, e.downY = x, y
	e.grabDT = e.clock.PixelXToSeconds(e.view, x) - n.Start
	e.grabDP = e.view.PixelYToPitch(y) - n.Pitch
	e.store.Select(n.ID)
	debug.Log("editor", "grab note=%s kind=%d", n.ID, kind)
}

// PointerMove updates the drag preview. Below the deadzone it does nothing,
// so a motionless press stays a pure selection click.
func (e *Editor) PointerMove(x, y float64) {
	if e.active == "" {
		return
	}
	x, y = e.clampToCanvas(x, y)
	if !e.dragging {
		if math.Hypot(x-e.downX, y-e.downY) < e.Deadzone {
			return
		}
		e.dragging = true
	}
	e.applyDrag(x, y)
}

// applyDrag writes the unsnapped preview position into the store.
func (e *Editor) applyDrag(x, y float64) {
	t := e.clock.PixelXToSeconds(e.view, x)
	switch e.kind {
	case dragMove:
		start := math.Max(t-e.grabDT, 0)
		pitch := clampPitch(e.view.PixelYToPitch(y) - e.grabDP)
		e.store.Update(e.active, Patch{Start: &start, Pitch: &pitch})
	case dragResizeRight:
		dur := math.Max(t-e.origin.Start, MinDuration)
		e.store.Update(e.active, Patch{Duration: &dur})
	case dragResizeLeft:
		// The right edge stays fixed; start may not cross it.
		end := e.origin.End()
		start := math.Max(math.Min(t-e.grabDT, end-MinDuration), 0)
		dur := end - start
		e.store.Update(e.active, Patch{Start: &start, Duration: &dur})
	}
}

// PointerUp commits the gesture, applying grid and scale snapping to the
// final preview position.
func (e *Editor) PointerUp(x, y float64, mods Mods) {
	if e.active == "" {
		return
	}
	if e.dragging {
		x, y = e.clampToCanvas(x, y)
		e.applyDrag(x, y)
		e.commit(mods)
	}
	e.resetGesture()
}

// Cancel ends the gesture on pointer-capture loss. The last valid preview
// state is committed, snapped with no modifiers, rather than discarded.
func (e *Editor) Cancel() {
	if e.active != "" && e.dragging {
		e.commit(Mods{})
	}
	e.resetGesture()
}

// commit snaps the dragged note's preview position per the gesture kind.
func (e *Editor) commit(mods Mods) {
	n, ok := e.store.Get(e.active)
	if !ok {
		return
	}
	grid := e.GridSeconds(mods)
	switch e.kind {
	case dragMove:
		start := math.Max(SnapTime(n.Start, grid), 0)
		pitch := n.Pitch
		if e.ScaleSnap && !mods.Chromatic {
			pitch = e.Key.SnapPitch(pitch)
		}
		e.store.Update(e.active, Patch{Start: &start, Pitch: &pitch})
	case dragResizeRight:
		end := SnapTime(n.End(), grid)
		dur := math.Max(end-n.Start, MinDuration)
		e.store.Update(e.active, Patch{Duration: &dur})
	case dragResizeLeft:
		end := e.origin.End()
		start := math.Max(math.Min(SnapTime(n.Start, grid), end-MinDuration), 0)
		dur := end - start
		e.store.Update(e.active, Patch{Start: &start, Duration: &dur})
	}
	debug.Log("editor", "commit note=%s kind=%d", e.active, e.kind)
}

// DoubleClick creates a note on empty canvas at the snapped location, one
// grid unit long, and selects it. A double-click on an existing note just
// selects it.
func (e *Editor) DoubleClick(x, y float64, mods Mods) {
	x, y = e.clampToCanvas(x, y)
	if n, _, ok := e.hitTest(x, y); ok {
		e.store.Select(n.ID)
		return
	}
	start := SnapTime(e.clock.PixelXToSeconds(e.view, x), e.GridSeconds(mods))
	pitch := e.view.PixelYToPitch(y)
	if e.ScaleSnap && !mods.Chromatic {
		pitch = e.Key.SnapPitch(pitch)
	}
	n := e.store.Add(Note{
		Pitch:    pitch,
		Start:    math.Max(start, 0),
		Duration: e.clock.BeatsToSeconds(e.GridBeats),
		Velocity: DefaultVelocity,
	})
	e.store.Select(n.ID)
	e.resetGesture()
}

// DeleteSelected removes the selected note. Reports whether anything was
// deleted; selection is cleared by the store.
func (e *Editor) DeleteSelected() bool {
	id := e.store.Selected()
	if id == "" {
		return false
	}
	if e.active == id {
		e.resetGesture()
	}
	e.store.Remove(id)
	return true
}

// Dragging reports whether a drag is in progress (deadzone passed).
func (e *Editor) Dragging() bool {
	return e.dragging
}

func (e *Editor) resetGesture() {
	e.kind = dragNone
	e.active = ""
	e.dragging = false
}
