package roll

import (
	"sort"

	"go-pianoroll/debug"
)

// Store owns the canonical note list and the current selection. All mutation
// goes through it; other components get copies. Mutations are atomic per note
// and observers are notified after every change.
//
// The store is not safe for concurrent use and carries no locking; every
// access, reads included, is confined to the UI event goroutine. The frame
// tick runs there too, so nothing else ever observes the store.
type Store struct {
	notes     []Note // insertion order
	selected  string // selected note id, "" for none
	observers []func()
}

func NewStore() *Store {
	return &Store{}
}

// OnChange registers an observer called after every mutation.
func (s *Store) OnChange(fn func()) {
	s.observers = append(s.observers, fn)
}

func (s *Store) notify() {
	for _, fn := range s.observers {
		fn()
	}
}

// Add inserts a note, clamping out-of-range fields and assigning a fresh id
// if none is given. Returns the stored note.
func (s *Store) Add(n Note) Note {
	if n.ID == "" {
		n.ID = newNoteID()
	}
	n = n.clamp()
	s.notes = append(s.notes, n)
	s.notify()
	return n
}

// Patch holds the fields an Update may change. Nil fields are left untouched.
type Patch struct {
	Pitch    *int
	Start    *float64
	Duration *float64
	Velocity *float64
}

// Update applies the patch to the note with the given id, re-clamping the
// result. Unknown ids are a no-op (logged for diagnostics, not an error).
func (s *Store) Update(id string, p Patch) {
	i := s.index(id)
	if i < 0 {
		debug.Log("store", "update: note %s not found", id)
		return
	}
	n := s.notes[i]
	if p.Pitch != nil {
		n.Pitch = *p.Pitch
	}
	if p.Start != nil {
		n.Start = *p.Start
	}
	if p.Duration != nil {
		n.Duration = *p.Duration
	}
	if p.Velocity != nil {
		n.Velocity = *p.Velocity
	}
	s.notes[i] = n.clamp()
	s.notify()
}

// Remove deletes the note with the given id. Unknown ids are a no-op.
// Removing the selected note clears the selection.
func (s *Store) Remove(id string) {
	i := s.index(id)
	if i < 0 {
		debug.Log("store", "remove: note %s not found", id)
		return
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	s.notify()
}

// Clear removes all notes and the selection.
func (s *Store) Clear() {
	s.notes = nil
	s.selected = ""
	s.notify()
}

// Select sets the selection. An empty id clears it; an unknown id is
// silently ignored.
func (s *Store) Select(id string) {
	if id != "" && s.index(id) < 0 {
		debug.Log("store", "select: note %s not found", id)
		return
	}
	s.selected = id
	s.notify()
}

// Selected returns the selected note id, or "" if none.
func (s *Store) Selected() string {
	return s.selected
}

// SelectedNote returns the selected note, if any.
func (s *Store) SelectedNote() (Note, bool) {
	return s.Get(s.selected)
}

// Get returns a copy of the note with the given id.
func (s *Store) Get(id string) (Note, bool) {
	i := s.index(id)
	if i < 0 {
		return Note{}, false
	}
	return s.notes[i], true
}

// Len returns the number of notes.
func (s *Store) Len() int {
	return len(s.notes)
}

// List returns a copy of the notes in insertion order.
func (s *Store) List() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// SortedByStart returns the notes ordered by start time, ties kept in
// insertion order. This is the view export and playback consume.
func (s *Store) SortedByStart() []Note {
	out := s.List()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

func (s *Store) index(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}
