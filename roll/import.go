package roll

// GeneratedNote is the id-less record handed over by the generation
// collaborator. The store assigns ids and clamps fields on ingestion.
type GeneratedNote struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"startTime"`
	Duration float64 `json:"duration"`
	Velocity float64 `json:"velocity"`
}

// Import appends the generated notes to the store and returns them as
// stored. Observers are notified once for the whole batch.
func (s *Store) Import(notes []GeneratedNote) []Note {
	added := make([]Note, 0, len(notes))
	for _, g := range notes {
		n := Note{
			ID:       newNoteID(),
			Pitch:    g.Pitch,
			Start:    g.Start,
			Duration: g.Duration,
			Velocity: g.Velocity,
		}.clamp()
		s.notes = append(s.notes, n)
		added = append(added, n)
	}
	if len(added) > 0 {
		s.notify()
	}
	return added
}
