package roll

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-pianoroll/debug"
)

// ErrMalformedSnapshot reports a snapshot whose envelope could not be parsed
// at all. Individually broken note records never cause this; they are
// dropped one by one and counted in the LoadSummary.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is the serializable project state: the note list plus the musical
// key context and tempo. Ephemeral editor state is never part of it.
type Snapshot struct {
	Notes []Note    `json:"notes"`
	Root  int       `json:"rootNote"`
	Scale ScaleType `json:"scaleType"`
	Tempo float64   `json:"tempo"`
}

// LoadSummary reports how a fail-soft load went.
type LoadSummary struct {
	Loaded  int
	Dropped int
}

// TakeSnapshot captures the store plus the editor's key and tempo.
func TakeSnapshot(s *Store, key Key, tempo float64) Snapshot {
	return Snapshot{
		Notes: s.List(),
		Root:  key.Root,
		Scale: key.Scale,
		Tempo: tempo,
	}
}

// Apply replaces the store contents with the snapshot's notes.
func (snap Snapshot) Apply(s *Store) {
	s.notes = make([]Note, len(snap.Notes))
	copy(s.notes, snap.Notes)
	s.selected = ""
	s.notify()
}

// DecodeSnapshot parses snapshot JSON field by field. Bad note records are
// skipped, good ones kept; only an unreadable envelope is an error.
func DecodeSnapshot(data []byte) (Snapshot, LoadSummary, error) {
	var raw struct {
		Notes []json.RawMessage `json:"notes"`
		Root  int               `json:"rootNote"`
		Scale ScaleType         `json:"scaleType"`
		Tempo float64           `json:"tempo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, LoadSummary{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	snap := Snapshot{Root: raw.Root, Scale: raw.Scale, Tempo: raw.Tempo}
	var sum LoadSummary
	seen := make(map[string]bool)
	for i, msg := range raw.Notes {
		var n Note
		if err := json.Unmarshal(msg, &n); err != nil {
			debug.Log("save", "dropping note %d: %v", i, err)
			sum.Dropped++
			continue
		}
		if !finite(n.Start) || !finite(n.Duration) || !finite(n.Velocity) || n.Duration <= 0 {
			debug.Log("save", "dropping note %d: out-of-range fields", i)
			sum.Dropped++
			continue
		}
		if n.ID == "" || seen[n.ID] {
			n.ID = newNoteID()
		}
		seen[n.ID] = true
		snap.Notes = append(snap.Notes, n.clamp())
		sum.Loaded++
	}
	if snap.Tempo <= 0 {
		snap.Tempo = 120
	}
	if snap.Scale == "" {
		snap.Scale = ScaleChromatic
	}
	return snap, sum, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ConfigDir returns the app config directory, overridable through
// PIANOROLL_CONFIG_DIR for tests and scripted use.
func ConfigDir() (string, error) {
	if dir := os.Getenv("PIANOROLL_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pianoroll"), nil
}

// ProjectsDir returns the directory holding saved projects.
func ProjectsDir() (string, error) {
	base, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "projects"), nil
}

func projectDir(name string) (string, error) {
	base, err := ProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, name), nil
}

// SaveInfo describes one timestamped save file.
type SaveInfo struct {
	Filename  string
	Timestamp time.Time
}

const saveTimeLayout = "2006-01-02_15-04-05"

// SaveProject writes the snapshot as a new timestamped save in the project.
func SaveProject(name string, snap Snapshot) error {
	if name == "" {
		name = "untitled"
	}
	dir, err := projectDir(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, time.Now().Format(saveTimeLayout)+".json")
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a specific save, or the most recent one if filename is
// empty, decoding it fail-soft.
func LoadProject(name, filename string) (Snapshot, LoadSummary, error) {
	dir, err := projectDir(name)
	if err != nil {
		return Snapshot{}, LoadSummary{}, err
	}
	if filename == "" {
		saves, err := ListSaves(name)
		if err != nil || len(saves) == 0 {
			return Snapshot{}, LoadSummary{}, fmt.Errorf("no saves found in project %s", name)
		}
		filename = saves[0].Filename // newest first
	}
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return Snapshot{}, LoadSummary{}, err
	}
	return DecodeSnapshot(data)
}

// ListProjects returns all project names, sorted.
func ListProjects() ([]string, error) {
	dir, err := ProjectsDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns the timestamped saves for a project, newest first.
func ListSaves(name string) ([]SaveInfo, error) {
	dir, err := projectDir(name)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}
	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".json")
		ts, err := time.Parse(saveTimeLayout, base)
		if err != nil {
			continue
		}
		saves = append(saves, SaveInfo{Filename: entry.Name(), Timestamp: ts})
	}
	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})
	return saves, nil
}
