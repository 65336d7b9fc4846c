package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps palette positions onto the roles the roll view draws with.
type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols are the glyphs the roll grid is drawn from.
type Symbols struct {
	Cell      rune // · empty cell
	CellDark  rune // blank cell on a black-key row
	BeatLine  rune // | beat boundary
	NoteHead  rune // █ note start
	NoteBody  rune // ▓ note sustain
	NoteTail  rune // ▒ last cell of a note
	Playhead  rune // │ playhead column
	SelectedL rune // [ selection marker
	SelectedR rune // ] selection marker
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Cell:      '·',
			CellDark:  ' ',
			BeatLine:  '┊',
			NoteHead:  '█',
			NoteBody:  '▓',
			NoteTail:  '▒',
			Playhead:  '│',
			SelectedL: '[',
			SelectedR: ']',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG       = 0.0
	RoleRowDark  = 0.08 // black-key row shading
	RoleGrid     = 0.2
	RoleMuted    = 0.3
	RoleFG       = 0.55
	RoleNote     = 0.65
	RoleSelected = 0.95
	RolePlayhead = 1.0
	RoleAccent   = 0.8
)

func (t *Theme) BG() lipgloss.Color       { return rgbToLipgloss(t.Palette.Lookup(RoleBG)) }
func (t *Theme) FG() lipgloss.Color       { return rgbToLipgloss(t.Palette.Lookup(RoleFG)) }
func (t *Theme) Grid() lipgloss.Color     { return rgbToLipgloss(t.Palette.Lookup(RoleGrid)) }
func (t *Theme) Muted() lipgloss.Color    { return rgbToLipgloss(t.Palette.Lookup(RoleMuted)) }
func (t *Theme) Selected() lipgloss.Color { return rgbToLipgloss(t.Palette.Lookup(RoleSelected)) }
func (t *Theme) Playhead() lipgloss.Color { return rgbToLipgloss(t.Palette.Lookup(RolePlayhead)) }
func (t *Theme) Accent() lipgloss.Color   { return rgbToLipgloss(t.Palette.Lookup(RoleAccent)) }

// Color returns the lipgloss color for any normalized value 0-1.
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// NoteColor shades a note by its velocity: quieter notes sink toward the
// grid end of the ramp, louder ones rise toward the selection end. The
// default creation velocity (0.8) lands exactly on the note role.
func (t *Theme) NoteColor(velocity float64) lipgloss.Color {
	return t.Color(RoleNote + 0.3*(velocity-0.8))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
