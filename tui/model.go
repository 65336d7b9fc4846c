package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/roll"
	"go-pianoroll/theme"
	"go-pianoroll/widgets"
)

// terminal-cell canvas: one cell per semitone row, eight per beat
const (
	beatCells  = 8.0
	gutterW    = 4 // note-name column
	gridTop    = 2 // header + blank line above the grid
	reservedH  = 8 // header, status, and help lines around the grid
	doubleTime = 350 * time.Millisecond
)

// gridSteps are the grid divisions the [ and ] keys cycle through, in beats.
var gridSteps = []float64{1, 0.5, 0.25, 0.125, 0.0625}

type Model struct {
	Manager *roll.Manager
	Theme   *theme.Theme

	width  int
	height int

	scrollX float64 // canvas cells scrolled off the left edge
	scrollY int     // rows scrolled down from pitch 127

	lastClick   time.Time
	lastClickX  int
	lastClickY  int
	statusMsg   string
	quitting    bool
	showHelp    bool
	gridStepIdx int
}

type UpdateMsg struct{}

// frameMsg carries the tick time for the per-frame transport advance.
type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(roll.FramePeriod, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func NewModel(manager *roll.Manager, th *theme.Theme) Model {
	m := Model{
		Manager:     manager,
		Theme:       th,
		scrollY:     32, // top visible row around B6, keeps C5 in frame
		gridStepIdx: 2,
	}
	for i, s := range gridSteps {
		if s == manager.Editor.GridBeats {
			m.gridStepIdx = i
		}
	}
	return m
}

func ListenForUpdates(manager *roll.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(ListenForUpdates(m.Manager), frameTick())
}

// mods translates terminal modifier keys into gesture overrides: shift for
// the precision grid, alt for chromatic.
func mouseMods(msg tea.MouseMsg) roll.Mods {
	return roll.Mods{Fine: msg.Shift, Chromatic: msg.Alt}
}

// canvasPos maps a screen cell onto the editor canvas, addressing the cell
// center so edge cells resolve to the right note.
func (m Model) canvasPos(x, y int) (float64, float64) {
	cx := float64(x-gutterW) + m.scrollX + 0.5
	cy := float64(y-gridTop+m.scrollY) + 0.5
	return cx, cy
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ed := m.Manager.Editor

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Manager.Shutdown()
			return m, tea.Quit

		case " ", "p":
			m.Manager.PlayToggle()

		case "+", "=":
			m.Manager.SetTempo(ed.Clock().BPM + 5)
		case "-", "_":
			m.Manager.SetTempo(ed.Clock().BPM - 5)

		case "g":
			ed.GridSnap = !ed.GridSnap
		case "s":
			ed.ScaleSnap = !ed.ScaleSnap

		case "[":
			if m.gridStepIdx > 0 {
				m.gridStepIdx--
			}
			ed.GridBeats = gridSteps[m.gridStepIdx]
		case "]":
			if m.gridStepIdx < len(gridSteps)-1 {
				m.gridStepIdx++
			}
			ed.GridBeats = gridSteps[m.gridStepIdx]

		case "r":
			ed.Key.Root = (ed.Key.Root + 1) % 12
		case "m":
			ed.Key.Scale = nextScale(ed.Key.Scale)

		case "backspace", "delete", "x":
			if ed.DeleteSelected() {
				m.statusMsg = "note deleted"
			}

		case "w":
			name := m.Manager.ProjectName
			if name == "" {
				name = "untitled"
			}
			snap := roll.TakeSnapshot(m.Manager.Store, ed.Key, ed.Clock().BPM)
			if err := roll.SaveProject(name, snap); err != nil {
				m.statusMsg = "save failed: " + err.Error()
			} else {
				m.statusMsg = "saved " + name
			}

		case "?":
			m.showHelp = !m.showHelp

		case "esc":
			if m.showHelp {
				m.showHelp = false
			} else {
				ed.Cancel()
			}

		case "h", "left":
			m.scrollX = max(m.scrollX-beatCells, 0)
		case "l", "right":
			m.scrollX += beatCells
		case "k", "up":
			m.scrollY = clampInt(m.scrollY-4, 0, 127)
		case "j", "down":
			m.scrollY = clampInt(m.scrollY+4, 0, 127)
		}

	case tea.MouseMsg:
		cx, cy := m.canvasPos(msg.X, msg.Y)
		switch {
		case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
			if msg.Shift {
				m.scrollX = max(m.scrollX-2, 0)
			} else {
				m.scrollY = clampInt(m.scrollY-2, 0, 127)
			}
		case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
			if msg.Shift {
				m.scrollX += 2
			} else {
				m.scrollY = clampInt(m.scrollY+2, 0, 127)
			}
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			now := time.Now()
			if now.Sub(m.lastClick) < doubleTime &&
				absInt(msg.X-m.lastClickX) <= 1 && absInt(msg.Y-m.lastClickY) <= 1 {
				ed.DoubleClick(cx, cy, mouseMods(msg))
				if n, ok := m.Manager.Store.SelectedNote(); ok {
					m.Manager.Player.Preview(n.Pitch, n.Velocity)
				}
				m.lastClick = time.Time{}
			} else {
				ed.PointerDown(cx, cy)
				m.lastClick = now
				m.lastClickX, m.lastClickY = msg.X, msg.Y
			}
		case msg.Action == tea.MouseActionMotion:
			ed.PointerMove(cx, cy)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
			wasDrag := ed.Dragging()
			ed.PointerUp(cx, cy, mouseMods(msg))
			if wasDrag {
				if n, ok := m.Manager.Store.SelectedNote(); ok {
					m.Manager.Player.Preview(n.Pitch, n.Velocity)
				}
			}
		}

	case tea.BlurMsg:
		// Losing focus mid-drag commits the preview rather than dropping it.
		ed.Cancel()

	case frameMsg:
		// Transport and store are only ever touched on this goroutine; the
		// frame advance runs here rather than on a timer goroutine.
		m.Manager.Tick(time.Time(msg))
		return m, frameTick()

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)
	}

	return m, nil
}

func nextScale(s roll.ScaleType) roll.ScaleType {
	for i, st := range roll.ScaleTypes {
		if st == s {
			return roll.ScaleTypes[(i+1)%len(roll.ScaleTypes)]
		}
	}
	return roll.ScaleTypes[0]
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}

	ed := m.Manager.Editor
	clk := ed.Clock()
	th := m.Theme
	sym := th.Symbols

	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Background(th.BG())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	gutterStyle := lipgloss.NewStyle().Foreground(th.Grid())
	selStyle := lipgloss.NewStyle().Foreground(th.Selected())
	playStyle := lipgloss.NewStyle().Foreground(th.Playhead())
	gridStyle := lipgloss.NewStyle().Foreground(th.Grid())

	playState := "STOP"
	if m.Manager.Transport.Playing() {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("go-pianoroll  %s  %3.0fbpm  %s %s  pos %5.2fs",
		playState, clk.BPM, roll.NoteNames[ed.Key.Root], ed.Key.Scale, m.Manager.Transport.Pos()))

	rows := m.height - reservedH
	if rows < 8 {
		rows = 8
	}
	cols := m.width - gutterW
	if cols < 16 {
		cols = 64
	}

	view := ed.View()
	notes := m.Manager.Store.List()
	selected := m.Manager.Store.Selected()

	playCol := -1
	if m.Manager.Transport.Playing() {
		playCol = int(clk.SecondsToPixelX(view, m.Manager.Transport.Pos()) - m.scrollX)
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")

	for row := 0; row < rows; row++ {
		pitch := 127 - (m.scrollY + row)
		if pitch < 0 {
			break
		}
		name := roll.NoteNames[pitch%12]
		out.WriteString(gutterStyle.Render(fmt.Sprintf("%2s%d ", name, pitch/12-1)))

		dark := isBlackKey(pitch)
		for col := 0; col < cols; col++ {
			x := m.scrollX + float64(col)
			t0 := clk.PixelXToSeconds(view, x)
			t1 := clk.PixelXToSeconds(view, x+1)

			// topmost note covering this cell: last added wins
			var hit *roll.Note
			for i := range notes {
				n := &notes[i]
				if n.Pitch == pitch && n.Start < t1 && n.End() > t0 {
					hit = n
				}
			}

			switch {
			case hit != nil:
				ch := string(sym.NoteBody)
				switch {
				case hit.Start >= t0:
					ch = string(sym.NoteHead)
				case hit.End() <= t1:
					ch = string(sym.NoteTail)
				}
				if hit.ID == selected {
					out.WriteString(selStyle.Render(ch))
				} else {
					out.WriteString(lipgloss.NewStyle().Foreground(th.NoteColor(hit.Velocity)).Render(ch))
				}
			case col == playCol:
				out.WriteString(playStyle.Render(string(sym.Playhead)))
			case int(x)%int(beatCells) == 0:
				out.WriteString(gridStyle.Render(string(sym.BeatLine)))
			case dark:
				out.WriteString(string(sym.CellDark))
			default:
				out.WriteString(dimStyle.Render(string(sym.Cell)))
			}
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(widgets.RenderToggles([]widgets.Toggle{
		{Label: fmt.Sprintf("grid %s", gridLabel(ed.GridBeats)), On: ed.GridSnap},
		{Label: "scale", On: ed.ScaleSnap},
	}, headerStyle, dimStyle))
	if n, ok := m.Manager.Store.SelectedNote(); ok {
		out.WriteString("   ")
		out.WriteString(selStyle.Render(fmt.Sprintf("%c%s%d %.3fs %.3fs%c",
			sym.SelectedL, roll.NoteNames[n.Pitch%12], n.Pitch/12-1,
			n.Start, n.Duration, sym.SelectedR)))
	}
	if m.statusMsg != "" {
		out.WriteString("   ")
		out.WriteString(dimStyle.Render(m.statusMsg))
	}
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(
		"dbl-click:add  drag:move  edge-drag:resize  del:delete  shift:fine  alt:chromatic"))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(
		"space:play  g/s:snap  [ ]:grid  r/m:key  +/-:tempo  w:save  ?:help  q:quit"))

	return out.String()
}

func (m Model) helpView() string {
	sections := []widgets.KeySection{
		{Title: "Editing", Keys: []widgets.KeyBinding{
			{Key: "double-click", Desc: "add a note (click a note to select it)"},
			{Key: "drag", Desc: "move a note"},
			{Key: "edge drag", Desc: "resize from either end"},
			{Key: "shift+drag", Desc: "fine grid for this gesture"},
			{Key: "alt+drag", Desc: "ignore the scale for this gesture"},
			{Key: "del / x", Desc: "delete the selected note"},
		}},
		{Title: "Snapping", Keys: []widgets.KeyBinding{
			{Key: "g", Desc: "toggle grid snap"},
			{Key: "s", Desc: "toggle scale snap"},
			{Key: "[ ]", Desc: "coarser / finer grid"},
			{Key: "r", Desc: "cycle root note"},
			{Key: "m", Desc: "cycle scale"},
		}},
		{Title: "Transport", Keys: []widgets.KeyBinding{
			{Key: "space / p", Desc: "play from the top / stop"},
			{Key: "+ / -", Desc: "tempo up / down"},
		}},
		{Title: "Session", Keys: []widgets.KeyBinding{
			{Key: "w", Desc: "save now"},
			{Key: "hjkl / arrows", Desc: "scroll"},
			{Key: "?", Desc: "close this help"},
			{Key: "q", Desc: "quit"},
		}},
	}
	body := lipgloss.NewStyle().Foreground(m.Theme.FG())
	return "\n" + body.Render(widgets.RenderKeyHelp(sections)) + "\n"
}

func gridLabel(beats float64) string {
	switch beats {
	case 1:
		return "1/4"
	case 0.5:
		return "1/8"
	case 0.25:
		return "1/16"
	case 0.125:
		return "1/32"
	case 0.0625:
		return "1/64"
	default:
		return fmt.Sprintf("%.3f", beats)
	}
}

func isBlackKey(pitch int) bool {
	switch pitch % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
