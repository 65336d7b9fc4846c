package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-pianoroll/config"
	"go-pianoroll/debug"
	"go-pianoroll/roll"
	"go-pianoroll/theme"
	"go-pianoroll/timing"
	"go-pianoroll/tui"
)

var (
	flagProject string
	flagPort    string
	flagPalette string
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "go-pianoroll",
	Short: "Terminal piano-roll editor with MIDI playback and export",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "project to load and autosave to")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "MIDI output port (default: first available)")
	rootCmd.Flags().StringVar(&flagPalette, "palette", "", "path to a .gpl palette file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write a debug log to the config dir")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func runEditor() error {
	if flagDebug {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	clock, err := timing.NewClock(cfg.Tempo, timing.PPQ)
	if err != nil {
		return err
	}
	// terminal-cell canvas: 8 cells per beat, 1 row per semitone
	view, err := timing.NewViewport(8, 1, 127)
	if err != nil {
		return err
	}

	manager := roll.NewManager(clock, view)
	ed := manager.Editor
	ed.GridSnap = cfg.Grid.Enabled
	ed.GridBeats = cfg.Grid.Division
	ed.ScaleSnap = cfg.Key.Enabled
	ed.Key = roll.Key{Root: cfg.Key.Root, Scale: cfg.Key.Scale}
	ed.EdgeBand = 1
	ed.Deadzone = 1
	ed.SetCanvasSize(0, 128)

	port := flagPort
	if port == "" {
		port = cfg.MIDI.PortName
	}
	if sender, err := roll.OpenPort(port); err != nil {
		fmt.Fprintf(os.Stderr, "no MIDI output: %v\n", err)
	} else {
		manager.Player.SetSender(sender)
	}

	project := flagProject
	if project == "" {
		project = cfg.LastProject
	}
	if project != "" {
		if snap, sum, err := roll.LoadProject(project, ""); err == nil {
			manager.LoadIntoStore(snap)
			if sum.Dropped > 0 {
				fmt.Fprintf(os.Stderr, "loaded %d notes, dropped %d invalid\n", sum.Loaded, sum.Dropped)
			}
		}
		manager.ProjectName = project
	}

	pal := theme.Default()
	if flagPalette != "" {
		pal, err = theme.LoadGPL(flagPalette)
		if err != nil {
			return err
		}
	}

	defer manager.Shutdown()

	m := tui.NewModel(manager, theme.New(pal))
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}

	// persist the session's settings
	cfg.Tempo = ed.Clock().BPM
	cfg.Grid = config.GridConfig{Enabled: ed.GridSnap, Division: ed.GridBeats}
	cfg.Key = config.KeyConfig{Enabled: ed.ScaleSnap, Root: ed.Key.Root, Scale: ed.Key.Scale}
	cfg.LastProject = manager.ProjectName
	return cfg.Save()
}
