package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-pianoroll/roll"
	"go-pianoroll/timing"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <project> <out.mid>",
	Short: "Write a project's latest save as a standard MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportProject(args[0], args[1])
	},
}

func exportProject(project, out string) error {
	snap, sum, err := roll.LoadProject(project, "")
	if err != nil {
		return err
	}
	if sum.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "dropped %d invalid notes\n", sum.Dropped)
	}

	clock, err := timing.NewClock(snap.Tempo, timing.PPQ)
	if err != nil {
		return err
	}

	store := roll.NewStore()
	snap.Apply(store)
	clusters := roll.Clusters(store.SortedByStart(), clock)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := roll.WriteSMF(f, clusters, clock); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d notes in %d clusters at %.0f bpm\n",
		out, sum.Loaded, len(clusters), clock.BPM)
	return nil
}
