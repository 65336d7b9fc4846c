package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-pianoroll/roll"
)

func init() {
	rootCmd.AddCommand(savesCmd)
}

var savesCmd = &cobra.Command{
	Use:   "saves [project]",
	Short: "List projects, or the saves within one project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			projects, err := roll.ListProjects()
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("no projects yet")
				return nil
			}
			for _, p := range projects {
				fmt.Println(p)
			}
			return nil
		}

		saves, err := roll.ListSaves(args[0])
		if err != nil {
			return err
		}
		if len(saves) == 0 {
			fmt.Printf("no saves in project %s\n", args[0])
			return nil
		}
		for _, s := range saves {
			fmt.Printf("%s  %s\n", s.Timestamp.Format("2006-01-02 15:04:05"), s.Filename)
		}
		return nil
	},
}
