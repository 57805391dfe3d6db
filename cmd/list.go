package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajohns08/display-switch/internal/display"
	"github.com/rajohns08/display-switch/internal/input"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List detected displays and their current input",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	displays, err := display.Detect()
	if err != nil {
		return err
	}
	defer display.Close(displays)

	unique := display.NamesUnique(displays)
	for i, d := range displays {
		label := d.Name()
		if !unique {
			label = d.NameWithOrdinal(i + 1)
		}

		current := "unknown"
		if raw, err := d.Handle.GetVCP(display.InputSelect); err == nil {
			current = input.Source(raw & 0xff).String()
		}
		fmt.Printf("%s (%s): current input %s\n", label, d.Info.OpaqueID, current)
	}
	return nil
}
