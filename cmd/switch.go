package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajohns08/display-switch/internal/display"
	"github.com/rajohns08/display-switch/internal/input"
)

var switchCmd = &cobra.Command{
	Use:   "switch <input>",
	Short: "Switch all displays to the given input",
	Long: `Switch every detected display to the given input source, once,
without consulting the per-monitor configuration.

The input may be a symbolic name or a raw register value:

  display-switch switch Hdmi1
  display-switch switch DisplayPort1
  display-switch switch 0x11

Useful for testing a monitor's DDC/CI support and for keybindings.`,
	Args: cobra.ExactArgs(1),
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	source, err := input.Parse(args[0])
	if err != nil {
		return err
	}

	displays, err := display.Detect()
	if err != nil {
		return err
	}
	defer display.Close(displays)

	unique := display.NamesUnique(displays)
	failures := 0
	for i, d := range displays {
		label := d.Name()
		if !unique {
			label = d.NameWithOrdinal(i + 1)
		}
		result := display.SwitchInput(d.Handle, source)
		display.LogSwitchResult(label, source, result)
		if !result.OK() {
			failures++
		}
	}

	if failures == len(displays) {
		return fmt.Errorf("no display accepted input %s", source)
	}
	return nil
}
