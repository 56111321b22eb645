package cmd

import (
	"github.com/jdomian/obd-gauge/internal/cmd/control"

	"github.com/spf13/cobra"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Interactive TUI for driving the simulated vehicle state",
	Run:   control.Run,
}

var setCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set one vehicle value (rpm, throttle, coolant, speed, boost)",
	Args:  cobra.ExactArgs(2),
	Run:   control.RunSet,
}

var presetCmd = &cobra.Command{
	Use:   "preset <wot|idle>",
	Short: "Apply a named bundle of vehicle values",
	Args:  cobra.ExactArgs(1),
	Run:   control.RunPreset,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current vehicle state",
	Args:  cobra.NoArgs,
	Run:   control.RunShow,
}

func init() {
	rootCmd.AddCommand(controlCmd, setCmd, presetCmd, showCmd)
}
