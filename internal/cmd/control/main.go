package control

import (
	"fmt"
	"strconv"

	"github.com/jdomian/obd-gauge/internal/control"
	"github.com/jdomian/obd-gauge/internal/state"
	"github.com/jdomian/obd-gauge/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func mustStore() state.Store {
	path := viper.GetString("state-file")
	store, err := state.NewFileStore(path)
	if err != nil {
		log.Fatal("failed to open state file", zap.String("path", path), zap.Error(err))
	}
	return store
}

// Run starts the interactive control panel.
func Run(cmd *cobra.Command, args []string) {
	if err := control.NewPanel(mustStore()).Run(); err != nil {
		log.Fatal("control panel failed", zap.Error(err))
	}
}

// RunSet handles `obd-sim set <field> <value>`.
func RunSet(cmd *cobra.Command, args []string) {
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		log.Fatal("value is not numeric", zap.String("value", args[1]))
	}
	if err := control.Set(mustStore(), args[0], value); err != nil {
		log.Fatal("set failed", zap.Error(err))
	}
	fmt.Printf("%s = %v\n", args[0], value)
}

// RunPreset handles `obd-sim preset <name>`.
func RunPreset(cmd *cobra.Command, args []string) {
	store := mustStore()
	if err := control.Preset(store, args[0]); err != nil {
		log.Fatal("preset failed", zap.Error(err))
	}
	fmt.Print(control.Show(store))
}

// RunShow handles `obd-sim show`.
func RunShow(cmd *cobra.Command, args []string) {
	fmt.Print(control.Show(mustStore()))
}
