package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jdomian/obd-gauge/internal/cmd/root"
	"github.com/jdomian/obd-gauge/internal/sim"
	"github.com/jdomian/obd-gauge/internal/state"
	"github.com/jdomian/obd-gauge/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "obd-sim",
	Short: "ELM327 OBD-II adapter simulator",
	Run:   root.Run,
}

func init() {
	cobra.OnInitialize(initLogger)

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("state-file", state.DefaultStateFile, "Path to the shared vehicle state snapshot")

	rootCmd.Flags().Bool("tcp", false, "Serve on a TCP socket instead of stdio")
	rootCmd.Flags().Int("port", 35000, "TCP port")
	rootCmd.Flags().Bool("serial", false, "Serve on a serial device instead of stdio")
	rootCmd.Flags().String("device", "/dev/rfcomm0", "Serial device path")
	rootCmd.Flags().Int("baud", 38400, "Baud rate for serial connection")
	rootCmd.Flags().Duration("idle-timeout", sim.DefaultIdleTimeout, "Tear down a session after this long without a command terminator")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("state-file", rootCmd.PersistentFlags().Lookup("state-file"))
	viper.BindPFlag("tcp", rootCmd.Flags().Lookup("tcp"))
	viper.BindPFlag("port", rootCmd.Flags().Lookup("port"))
	viper.BindPFlag("serial", rootCmd.Flags().Lookup("serial"))
	viper.BindPFlag("device", rootCmd.Flags().Lookup("device"))
	viper.BindPFlag("baud", rootCmd.Flags().Lookup("baud"))
	viper.BindPFlag("idle-timeout", rootCmd.Flags().Lookup("idle-timeout"))

	// Set default values
	viper.SetDefault("debug", false)
	viper.SetDefault("state-file", state.DefaultStateFile)
	viper.SetDefault("tcp", false)
	viper.SetDefault("port", 35000)
	viper.SetDefault("serial", false)
	viper.SetDefault("device", "/dev/rfcomm0")
	viper.SetDefault("baud", 38400)
	viper.SetDefault("idle-timeout", 30*time.Second)
}

func initLogger() {
	log.InitLogger(viper.GetBool("debug"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
