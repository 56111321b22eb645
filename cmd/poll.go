package cmd

import (
	"time"

	"github.com/jdomian/obd-gauge/internal/cmd/poll"

	"github.com/spf13/cobra"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Connect to a running simulator and poll the gauge PIDs",
	Run:   poll.Run,
}

func init() {
	pollCmd.Flags().String("addr", "127.0.0.1:35000", "Simulator TCP address")
	pollCmd.Flags().Bool("serial", false, "Connect over a serial device instead of TCP")
	pollCmd.Flags().String("device", "/dev/rfcomm0", "Serial device path")
	pollCmd.Flags().Int("baud", 38400, "Baud rate for serial connection")
	pollCmd.Flags().Int("count", 1, "Number of polling rounds, 0 for forever")
	pollCmd.Flags().Duration("interval", time.Second, "Delay between polling rounds")

	rootCmd.AddCommand(pollCmd)
}
