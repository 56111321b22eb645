package poll

import (
	"fmt"
	"net"
	"time"

	"github.com/jdomian/obd-gauge/internal/client"
	"github.com/jdomian/obd-gauge/internal/transport"
	"github.com/jdomian/obd-gauge/pkg/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Run connects to a running simulator, initializes the adapter the way a
// real gauge would, and prints the decoded gauge PIDs.
func Run(cmd *cobra.Command, args []string) {
	tr, err := connect(cmd)
	if err != nil {
		log.Fatal("failed to connect", zap.Error(err))
	}

	c := client.New(tr, 0)
	defer c.Close()

	if err := c.Init(); err != nil {
		log.Fatal("adapter initialization failed", zap.Error(err))
	}

	count, _ := cmd.Flags().GetInt("count")
	interval, _ := cmd.Flags().GetDuration("interval")

	for round := 0; count == 0 || round < count; round++ {
		if round > 0 {
			time.Sleep(interval)
		}
		printRound(c)
	}
}

func connect(cmd *cobra.Command) (transport.Transport, error) {
	if useSerial, _ := cmd.Flags().GetBool("serial"); useSerial {
		device, _ := cmd.Flags().GetString("device")
		baud, _ := cmd.Flags().GetInt("baud")
		return transport.OpenSerial(device, baud)
	}

	addr, _ := cmd.Flags().GetString("addr")
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return transport.NewTCP(conn), nil
}

func printRound(c *client.Client) {
	if rpm, err := c.RPM(); err == nil {
		fmt.Printf("RPM:      %d\n", rpm)
	} else {
		fmt.Printf("RPM:      error: %v\n", err)
	}
	if temp, err := c.CoolantTemp(); err == nil {
		fmt.Printf("Coolant:  %.0f C\n", temp)
	} else {
		fmt.Printf("Coolant:  error: %v\n", err)
	}
	if speed, err := c.Speed(); err == nil {
		fmt.Printf("Speed:    %d km/h\n", speed)
	} else {
		fmt.Printf("Speed:    error: %v\n", err)
	}
	if kpa, err := c.MAP(); err == nil {
		fmt.Printf("MAP:      %d kPa\n", kpa)
	} else {
		fmt.Printf("MAP:      error: %v\n", err)
	}
	if tps, err := c.Throttle(); err == nil {
		fmt.Printf("Throttle: %.1f %%\n", tps)
	} else {
		fmt.Printf("Throttle: error: %v\n", err)
	}
	if v, err := c.Voltage(); err == nil {
		fmt.Printf("Voltage:  %.1f V\n", v)
	} else {
		fmt.Printf("Voltage:  error: %v\n", err)
	}
	fmt.Println("---")
}
