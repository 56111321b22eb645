package root

import (
	"fmt"
	"net"
	"time"

	"github.com/jdomian/obd-gauge/internal/sim"
	"github.com/jdomian/obd-gauge/internal/state"
	"github.com/jdomian/obd-gauge/internal/transport"
	"github.com/jdomian/obd-gauge/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Run starts the simulator on the selected transport: TCP listener, serial
// device, or stdio (the binding used behind an rfcomm watch bridge).
func Run(cmd *cobra.Command, args []string) {
	defer log.Sync()

	store := openStore()
	engine := sim.NewEngine(store)
	idleTimeout := viper.GetDuration("idle-timeout")

	switch {
	case viper.GetBool("tcp"):
		if err := serveTCP(engine, viper.GetInt("port"), idleTimeout); err != nil {
			log.Fatal("TCP server failed", zap.Error(err))
		}
	case viper.GetBool("serial"):
		if err := serveSerial(engine, viper.GetString("device"), viper.GetInt("baud"), idleTimeout); err != nil {
			log.Fatal("serial server failed", zap.Error(err))
		}
	default:
		if err := serveStdio(engine, idleTimeout); err != nil {
			log.Fatal("stdio session failed", zap.Error(err))
		}
	}
}

// openStore opens the shared snapshot file, falling back to an in-memory
// store so the simulator still answers with idle defaults.
func openStore() state.Store {
	path := viper.GetString("state-file")
	store, err := state.NewFileStore(path)
	if err != nil {
		log.Warn("state file unavailable, using in-memory defaults",
			zap.String("path", path), zap.Error(err))
		return state.NewMemoryStore()
	}
	log.Info("using state file", zap.String("path", path))
	return store
}

// serveTCP accepts one connection at a time and services it to completion
// before accepting the next; the protocol has no concurrent sessions.
func serveTCP(engine *sim.Engine, port int, idleTimeout time.Duration) error {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	defer listener.Close()
	log.Info("listening", zap.String("address", addr))

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error("accept failed", zap.Error(err))
			continue
		}
		remote := conn.RemoteAddr().String()
		log.Info("client connected", zap.String("remote_addr", remote))

		tr := transport.NewTCP(conn)
		if err := sim.NewSession(engine, tr, idleTimeout).Run(); err != nil {
			log.Warn("session ended with error", zap.Error(err))
		}
		tr.Close()
		log.Info("client disconnected", zap.String("remote_addr", remote))
	}
}

// serveSerial keeps servicing sessions on the device; an idle timeout just
// starts a fresh session on the same line.
func serveSerial(engine *sim.Engine, device string, baud int, idleTimeout time.Duration) error {
	tr, err := transport.OpenSerial(device, baud)
	if err != nil {
		return err
	}
	defer tr.Close()
	log.Info("serving on serial device", zap.String("device", device), zap.Int("baud", baud))

	for {
		if err := sim.NewSession(engine, tr, idleTimeout).Run(); err != nil {
			return err
		}
	}
}

func serveStdio(engine *sim.Engine, idleTimeout time.Duration) error {
	log.Info("serving on stdio")
	return sim.NewSession(engine, transport.NewStdio(), idleTimeout).Run()
}
