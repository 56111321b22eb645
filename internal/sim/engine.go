package sim

import (
	"fmt"
	"strings"

	"github.com/jdomian/obd-gauge/internal/state"
)

// Adapter identity strings, matching an STN-based ELM327 clone.
const (
	AdapterID      = "ELM327 v2.1"
	DeviceDesc     = "OBD-SIM"
	ProtocolNumber = "A6" // ISO 15765-4 CAN 11/500, auto-selected

	STNVersion      = "STN2255 v5.10.3"
	STNSerialNumber = "225530429398"
	STNManufacturer = "OBD Solutions LLC"
)

// Canned reply bodies.
const (
	ResponseOK      = "OK"
	ResponseNoData  = "NO DATA"
	ResponseUnknown = "?"
)

// Flags are the per-session adapter modes toggled by AT commands. They are
// tracked and acknowledged but do not change the reply framing.
type Flags struct {
	Echo      bool
	Linefeeds bool
	Spaces    bool
	Headers   bool
}

// DefaultFlags is the power-on (and ATZ) configuration.
func DefaultFlags() Flags {
	return Flags{Echo: true, Linefeeds: true, Spaces: true, Headers: false}
}

// Engine resolves normalized commands to reply bodies. It reads the vehicle
// state store and never mutates it.
type Engine struct {
	store state.Store
}

// NewEngine creates an Engine over the given state store.
func NewEngine(store state.Store) *Engine {
	return &Engine{store: store}
}

// Normalize folds a raw command to uppercase and strips whitespace and any
// embedded CR/LF, making matching case- and space-insensitive. Idempotent.
func Normalize(raw string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(raw) {
		switch r {
		case ' ', '\t', '\r', '\n':
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// route pairs a command prefix with its handler. Routes are evaluated in
// order, first match wins, so specific prefixes must precede the catch-alls.
type route struct {
	prefix string
	handle func(e *Engine, cmd string, fl *Flags) string
}

// routes is the adapter's full command table. Specific AT commands, then the
// known PIDs, then the STN extras, then the generic fallbacks.
var routes []route

func init() {
	routes = []route{
		{"ATZ", func(e *Engine, _ string, fl *Flags) string {
			*fl = DefaultFlags()
			return AdapterID
		}},
		{"ATE", setFlag(func(fl *Flags, on bool) { fl.Echo = on })},
		{"ATH", setFlag(func(fl *Flags, on bool) { fl.Headers = on })},
		{"ATSP", ack},
		{"ATRV", func(e *Engine, _ string, _ *Flags) string {
			return fmt.Sprintf("%.1fV", e.store.State().Voltage)
		}},
		{"ATDPN", func(*Engine, string, *Flags) string { return ProtocolNumber }},
		{"ATL", setFlag(func(fl *Flags, on bool) { fl.Linefeeds = on })},
		{"ATS0", setFlag(func(fl *Flags, on bool) { fl.Spaces = on })},
		{"ATS1", setFlag(func(fl *Flags, on bool) { fl.Spaces = on })},
		{"ATST", ack},
		{"ATAT", ack},
		{"AT@1", func(*Engine, string, *Flags) string { return DeviceDesc }},
		{"ATI", func(*Engine, string, *Flags) string { return AdapterID }},
	}

	for _, entry := range pidTable {
		render := entry.Render
		routes = append(routes, route{entry.Code, func(e *Engine, _ string, _ *Flags) string {
			return render(e.store.State())
		}})
	}

	routes = append(routes,
		route{"STI", fixedReply(STNVersion)},
		route{"STSN", fixedReply(STNSerialNumber)},
		route{"STMFR", fixedReply(STNManufacturer)},

		// Catch-alls: any AT command is acknowledged, any unmapped mode-01
		// PID is a recognized-but-unsupported query.
		route{"AT", ack},
		route{"01", func(*Engine, string, *Flags) string { return ResponseNoData }},
		route{"ST", ack},
	)
}

func ack(*Engine, string, *Flags) string { return ResponseOK }

func fixedReply(body string) func(*Engine, string, *Flags) string {
	return func(*Engine, string, *Flags) string { return body }
}

// setFlag acknowledges an AT mode toggle, using the digit after the prefix
// ("0" off, anything else on).
func setFlag(set func(fl *Flags, on bool)) func(*Engine, string, *Flags) string {
	return func(_ *Engine, cmd string, fl *Flags) string {
		set(fl, !strings.HasSuffix(cmd, "0"))
		return ResponseOK
	}
}

// Dispatch normalizes a raw command and resolves it to a reply body. An
// empty command yields an empty body; anything unrecognized yields "?". By
// design there is no error path visible to the client.
func (e *Engine) Dispatch(raw string, fl *Flags) string {
	cmd := Normalize(raw)
	if cmd == "" {
		return ""
	}
	for _, r := range routes {
		if strings.HasPrefix(cmd, r.prefix) {
			return r.handle(e, cmd, fl)
		}
	}
	return ResponseUnknown
}
