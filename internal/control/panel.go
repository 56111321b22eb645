package control

import (
	"fmt"
	"time"

	"github.com/jdomian/obd-gauge/internal/state"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Panel is an interactive TUI over the state store: live value rows plus
// keys to nudge throttle, RPM, boost, and speed while a gauge polls the
// simulator.
type Panel struct {
	app   *tview.Application
	store state.Store

	throttleText *tview.TextView
	rpmText      *tview.TextView
	boostText    *tview.TextView
	speedText    *tview.TextView
	coolantText  *tview.TextView
	voltageText  *tview.TextView
	helpText     *tview.TextView

	stopCh chan struct{}
}

// Key step sizes per press.
const (
	throttleStep = 5.0
	rpmStep      = 250.0
	boostStep    = 1.0
	speedStep    = 10.0
)

// NewPanel creates a Panel over the given store.
func NewPanel(store state.Store) *Panel {
	p := &Panel{
		app:    tview.NewApplication(),
		store:  store,
		stopCh: make(chan struct{}),
	}
	return p
}

// Run builds the UI and blocks until the user quits.
func (p *Panel) Run() error {
	title := tview.NewTextView().SetTextAlign(tview.AlignCenter).
		SetText("obd-sim - simulated vehicle control")

	p.throttleText = tview.NewTextView().SetDynamicColors(true)
	p.rpmText = tview.NewTextView().SetDynamicColors(true)
	p.boostText = tview.NewTextView().SetDynamicColors(true)
	p.speedText = tview.NewTextView().SetDynamicColors(true)
	p.coolantText = tview.NewTextView().SetDynamicColors(true)
	p.voltageText = tview.NewTextView().SetDynamicColors(true)
	p.helpText = tview.NewTextView().SetTextAlign(tview.AlignCenter).
		SetText("t/T throttle -/+  r/R rpm -/+  b/B boost -/+  s/S speed -/+  w WOT  i idle  q quit")

	flex := tview.NewFlex().SetDirection(tview.FlexRow)
	flex.AddItem(title, 1, 0, false)
	flex.AddItem(p.throttleText, 1, 0, false)
	flex.AddItem(p.rpmText, 1, 0, false)
	flex.AddItem(p.boostText, 1, 0, false)
	flex.AddItem(p.speedText, 1, 0, false)
	flex.AddItem(p.coolantText, 1, 0, false)
	flex.AddItem(p.voltageText, 1, 0, false)
	flex.AddItem(p.helpText, 1, 0, false)

	p.app.SetRoot(flex, true)
	p.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q', 'Q':
			close(p.stopCh)
			p.app.Stop()
			return nil
		case 't':
			p.nudge(state.FieldThrottle, -throttleStep, 0, 100)
		case 'T':
			p.nudge(state.FieldThrottle, throttleStep, 0, 100)
		case 'r':
			p.nudge(state.FieldRPM, -rpmStep, 0, 8000)
		case 'R':
			p.nudge(state.FieldRPM, rpmStep, 0, 8000)
		case 'b':
			p.nudgeBoost(-boostStep)
		case 'B':
			p.nudgeBoost(boostStep)
		case 's':
			p.nudge(state.FieldSpeed, -speedStep, 0, 300)
		case 'S':
			p.nudge(state.FieldSpeed, speedStep, 0, 300)
		case 'w', 'W':
			_ = Preset(p.store, state.PresetWOT)
		case 'i', 'I':
			_ = Preset(p.store, state.PresetIdle)
		}
		return event
	})

	p.updateValues()
	p.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		p.updateValues()
		return false
	})

	// External writers (or another control process) can change the snapshot;
	// refresh so the rows track it.
	go p.refreshLoop()

	return p.app.Run()
}

func (p *Panel) nudge(field string, delta, lo, hi float64) {
	s := p.store.State()
	f := map[string]float64{
		state.FieldThrottle: s.ThrottlePct,
		state.FieldRPM:      s.RPM,
		state.FieldSpeed:    s.SpeedKPH,
	}[field]
	v := f + delta
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	_ = p.store.SetField(field, v)
}

func (p *Panel) nudgeBoost(delta float64) {
	s := p.store.State()
	_ = Set(p.store, SetterBoost, s.BoostPSI()+delta)
}

func (p *Panel) updateValues() {
	s := p.store.State()
	p.throttleText.SetText(fmt.Sprintf("Throttle: %5.1f %%", s.ThrottlePct))
	p.rpmText.SetText(fmt.Sprintf("RPM:      %5.0f", s.RPM))
	p.boostText.SetText(fmt.Sprintf("Boost:    %+5.1f PSI (MAP %.0f kPa)", s.BoostPSI(), s.MAPKPa))
	p.speedText.SetText(fmt.Sprintf("Speed:    %5.1f km/h", s.SpeedKPH))
	p.coolantText.SetText(fmt.Sprintf("Coolant:  %5.1f C", s.CoolantC))
	p.voltageText.SetText(fmt.Sprintf("Voltage:  %5.1f V", s.Voltage))
}

func (p *Panel) refreshLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.app.QueueUpdateDraw(func() {})
		}
	}
}
