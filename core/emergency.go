package core

import (
	"time"

	"sphere/config"
	"sphere/protocol"
)

// Source identifies what declared an emergency
type Source uint8

const (
	SourceButton   Source = iota + 1 // confirmed button hold
	SourceWireless                   // SOS written by the companion app
	SourceModem                      // location request texted to the band
)

func (s Source) String() string {
	switch s {
	case SourceButton:
		return "button"
	case SourceWireless:
		return "wireless"
	case SourceModem:
		return "modem"
	default:
		return "none"
	}
}

// State of the emergency workflow
type State uint8

const (
	StateIdle State = iota
	StateConfirming
	StateNotifying
)

func (s State) String() string {
	switch s {
	case StateConfirming:
		return "confirming"
	case StateNotifying:
		return "notifying"
	default:
		return "idle"
	}
}

// EmergencySession describes the emergency being handled. It exists only
// outside the idle state.
type EmergencySession struct {
	Source    Source
	Remaining int           // confirm units left while confirming
	Started   time.Duration // clock time the session began
	PlaceCall bool
}

// EmergencyWorkflow turns button holds and remote triggers into a location
// text and, for a real emergency, a voice call. A button press must be held
// for the confirm duration; releasing early cancels without notifying.
type EmergencyWorkflow struct {
	clock  Clock
	ctx    *Context
	locate Locator
	notify Notifier
	power  ModemPower

	units int
	unit  time.Duration

	state     State
	session   *EmergencySession
	unitStart time.Duration
	armed     bool
}

// NewEmergencyWorkflow creates an idle workflow. power may be nil.
func NewEmergencyWorkflow(clock Clock, ctx *Context, locate Locator, notify Notifier, power ModemPower, cfg *config.Config) *EmergencyWorkflow {
	return &EmergencyWorkflow{
		clock:  clock,
		ctx:    ctx,
		locate: locate,
		notify: notify,
		power:  power,
		units:  cfg.ConfirmUnits,
		unit:   config.Ms(cfg.ConfirmUnitMs),
		armed:  true,
	}
}

// State returns the current state
func (w *EmergencyWorkflow) State() State {
	return w.state
}

// Session returns a copy of the active session, if any
func (w *EmergencyWorkflow) Session() (EmergencySession, bool) {
	if w.session == nil {
		return EmergencySession{}, false
	}
	return *w.session, true
}

// Disarm ignores the button until it has been seen released
func (w *EmergencyWorkflow) Disarm() {
	w.armed = false
}

// PressStarted begins the confirm countdown
func (w *EmergencyWorkflow) PressStarted() {
	if w.state != StateIdle {
		return
	}
	now := w.clock.Now()
	w.state = StateConfirming
	w.session = &EmergencySession{
		Source:    SourceButton,
		Remaining: w.units,
		Started:   now,
		PlaceCall: true,
	}
	w.unitStart = now
	w.armed = false
	RecordEvent(EvtConfirm, Millis(now), int32(w.units))
	DebugPrintln("[SOS] triggered, calling in " + itoa(w.units))
}

// Tick advances the workflow with the current button level
func (w *EmergencyWorkflow) Tick(held bool) error {
	switch w.state {
	case StateIdle:
		if !held {
			w.armed = true
			return nil
		}
		if w.armed {
			w.PressStarted()
		}
		return nil

	case StateConfirming:
		if !held {
			RecordEvent(EvtCancel, Millis(w.clock.Now()), int32(w.session.Remaining))
			DebugPrintln("[SOS] released, cancelled")
			w.finish()
			w.armed = true
			return nil
		}
		for w.session.Remaining > 0 && w.clock.Now()-w.unitStart >= w.unit {
			w.session.Remaining--
			w.unitStart += w.unit
			if w.session.Remaining > 0 {
				DebugPrintln("[SOS] " + itoa(w.session.Remaining))
			}
		}
		if w.session.Remaining == 0 {
			return w.respond()
		}
		return nil

	case StateNotifying:
		return nil
	}
	return nil
}

// TriggerRemote declares an emergency without a confirm hold. A pending
// countdown is superseded by the remote trigger.
func (w *EmergencyWorkflow) TriggerRemote(source Source, placeCall bool) error {
	if w.state == StateNotifying {
		return ErrBusy
	}
	if w.state == StateConfirming {
		DebugPrintln("[SOS] countdown superseded by " + source.String())
	}
	w.state = StateIdle
	w.session = &EmergencySession{
		Source:    source,
		Started:   w.clock.Now(),
		PlaceCall: placeCall,
	}
	return w.respond()
}

// respond runs the notifying state to completion and returns to idle
// whatever the outcome
func (w *EmergencyWorkflow) respond() error {
	w.state = StateNotifying
	s := w.session
	RecordEvent(EvtTrigger, Millis(w.clock.Now()), int32(s.Source))
	DebugPrintln("[SOS] emergency from " + s.Source.String())

	body := protocol.LocationUnavailable
	if fix := w.locate.Resolve(); fix.Available {
		body = protocol.MapLink(fix)
	}

	recipient := w.ctx.Recipient()
	err := w.notify.SendText(recipient, body)
	if s.PlaceCall {
		if callErr := w.notify.PlaceCall(recipient); err == nil {
			err = callErr
		}
	} else if w.power != nil && !w.ctx.CallActive() {
		w.power.Sleep()
	}

	w.finish()
	return err
}

func (w *EmergencyWorkflow) finish() {
	w.state = StateIdle
	w.session = nil
}
