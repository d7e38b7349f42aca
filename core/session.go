package core

import (
	"time"

	"sphere/config"
	"sphere/protocol"
)

// RetryPolicy bounds a retry-until-acknowledged loop. MaxAttempts of zero
// retries forever, which is how the band behaves at power-up: nothing else
// works without the modem.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// exhausted reports whether attempt was the last one allowed
func (p RetryPolicy) exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt >= p.MaxAttempts
}

// InboundHandler receives the modem events that need more than a single
// command in reply
type InboundHandler interface {
	LocationRequested() error
	BatteryRequested() error
}

// CommandSession owns the modem dialogue: readiness probing, the one-shot
// configuration and the replies to unsolicited lines
type CommandSession struct {
	t     *ModemTransport
	ctx   *Context
	retry RetryPolicy

	readyWindow   time.Duration
	configWindow  time.Duration
	batteryWindow time.Duration
	ringLocates   bool
}

// NewCommandSession creates a session from the modem section of cfg
func NewCommandSession(t *ModemTransport, ctx *Context, cfg *config.Config) *CommandSession {
	return &CommandSession{
		t:   t,
		ctx: ctx,
		retry: RetryPolicy{
			MaxAttempts: cfg.ReadyMaxAttempts,
			Backoff:     config.Ms(cfg.ReadyBackoffMs),
		},
		readyWindow:   config.Ms(cfg.ReadyWindowMs),
		configWindow:  config.Ms(cfg.ConfigWindowMs),
		batteryWindow: config.Ms(cfg.BatteryWindowMs),
		ringLocates:   cfg.RingSendsLocation,
	}
}

// SetRetryPolicy replaces the readiness retry policy
func (s *CommandSession) SetRetryPolicy(p RetryPolicy) {
	s.retry = p
}

// EnsureReady probes the modem with AT until a reply contains OK. Under a
// bounded policy it gives up with ErrModemUnresponsive.
func (s *CommandSession) EnsureReady() error {
	for attempt := 1; ; attempt++ {
		reply, err := s.t.Transact(protocol.CmdAttention, s.readyWindow)
		if err != nil {
			return err
		}
		if protocol.Acknowledged(reply) {
			DebugPrintln("[MODEM] ready after " + itoa(attempt) + " attempt(s)")
			return nil
		}
		RecordEvent(EvtModemNotReady, Millis(s.t.clock.Now()), int32(attempt))
		DebugPrintln("[MODEM] trying to connect, attempt " + itoa(attempt))
		if s.retry.exhausted(attempt) {
			return ErrModemUnresponsive
		}
		if s.retry.Backoff > 0 {
			s.t.clock.Sleep(s.retry.Backoff)
		}
	}
}

// ConfigureOnce issues the setup sequence, one transaction per command in
// order. Replies are not inspected.
func (s *CommandSession) ConfigureOnce() error {
	for _, cmd := range protocol.ConfigSequence {
		if _, err := s.t.Transact(cmd, s.configWindow); err != nil {
			return err
		}
	}
	return nil
}

// Answer picks up an incoming call
func (s *CommandSession) Answer() error {
	if err := s.t.Send(protocol.CmdAnswer); err != nil {
		return err
	}
	s.ctx.SetCallActive(true)
	DebugPrintln("[MODEM] auto-answering the call")
	return nil
}

// HangUp ends the current call and clears the call-in-progress flag
func (s *CommandSession) HangUp() error {
	s.ctx.SetCallActive(false)
	RecordEvent(EvtCallEnded, Millis(s.t.clock.Now()), 0)
	DebugPrintln("[MODEM] ending the call")
	return s.t.Send(protocol.CmdHangup)
}

// BatteryStatus queries the charge level, retrying until the modem
// acknowledges. It returns the level field of the reply.
func (s *CommandSession) BatteryStatus() (string, error) {
	window := s.batteryWindow
	for attempt := 1; ; attempt++ {
		reply, err := s.t.Transact(protocol.CmdBattery, window)
		if err != nil {
			return "", err
		}
		if protocol.Acknowledged(reply) {
			return protocol.ParseBattery(reply), nil
		}
		DebugPrintln("[MODEM] trying to get battery status")
		if s.retry.exhausted(attempt) {
			return "", ErrBatteryUnavailable
		}
		window = s.readyWindow
	}
}

// HandleInbound reacts to one classified modem line
func (s *CommandSession) HandleInbound(ev protocol.InboundEvent, h InboundHandler) error {
	if ev.Kind != protocol.InboundUnknown {
		RecordEvent(EvtInbound, Millis(s.t.clock.Now()), int32(ev.Kind))
	}

	switch ev.Kind {
	case protocol.InboundRing:
		if err := s.Answer(); err != nil {
			return err
		}
		if s.ringLocates {
			return h.LocationRequested()
		}
		return nil
	case protocol.InboundNoCarrier:
		return s.HangUp()
	case protocol.InboundSendLocation:
		return h.LocationRequested()
	case protocol.InboundBatteryQuery:
		return h.BatteryRequested()
	case protocol.InboundUnknown:
		return nil
	}
	return nil
}
