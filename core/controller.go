package core

import (
	"sphere/config"
	"sphere/protocol"
)

// Wireless channel messages
const (
	MsgBPMPrefix = "BPM: "
	MsgNoContact = "No wrist detected"
)

// lineCapacity bounds one modem line; longer lines are split
const lineCapacity = 256

// Controller is the band's control loop. Boot brings the modem and sensor
// up once; Tick then services every input in a fixed order.
type Controller struct {
	cfg *config.Config
	hw  Hardware
	ctx *Context

	transport *ModemTransport
	session   *CommandSession
	locator   *LocationResolver
	sink      *NotificationSink
	workflow  *EmergencyWorkflow
	vitals    *VitalMonitor

	lines        *protocol.LineBuffer
	scratch      [64]byte
	wirelessHeld bool
}

// NewController wires the components around hw. It panics when a mandatory
// collaborator other than the modem port is missing.
func NewController(cfg *config.Config, hw Hardware) (*Controller, error) {
	if hw.Modem == nil {
		return nil, ErrNoModemPort
	}
	hw.mustHave()
	if hw.Clock == nil {
		hw.Clock = NewSystemClock()
	}

	c := &Controller{
		cfg:   cfg,
		hw:    hw,
		ctx:   NewContext(cfg.Recipient),
		lines: protocol.NewLineBuffer(lineCapacity),
	}
	c.transport = NewModemTransport(hw.Modem, hw.Clock, config.Ms(cfg.PollIntervalMs))
	c.session = NewCommandSession(c.transport, c.ctx, cfg)
	c.locator = NewLocationResolver(c.transport, hw.Power, cfg)
	c.sink = NewNotificationSink(c.transport, c.ctx, cfg)
	c.workflow = NewEmergencyWorkflow(hw.Clock, c.ctx, c.locator, c.sink, hw.Power, cfg)
	c.vitals = NewVitalMonitor(hw.Clock, hw.Beats, cfg)
	return c, nil
}

// Context returns the shared controller state
func (c *Controller) Context() *Context { return c.ctx }

// Workflow returns the emergency workflow
func (c *Controller) Workflow() *EmergencyWorkflow { return c.workflow }

// Vitals returns the vital monitor
func (c *Controller) Vitals() *VitalMonitor { return c.vitals }

// Session returns the modem command session
func (c *Controller) Session() *CommandSession { return c.session }

// Boot powers the modem, waits for it, configures it, announces readiness,
// then probes the sensor and opens the wireless channel. A sensor that does
// not answer is fatal.
func (c *Controller) Boot() error {
	if c.hw.Power != nil {
		c.hw.Power.PowerOn()
		c.hw.Power.Wake()
	}
	if err := c.session.EnsureReady(); err != nil {
		return err
	}
	if err := c.session.ConfigureOnce(); err != nil {
		return err
	}
	if c.cfg.SendReadyMessage {
		if err := c.sink.SendText(c.ctx.Recipient(), c.cfg.ReadyMessage); err != nil {
			return err
		}
	}
	if c.hw.Power != nil {
		c.hw.Power.Sleep()
	}

	if err := c.hw.Sensor.Probe(); err != nil {
		return withCause(ErrSensorUnavailable, err)
	}

	if c.hw.Link != nil {
		if err := c.hw.Link.Start(); err != nil {
			return err
		}
		c.ctx.SetWirelessActive(true)
		DebugPrintln("[BLE] waiting for a client to connect")
	}
	return nil
}

// Tick runs one pass of the control loop. Every stage runs even if an
// earlier one failed; the first error is returned.
func (c *Controller) Tick() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	keep(c.pollWirelessKey())
	keep(c.pollEmergencyButton())
	keep(c.pollModem())
	keep(c.pollCommands())
	keep(c.pollVitals())
	return first
}

func (c *Controller) pollWirelessKey() error {
	if c.hw.WirelessKey == nil || c.hw.Link == nil {
		return nil
	}
	held := c.hw.WirelessKey.Pressed()
	pressed := held && !c.wirelessHeld
	c.wirelessHeld = held
	if !pressed {
		return nil
	}

	on := !c.ctx.WirelessActive()
	if err := c.hw.Link.SetAdvertising(on); err != nil {
		return err
	}
	c.ctx.SetWirelessActive(on)
	var v int32
	if on {
		v = 1
		DebugPrintln("[BLE] turned ON")
	} else {
		DebugPrintln("[BLE] turned OFF")
	}
	RecordEvent(EvtWireless, Millis(c.hw.Clock.Now()), v)
	return nil
}

func (c *Controller) pollEmergencyButton() error {
	if c.ctx.CallActive() {
		c.workflow.Disarm()
		return nil
	}
	return c.workflow.Tick(c.hw.SOS.Pressed())
}

func (c *Controller) pollModem() error {
	for {
		n := c.transport.ReadAvailable(c.scratch[:])
		if n == 0 {
			break
		}
		c.lines.Feed(c.scratch[:n])
		if err := c.drainLines(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) drainLines() error {
	for {
		line, ok := c.lines.Next()
		if !ok {
			return nil
		}
		ev := protocol.ClassifyInbound(line)
		if ev.Kind != protocol.InboundUnknown {
			DebugPrintln("[MODEM] inbound " + ev.Kind.String())
		}
		if err := c.session.HandleInbound(ev, c); err != nil {
			return err
		}
	}
}

// LocationRequested answers a texted location request with a map link and
// no call
func (c *Controller) LocationRequested() error {
	return c.workflow.TriggerRemote(SourceModem, false)
}

// BatteryRequested texts the battery level to the recipient
func (c *Controller) BatteryRequested() error {
	if c.hw.Power != nil {
		c.hw.Power.Wake()
	}
	level, err := c.session.BatteryStatus()
	if err != nil {
		return err
	}
	err = c.sink.SendText(c.ctx.Recipient(), protocol.BatteryPrefix+level)
	if c.hw.Power != nil && !c.ctx.CallActive() {
		c.hw.Power.Sleep()
	}
	return err
}

func (c *Controller) pollCommands() error {
	if c.hw.Link == nil {
		return nil
	}
	first := c.hw.Link.Poll()
	for {
		payload, ok := c.hw.Link.NextCommand()
		if !ok {
			return first
		}
		if err := c.handleCommand(protocol.ParseCommand(payload)); err != nil && first == nil {
			first = err
		}
	}
}

func (c *Controller) handleCommand(cmd protocol.WirelessCommand) error {
	switch cmd.Kind {
	case protocol.CommandSOS:
		return c.workflow.TriggerRemote(SourceWireless, true)
	case protocol.CommandSetNumber:
		c.ctx.SetRecipient(cmd.Number)
		RecordEvent(EvtRecipient, Millis(c.hw.Clock.Now()), int32(len(cmd.Number)))
		DebugPrintln("[BLE] updated SOS number: " + cmd.Number)
	case protocol.CommandInvalidNumber:
		DebugPrintln("[BLE] rejected malformed SOS number")
	case protocol.CommandUnknown:
	}
	return nil
}

func (c *Controller) pollVitals() error {
	if !c.cfg.SampleWithoutClient && (c.hw.Link == nil || !c.hw.Link.Connected()) {
		return nil
	}
	sample, err := c.hw.Sensor.ReadIR()
	if err != nil {
		return err
	}
	d := c.vitals.Ingest(sample)
	if c.hw.Link == nil {
		return nil
	}
	switch d.Kind {
	case BeatDetected:
		return c.hw.Link.Publish(MsgBPMPrefix + itoa(d.Average))
	case NoContact:
		if d.Transition {
			return c.hw.Link.Publish(MsgNoContact)
		}
	case NoBeat:
	}
	return nil
}
