//go:build tinygo && nrf52840

package main

import (
	"machine"
	"time"
)

// Modem power-key timing
const (
	powerKeyPulse = time.Second
	modemBootTime = 10 * time.Second
)

// modemPower drives the A9G PWR_KEY and LOW_POWER lines
type modemPower struct {
	key   machine.Pin
	sleep machine.Pin
}

func newModemPower(key, sleep machine.Pin) *modemPower {
	key.Configure(machine.PinConfig{Mode: machine.PinOutput})
	sleep.Configure(machine.PinConfig{Mode: machine.PinOutput})
	key.Low()
	sleep.High()
	return &modemPower{key: key, sleep: sleep}
}

// PowerOn holds the modem in low power, pulses the power key and waits
// for it to boot
func (p *modemPower) PowerOn() {
	p.sleep.High()
	p.key.High()
	time.Sleep(powerKeyPulse)
	p.key.Low()
	time.Sleep(modemBootTime)
	p.sleep.Low()
}

func (p *modemPower) Wake() {
	p.sleep.Low()
}

func (p *modemPower) Sleep() {
	p.sleep.High()
}

// button is an active-low push button with the internal pull-up enabled
type button struct {
	pin machine.Pin
}

func newButton(pin machine.Pin) *button {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &button{pin: pin}
}

func (b *button) Pressed() bool {
	return !b.pin.Get()
}
