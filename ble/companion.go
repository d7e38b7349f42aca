//go:build !tinygo

package ble

import (
	"errors"
	"time"

	"tinygo.org/x/bluetooth"
)

// ErrBandNotFound is returned when no band advertises within the scan timeout
var ErrBandNotFound = errors.New("ble: band not found")

// Companion is the central side of the control channel, as the caregiver
// app sees it. The host tools use it to drive a band from a workstation.
type Companion struct {
	adapter   *bluetooth.Adapter
	device    bluetooth.Device
	command   bluetooth.DeviceCharacteristic
	heartRate bluetooth.DeviceCharacteristic
}

// Dial scans for a band advertising name and connects to it
func Dial(adapter *bluetooth.Adapter, name string, timeout time.Duration) (*Companion, error) {
	if err := adapter.Enable(); err != nil {
		return nil, err
	}

	found := make(chan bluetooth.ScanResult, 1)
	go func() {
		adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
			if result.LocalName() != name {
				return
			}
			select {
			case found <- result:
			default:
			}
			a.StopScan()
		})
	}()

	var result bluetooth.ScanResult
	select {
	case result = <-found:
	case <-time.After(timeout):
		adapter.StopScan()
		return nil, ErrBandNotFound
	}

	device, err := adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, err
	}
	c := &Companion{adapter: adapter, device: device}
	if err := c.discover(); err != nil {
		device.Disconnect()
		return nil, err
	}
	return c, nil
}

func (c *Companion) discover() error {
	services, err := c.device.DiscoverServices([]bluetooth.UUID{ServiceUUID})
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return errors.New("ble: control service missing")
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{CommandUUID, HeartRateUUID})
	if err != nil {
		return err
	}
	var haveCommand, haveHeartRate bool
	for _, ch := range chars {
		switch ch.UUID() {
		case CommandUUID:
			c.command, haveCommand = ch, true
		case HeartRateUUID:
			c.heartRate, haveHeartRate = ch, true
		}
	}
	if !haveCommand || !haveHeartRate {
		return errors.New("ble: control characteristics missing")
	}
	return nil
}

// Subscribe delivers every heart-rate notification to fn
func (c *Companion) Subscribe(fn func(msg string)) error {
	return c.heartRate.EnableNotifications(func(buf []byte) {
		fn(string(buf))
	})
}

// Send writes one command, such as "SOS" or "NUMBER:+15550001111"
func (c *Companion) Send(cmd string) error {
	if len(cmd) > MaxPayload {
		return errors.New("ble: command too long")
	}
	_, err := c.command.WriteWithoutResponse([]byte(cmd))
	return err
}

// Close disconnects from the band
func (c *Companion) Close() error {
	return c.device.Disconnect()
}
