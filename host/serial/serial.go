// Package serial opens the host-side UART connection to an A9G modem board.
package serial

import (
	"errors"
	"io"
)

// Port is a modem UART. Flush discards bytes the modem sent before the
// port was attached, such as its power-on banner.
type Port interface {
	io.ReadWriteCloser
	Flush() error
}

// Config holds the modem UART settings
type Config struct {
	Device      string // e.g. /dev/ttyUSB0 or COM3
	Baud        int
	ReadTimeout int // milliseconds, 0 blocks
}

// DefaultConfig returns the A9G factory serial settings
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 50,
	}
}

// Validate rejects settings the modem UART cannot be opened with
func (c *Config) Validate() error {
	switch {
	case c == nil:
		return errors.New("serial: config cannot be nil")
	case c.Device == "":
		return errors.New("serial: device is required")
	case c.Baud <= 0:
		return errors.New("serial: baud must be positive")
	case c.ReadTimeout < 0:
		return errors.New("serial: read timeout cannot be negative")
	}
	return nil
}
