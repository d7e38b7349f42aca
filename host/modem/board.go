package modem

import (
	"errors"
	"fmt"
	"time"

	"sphere/core"
	"sphere/host/serial"
)

// ErrNotConnected is returned when a board is used before Connect
var ErrNotConnected = errors.New("modem: not connected")

// receiveCapacity bounds the bytes buffered between controller ticks
const receiveCapacity = 4096

// Board is a USB-attached A9G development board
type Board struct {
	// Polled port and transport layered on the serial connection
	port      *Port
	transport *core.ModemTransport
	clock     core.Clock

	// Connection state
	connected bool
}

// NewBoard creates a new Board instance (not yet connected)
func NewBoard(clock core.Clock) *Board {
	if clock == nil {
		clock = core.NewSystemClock()
	}
	return &Board{
		clock:     clock,
		connected: false,
	}
}

// Connect connects to a board via serial port
func (b *Board) Connect(device string) error {
	return b.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig connects to a board with a custom serial config
func (b *Board) ConnectWithConfig(cfg *serial.Config) error {
	// Open serial port
	conn, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("modem: %w", err)
	}

	// Let the UART settle if the board was just plugged in
	b.clock.Sleep(100 * time.Millisecond)

	if err := b.attach(conn); err != nil {
		conn.Close()
		return fmt.Errorf("modem: %w", err)
	}
	return nil
}

// attach drops whatever the modem printed before the port was opened and
// starts polling it
func (b *Board) attach(conn serial.Port) error {
	if err := conn.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	b.port = NewPort(conn, receiveCapacity)
	b.transport = core.NewModemTransport(b.port, b.clock, core.DefaultPollInterval)
	b.connected = true
	return nil
}

// Close closes the connection to the board
func (b *Board) Close() error {
	if b.port != nil {
		if err := b.port.Close(); err != nil {
			return err
		}
	}
	b.connected = false
	return nil
}

// Port returns the polled port, or nil before Connect
func (b *Board) Port() *Port {
	return b.port
}

// Transport returns the AT transport, or nil before Connect
func (b *Board) Transport() *core.ModemTransport {
	return b.transport
}

// Transact sends one AT command and collects the reply for window
func (b *Board) Transact(cmd string, window time.Duration) (string, error) {
	if !b.connected {
		return "", ErrNotConnected
	}
	return b.transport.Transact(cmd, window)
}

// IsConnected returns whether the board is connected
func (b *Board) IsConnected() bool {
	return b.connected
}
