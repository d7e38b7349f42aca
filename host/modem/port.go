// Package modem adapts a host serial connection to the byte-level port the
// controller core expects from a UART.
package modem

import (
	"errors"
	"io"
	"sync"
	"time"

	"sphere/protocol"
)

// ErrEmpty is returned by ReadByte when nothing has been received
var ErrEmpty = errors.New("modem: no data buffered")

// Port reads the serial connection in the background into a FIFO, so the
// controller can poll Buffered and ReadByte without blocking
type Port struct {
	// Serial I/O
	port io.ReadWriteCloser

	// Received bytes not yet consumed
	input *protocol.FifoBuffer
	mu    sync.Mutex

	// Bytes lost because the FIFO was full
	overflow int

	// Stop channel for graceful shutdown
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewPort starts reading from port. capacity bounds the receive FIFO.
func NewPort(port io.ReadWriteCloser, capacity int) *Port {
	p := &Port{
		port:     port,
		input:    protocol.NewFifoBuffer(capacity),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}

	// Start background reader
	go p.readLoop()

	return p
}

// Write sends p to the modem
func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Buffered returns the number of received bytes waiting to be read
func (p *Port) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input.Available()
}

// ReadByte returns the oldest received byte
func (p *Port) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.input.IsEmpty() {
		return 0, ErrEmpty
	}
	b := p.input.Data()[0]
	p.input.Pop(1)
	return b, nil
}

// Overflow returns how many received bytes were dropped
func (p *Port) Overflow() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overflow
}

// readLoop continuously reads from the serial port into the FIFO
func (p *Port) readLoop() {
	defer close(p.doneChan)

	buffer := make([]byte, 256)

	for {
		select {
		case <-p.stopChan:
			return
		default:
		}

		n, err := p.port.Read(buffer)
		if n > 0 {
			p.mu.Lock()
			written := p.input.Write(buffer[:n])
			p.overflow += n - written
			p.mu.Unlock()
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			// Read timeouts surface as errors on some platforms
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// Close stops the reader and closes the serial port
func (p *Port) Close() error {
	close(p.stopChan)
	err := p.port.Close()
	<-p.doneChan // Wait for read loop to finish
	return err
}
