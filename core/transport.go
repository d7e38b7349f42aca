package core

import (
	"time"

	"sphere/protocol"
)

// DefaultPollInterval is how long the transport sleeps when no byte is waiting
const DefaultPollInterval = time.Millisecond

// ModemTransport runs modem transactions over a ModemPort. A transaction
// writes one command line and then collects every byte that arrives until a
// fixed window has elapsed, however early the reply completes. The caller
// is blocked for the whole window.
type ModemTransport struct {
	port  ModemPort
	clock Clock
	poll  time.Duration
}

// NewModemTransport creates a transport. A zero poll uses DefaultPollInterval.
func NewModemTransport(port ModemPort, clock Clock, poll time.Duration) *ModemTransport {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &ModemTransport{port: port, clock: clock, poll: poll}
}

// Transact sends cmd and returns everything received within window of the
// call starting
func (t *ModemTransport) Transact(cmd string, window time.Duration) (string, error) {
	deadline := t.clock.Now() + window
	if err := t.Send(cmd); err != nil {
		return "", err
	}
	return t.collectUntil(deadline), nil
}

// Send writes cmd followed by the line terminator without waiting for a reply
func (t *ModemTransport) Send(cmd string) error {
	RecordEvent(EvtModemTx, Millis(t.clock.Now()), int32(len(cmd)))
	DebugPrintln("[MODEM] > " + quote(cmd))
	_, err := t.port.Write([]byte(cmd + protocol.LineTerminator))
	return err
}

// Collect accumulates received bytes for window
func (t *ModemTransport) Collect(window time.Duration) string {
	return t.collectUntil(t.clock.Now() + window)
}

func (t *ModemTransport) collectUntil(deadline time.Duration) string {
	var buf []byte
	for t.clock.Now() < deadline {
		n := len(buf)
		buf = t.drain(buf, -1)
		if len(buf) == n {
			t.clock.Sleep(t.poll)
		}
	}
	RecordEvent(EvtModemRx, Millis(t.clock.Now()), int32(len(buf)))
	if len(buf) > 0 {
		DebugPrintln("[MODEM] < " + quote(string(buf)))
	}
	return string(buf)
}

// ReadAvailable copies already-received bytes into p without waiting and
// returns how many were copied
func (t *ModemTransport) ReadAvailable(p []byte) int {
	return len(t.drain(p[:0], len(p)))
}

// drain appends buffered bytes to buf, at most limit of them when limit >= 0
func (t *ModemTransport) drain(buf []byte, limit int) []byte {
	for n := 0; limit < 0 || n < limit; n++ {
		if t.port.Buffered() == 0 {
			break
		}
		b, err := t.port.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
	}
	return buf
}
