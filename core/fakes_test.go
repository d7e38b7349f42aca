package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"sphere/config"
	"sphere/protocol"
)

// fakeClock advances only when something sleeps on it
type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration    { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now += d }

// chunk is received data that becomes readable at a given clock time
type chunk struct {
	at   time.Duration
	data []byte
}

// write is one command line written to the modem, terminator removed
type write struct {
	at   time.Duration
	line string
}

// fakeModem is a scripted modem. Written bytes are split into lines; each
// complete line is passed to respond, whose reply becomes readable after
// the returned delay.
type fakeModem struct {
	clock   *fakeClock
	respond func(line string) (reply string, delay time.Duration)

	partial  []byte
	writes   []write
	pending  []chunk
	writeErr error
}

func newFakeModem(clock *fakeClock) *fakeModem {
	return &fakeModem{clock: clock}
}

// replyOK acknowledges every command immediately
func replyOK(line string) (string, time.Duration) {
	return "\r\nOK\r\n", 10 * time.Millisecond
}

func (m *fakeModem) Write(p []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.partial = append(m.partial, p...)
	for {
		s := string(m.partial)
		idx := strings.Index(s, protocol.LineTerminator)
		if idx < 0 {
			break
		}
		line := s[:idx]
		m.partial = m.partial[idx+len(protocol.LineTerminator):]
		m.writes = append(m.writes, write{at: m.clock.now, line: line})
		if m.respond != nil {
			if reply, delay := m.respond(line); reply != "" {
				m.schedule(m.clock.now+delay, reply)
			}
		}
	}
	return len(p), nil
}

// schedule makes data readable at the given time, keeping arrival order
func (m *fakeModem) schedule(at time.Duration, data string) {
	if data == "" {
		return
	}
	i := len(m.pending)
	for i > 0 && m.pending[i-1].at > at {
		i--
	}
	m.pending = append(m.pending, chunk{})
	copy(m.pending[i+1:], m.pending[i:])
	m.pending[i] = chunk{at: at, data: []byte(data)}
}

// inject makes data readable immediately, as an unsolicited line would be
func (m *fakeModem) inject(data string) {
	m.schedule(m.clock.now, data)
}

func (m *fakeModem) Buffered() int {
	n := 0
	for _, c := range m.pending {
		if c.at > m.clock.now {
			break
		}
		n += len(c.data)
	}
	return n
}

func (m *fakeModem) ReadByte() (byte, error) {
	if len(m.pending) == 0 || m.pending[0].at > m.clock.now {
		return 0, errors.New("no data")
	}
	b := m.pending[0].data[0]
	m.pending[0].data = m.pending[0].data[1:]
	if len(m.pending[0].data) == 0 {
		m.pending = m.pending[1:]
	}
	return b, nil
}

func (m *fakeModem) lines() []string {
	out := make([]string, len(m.writes))
	for i, w := range m.writes {
		out[i] = w.line
	}
	return out
}

func (m *fakeModem) count(line string) int {
	n := 0
	for _, w := range m.writes {
		if w.line == line {
			n++
		}
	}
	return n
}

func (m *fakeModem) reset() {
	m.writes = nil
}

type fakePower struct {
	calls []string
}

func (p *fakePower) PowerOn() { p.calls = append(p.calls, "on") }
func (p *fakePower) Wake()    { p.calls = append(p.calls, "wake") }
func (p *fakePower) Sleep()   { p.calls = append(p.calls, "sleep") }

type fakeButton struct {
	held bool
}

func (b *fakeButton) Pressed() bool { return b.held }

type fakeSensor struct {
	probeErr error
	sample   int32
	readErr  error
}

func (s *fakeSensor) Probe() error           { return s.probeErr }
func (s *fakeSensor) ReadIR() (int32, error) { return s.sample, s.readErr }

// fakeBeats reports an edge whenever fire is set
type fakeBeats struct {
	fire bool
}

func (b *fakeBeats) CheckForBeat(int32) bool { return b.fire }

type fakeLink struct {
	started     bool
	advertising bool
	connected   bool
	commands    [][]byte
	published   []string
}

func (l *fakeLink) Start() error {
	l.started = true
	l.advertising = true
	return nil
}

func (l *fakeLink) SetAdvertising(on bool) error {
	l.advertising = on
	return nil
}

func (l *fakeLink) Poll() error    { return nil }
func (l *fakeLink) Connected() bool { return l.connected }

func (l *fakeLink) NextCommand() ([]byte, bool) {
	if len(l.commands) == 0 {
		return nil, false
	}
	cmd := l.commands[0]
	l.commands = l.commands[1:]
	return cmd, true
}

func (l *fakeLink) Publish(msg string) error {
	l.published = append(l.published, msg)
	return nil
}

func (l *fakeLink) write(payload string) {
	l.commands = append(l.commands, []byte(payload))
}

type text struct {
	recipient string
	body      string
}

// recordingNotifier captures alerts without touching a modem
type recordingNotifier struct {
	texts []text
	calls []string
}

func (n *recordingNotifier) SendText(recipient, body string) error {
	n.texts = append(n.texts, text{recipient, body})
	return nil
}

func (n *recordingNotifier) PlaceCall(recipient string) error {
	n.calls = append(n.calls, recipient)
	return nil
}

type fixedLocator struct {
	fix   protocol.LocationFix
	calls int
}

func (l *fixedLocator) Resolve() protocol.LocationFix {
	l.calls++
	return l.fix
}

// locationReply is a modem reply whose coordinate window holds window
func locationReply(window string) string {
	return strings.Repeat("x", protocol.LocationWindowStart) + window
}

// testConfig is the default configuration
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.Default()
}
