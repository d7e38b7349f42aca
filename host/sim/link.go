package sim

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"sphere/ble"
)

// Link stands in for the radio: commands are delivered from the console and
// notifications are logged
type Link struct {
	logger *zap.Logger
	queue  ble.CommandQueue

	connected   atomic.Bool
	advertising bool

	mu        sync.Mutex
	published []string
}

// NewLink creates a link that reports through logger. A nil logger discards.
func NewLink(logger *zap.Logger) *Link {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Link{logger: logger}
}

func (l *Link) Start() error {
	l.advertising = true
	l.logger.Info("wireless link started")
	return nil
}

func (l *Link) SetAdvertising(on bool) error {
	if on != l.advertising {
		l.logger.Info("advertising changed", zap.Bool("on", on))
	}
	l.advertising = on
	return nil
}

// Advertising reports the last state requested by the controller
func (l *Link) Advertising() bool {
	return l.advertising
}

func (l *Link) Poll() error { return nil }

// Connect simulates a companion connecting
func (l *Link) Connect() { l.connected.Store(true) }

// Disconnect simulates the companion leaving
func (l *Link) Disconnect() { l.connected.Store(false) }

func (l *Link) Connected() bool {
	return l.connected.Load()
}

// Deliver queues a command as if the companion wrote it. It must only be
// called from one goroutine.
func (l *Link) Deliver(payload string) bool {
	return l.queue.Push([]byte(payload))
}

func (l *Link) NextCommand() ([]byte, bool) {
	return l.queue.Pop()
}

func (l *Link) Publish(msg string) error {
	l.logger.Info("notify", zap.String("value", msg))
	l.mu.Lock()
	l.published = append(l.published, msg)
	l.mu.Unlock()
	return nil
}

// Published returns every notification sent so far
func (l *Link) Published() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.published...)
}
