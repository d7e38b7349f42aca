package sim

import "sync/atomic"

// Button is a push button driven from the console
type Button struct {
	held atomic.Bool
	tap  atomic.Bool
}

// Press holds the button down until Release
func (b *Button) Press() { b.held.Store(true) }

// Release lets go of the button
func (b *Button) Release() { b.held.Store(false) }

// Tap presses the button for exactly one sample
func (b *Button) Tap() { b.tap.Store(true) }

func (b *Button) Pressed() bool {
	return b.held.Load() || b.tap.Swap(false)
}
