package core

import "time"

// Clock is the time source for every blocking wait in the controller.
// Now is monotonic time since an arbitrary epoch; Sleep blocks the caller.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

// SystemClock reads the platform monotonic timer
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock returns a clock whose epoch is the moment of the call
func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

// Now returns the time elapsed since the clock was created
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.epoch)
}

// Sleep blocks for d
func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Millis returns t as whole milliseconds, the unit used in the event ring
func Millis(t time.Duration) uint32 {
	return uint32(t / time.Millisecond)
}
