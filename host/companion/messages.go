package companion

import "time"

// NotifyMsg carries one heart-rate characteristic notification
type NotifyMsg string

// SentMsg reports the outcome of a command write
type SentMsg struct {
	Command string
	Err     error
}

// TickMsg refreshes the staleness indicator
type TickMsg time.Time
