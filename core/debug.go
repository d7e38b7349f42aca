package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a controller event for post-mortem analysis
type Event struct {
	Kind  uint8  // Event type code
	Clock uint32 // Controller time in milliseconds
	Value int32  // Context-dependent value
}

// Event type codes
const (
	EvtModemTx       = 1  // command written to the modem
	EvtModemRx       = 2  // reply window closed, value = bytes collected
	EvtConfirm       = 3  // confirm countdown started
	EvtCancel        = 4  // countdown cancelled, value = units remaining
	EvtTrigger       = 5  // emergency declared, value = source
	EvtText          = 6  // text message sent, value = body length
	EvtCall          = 7  // voice call placed
	EvtCallEnded     = 8  // call ended by the network
	EvtNoContact     = 9  // wrist contact lost
	EvtBeat          = 10 // beat admitted, value = bpm
	EvtRecipient     = 11 // recipient number replaced
	EvtInbound       = 12 // classified modem line, value = kind
	EvtWireless      = 13 // wireless advertising toggled, value = 1 if on
	EvtModemNotReady = 14 // readiness probe failed, value = attempt
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]Event
	eventRingHead uint8        // Next write position
	eventsEnabled bool  = true // Always capture events
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer
func RecordEvent(kind uint8, clock uint32, value int32) {
	if !eventsEnabled {
		return
	}
	idx := eventRingHead
	eventRing[idx] = Event{Kind: kind, Clock: clock, Value: value}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns the dump label for an event type code
func EventName(kind uint8) string {
	switch kind {
	case EvtModemTx:
		return "MODEM_TX"
	case EvtModemRx:
		return "MODEM_RX"
	case EvtConfirm:
		return "CONFIRM"
	case EvtCancel:
		return "CANCEL"
	case EvtTrigger:
		return "TRIGGER!"
	case EvtText:
		return "TEXT"
	case EvtCall:
		return "CALL"
	case EvtCallEnded:
		return "CALL_END"
	case EvtNoContact:
		return "NO_CONTACT"
	case EvtBeat:
		return "BEAT"
	case EvtRecipient:
		return "RECIPIENT"
	case EvtInbound:
		return "INBOUND"
	case EvtWireless:
		return "WIRELESS"
	case EvtModemNotReady:
		return "NOT_READY"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring buffer (call on shutdown/error).
// It writes even when debug output is disabled.
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENTS] " + EventName(evt.Kind) +
			" t=" + utoa(evt.Clock) +
			" v=" + itoa(int(evt.Value)))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
