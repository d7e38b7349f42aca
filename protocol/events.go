package protocol

import "strings"

// InboundKind classifies an unsolicited line received from the modem
type InboundKind uint8

const (
	InboundUnknown InboundKind = iota
	InboundRing                // incoming voice call
	InboundNoCarrier           // call ended
	InboundSendLocation        // remote party asked for the wearer's location
	InboundBatteryQuery        // remote party asked for the battery level
)

func (k InboundKind) String() string {
	switch k {
	case InboundRing:
		return "ring"
	case InboundNoCarrier:
		return "no-carrier"
	case InboundSendLocation:
		return "send-location"
	case InboundBatteryQuery:
		return "battery-query"
	default:
		return "unknown"
	}
}

// InboundEvent is a classified modem line
type InboundEvent struct {
	Kind InboundKind
	Line string // line as received, terminators stripped
}

// ClassifyInbound maps one modem line to its event kind. Matching is exact
// after stripping line terminators; the keyword phrases arrive as the body
// of a forwarded text message and are accepted in upper or lower case as the
// caregiver app sends them.
func ClassifyInbound(line string) InboundEvent {
	line = strings.TrimRight(line, "\r\n")
	ev := InboundEvent{Line: line}
	switch line {
	case TokenRing:
		ev.Kind = InboundRing
	case TokenNoCarrier:
		ev.Kind = InboundNoCarrier
	case "SEND LOCATION", "send location":
		ev.Kind = InboundSendLocation
	case "BATTERY?":
		ev.Kind = InboundBatteryQuery
	}
	return ev
}

// CommandKind classifies a payload written to the wireless command characteristic
type CommandKind uint8

const (
	CommandUnknown CommandKind = iota
	CommandSOS                 // immediate emergency, no confirmation hold
	CommandSetNumber           // replace the recipient number
	CommandInvalidNumber       // NUMBER: prefix with a malformed number
)

func (k CommandKind) String() string {
	switch k {
	case CommandSOS:
		return "sos"
	case CommandSetNumber:
		return "set-number"
	case CommandInvalidNumber:
		return "invalid-number"
	default:
		return "unknown"
	}
}

// Wireless command payloads
const (
	CommandPayloadSOS = "SOS"
	NumberPrefix      = "NUMBER:" // introduces a recipient number update
)

// WirelessCommand is a classified wireless payload
type WirelessCommand struct {
	Kind   CommandKind
	Number string // set for CommandSetNumber
}

// ParseCommand classifies a raw wireless payload. SOS must match exactly;
// a number update is the NUMBER: prefix followed by digits, optionally
// preceded by a single '+'.
func ParseCommand(payload []byte) WirelessCommand {
	s := string(payload)
	if s == CommandPayloadSOS {
		return WirelessCommand{Kind: CommandSOS}
	}
	if strings.HasPrefix(s, NumberPrefix) {
		number := strings.TrimSpace(s[len(NumberPrefix):])
		if !ValidNumber(number) {
			return WirelessCommand{Kind: CommandInvalidNumber}
		}
		return WirelessCommand{Kind: CommandSetNumber, Number: number}
	}
	return WirelessCommand{Kind: CommandUnknown}
}

// ValidNumber reports whether s is a dialable number: digits with an optional
// leading '+'.
func ValidNumber(s string) bool {
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
