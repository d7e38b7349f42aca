// Package protocol implements the text command protocol spoken by the A9G
// cellular/GPS modem and the payload grammar of the wireless control channel.
//
// Commands are plain ASCII lines terminated by CRLF. Replies are collected in
// fixed time windows by the caller and handed to this package as raw text;
// nothing here performs I/O.
package protocol

// Version represents the Sphere firmware version
const Version = "0.3.0"

// Line framing
const (
	LineTerminator = "\r\n"
	CtrlZ          = "\x1A" // terminates a text message body
)

// Result codes and unsolicited lines
const (
	TokenOK        = "OK"
	TokenRing      = "RING"
	TokenNoCarrier = "NO CARRIER"
	TokenNoFix     = "GPS NOT"
)

// Modem commands
const (
	CmdAttention     = "AT"
	CmdGPSOn         = "AT+GPS=1"
	CmdGPSLowPower   = "AT+GPSLP=2"
	CmdSleepOn       = "AT+SLEEP=1"
	CmdTextMode      = "AT+CMGF=1"
	CmdTextParams    = "AT+CSMP=17,167,0,0"
	CmdStorage       = `AT+CPMS="SM","ME","SM"`
	CmdAudioPath     = "AT+SNFS=2"
	CmdSpeakerVolume = "AT+CLVL=8"
	CmdLocateGPS     = "AT+LOCATION=2"
	CmdLocateNetwork = "AT+LOCATION=1"
	CmdBattery       = "AT+CBC?"
	CmdAnswer        = "ATA"
	CmdHangup        = "ATH"
	CmdDeleteAll     = "AT+CMGD=1,4"
	cmdDialPrefix    = "ATD"
	cmdSendPrefix    = "AT+CMGS="
)

// ConfigSequence is the ordered one-shot modem setup issued after the modem
// first acknowledges. Order matters: text mode must precede the message
// parameters and storage selection.
var ConfigSequence = []string{
	CmdGPSOn,
	CmdGPSLowPower,
	CmdSleepOn,
	CmdTextMode,
	CmdTextParams,
	CmdStorage,
	CmdAudioPath,
	CmdSpeakerVolume,
}

// DialCommand returns the voice dial command for number.
func DialCommand(number string) string {
	return cmdDialPrefix + number
}

// SendMessageCommand opens a text message addressed to number. The A9G wants
// an extra carriage return after the quoted number before it prompts.
func SendMessageCommand(number string) string {
	return cmdSendPrefix + `"` + number + `"` + "\r"
}
