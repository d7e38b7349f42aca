package core

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/warthog618/sms/encoding/gsm7"

	"sphere/config"
	"sphere/protocol"
)

// Notifier delivers alerts to the recipient
type Notifier interface {
	SendText(recipient, body string) error
	PlaceCall(recipient string) error
}

// NotificationSink sends text messages and places calls through the modem.
// Each step is followed by a fixed settle delay; replies are left in the
// port for the tick loop to consume.
type NotificationSink struct {
	t   *ModemTransport
	ctx *Context

	settle       time.Duration
	deleteSettle time.Duration
}

// NewNotificationSink creates a sink using the settle delays in cfg
func NewNotificationSink(t *ModemTransport, ctx *Context, cfg *config.Config) *NotificationSink {
	return &NotificationSink{
		t:            t,
		ctx:          ctx,
		settle:       config.Ms(cfg.SettleMs),
		deleteSettle: config.Ms(cfg.DeleteSettleMs),
	}
}

// SendText sends body to recipient as a text-mode message and then clears
// the modem's message storage
func (n *NotificationSink) SendText(recipient, body string) error {
	body = SanitizeText(body)
	steps := []struct {
		line   string
		settle time.Duration
	}{
		{protocol.CmdTextMode, n.settle},
		{protocol.SendMessageCommand(recipient), n.settle},
		{body, n.settle},
		{protocol.CtrlZ, n.settle},
		{protocol.CmdDeleteAll, n.deleteSettle},
	}
	for _, step := range steps {
		if err := n.t.Send(step.line); err != nil {
			return err
		}
		n.t.clock.Sleep(step.settle)
	}
	RecordEvent(EvtText, Millis(n.t.clock.Now()), int32(len(body)))
	DebugPrintln("[NOTIFY] text to " + recipient + ": " + body)
	return nil
}

// PlaceCall dials recipient and marks a call in progress
func (n *NotificationSink) PlaceCall(recipient string) error {
	if err := n.t.Send(protocol.DialCommand(recipient)); err != nil {
		return err
	}
	n.ctx.SetCallActive(true)
	RecordEvent(EvtCall, Millis(n.t.clock.Now()), 0)
	DebugPrintln("[NOTIFY] calling " + recipient)
	return nil
}

// SanitizeText replaces every rune outside the GSM 7-bit default alphabet
// and its extension table with '?'. The modem runs text mode with that
// alphabet, and a stray Ctrl-Z would end the message early.
func SanitizeText(body string) string {
	if _, err := gsm7.Encode([]byte(body)); err == nil {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	var buf [utf8.UTFMax]byte
	for _, r := range body {
		n := utf8.EncodeRune(buf[:], r)
		if _, err := gsm7.Encode(buf[:n]); err != nil {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
