package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T) (*NotificationSink, *fakeModem, *fakeClock, *Context) {
	t.Helper()
	clock := &fakeClock{}
	modem := newFakeModem(clock)
	ctx := NewContext("+10000000000")
	return NewNotificationSink(NewModemTransport(modem, clock, 0), ctx, testConfig(t)), modem, clock, ctx
}

func TestSendText(t *testing.T) {
	sink, modem, clock, ctx := newTestSink(t)

	require.NoError(t, sink.SendText("9998887776", "Help: http://maps.google.com/maps?q=1+2"))

	assert.Equal(t, []write{
		{at: 0, line: "AT+CMGF=1"},
		{at: 1 * time.Second, line: "AT+CMGS=\"9998887776\"\r"},
		{at: 2 * time.Second, line: "Help: http://maps.google.com/maps?q=1+2"},
		{at: 3 * time.Second, line: "\x1A"},
		{at: 4 * time.Second, line: "AT+CMGD=1,4"},
	}, modem.writes)
	assert.Equal(t, 7*time.Second, clock.now)
	assert.False(t, ctx.CallActive())
}

func TestSendTextSanitizesBody(t *testing.T) {
	sink, modem, _, _ := newTestSink(t)

	require.NoError(t, sink.SendText("1", "Battery 😀 ok"))
	assert.Equal(t, "Battery ? ok", modem.writes[2].line)
}

func TestPlaceCall(t *testing.T) {
	sink, modem, clock, ctx := newTestSink(t)

	require.NoError(t, sink.PlaceCall("+917906605631"))
	assert.Equal(t, []string{"ATD+917906605631"}, modem.lines())
	assert.True(t, ctx.CallActive())
	assert.Equal(t, time.Duration(0), clock.now)
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SPHERE READY!!", "SPHERE READY!!"},
		{"Unable to fetch location. Please try again", "Unable to fetch location. Please try again"},
		{"café", "café"},
		{"stop\x1Ahere", "stop?here"},
		{"位置", "??"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeText(tt.in), "input %q", tt.in)
	}
}
