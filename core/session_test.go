package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sphere/protocol"
)

func newTestSession(t *testing.T) (*CommandSession, *fakeModem, *fakeClock, *Context) {
	t.Helper()
	clock := &fakeClock{}
	modem := newFakeModem(clock)
	ctx := NewContext("+10000000000")
	tr := NewModemTransport(modem, clock, 0)
	return NewCommandSession(tr, ctx, testConfig(t)), modem, clock, ctx
}

func TestConfigureOnceIssuesSequenceInOrder(t *testing.T) {
	replies := []string{"", "ERROR\r\n", "OK\r\n", "garbage"}
	for _, reply := range replies {
		t.Run("reply "+reply, func(t *testing.T) {
			s, modem, clock, _ := newTestSession(t)
			modem.respond = func(string) (string, time.Duration) { return reply, 0 }

			require.NoError(t, s.ConfigureOnce())

			assert.Equal(t, protocol.ConfigSequence, modem.lines())
			assert.Equal(t, time.Duration(len(protocol.ConfigSequence))*2*time.Second, clock.now)
		})
	}
}

func TestEnsureReadyRetriesUntilOK(t *testing.T) {
	s, modem, _, _ := newTestSession(t)
	probes := 0
	modem.respond = func(line string) (string, time.Duration) {
		probes++
		if probes < 3 {
			return "ERROR\r\n", 0
		}
		return "AT\r\r\nOK\r\n", 100 * time.Millisecond
	}

	require.NoError(t, s.EnsureReady())
	assert.Equal(t, []string{"AT", "AT", "AT"}, modem.lines())
}

func TestEnsureReadyBoundedPolicy(t *testing.T) {
	s, modem, clock, _ := newTestSession(t)
	s.SetRetryPolicy(RetryPolicy{MaxAttempts: 3, Backoff: 500 * time.Millisecond})

	err := s.EnsureReady()
	assert.ErrorIs(t, err, ErrModemUnresponsive)
	assert.Equal(t, 3, modem.count("AT"))
	// three windows and a backoff between each pair
	assert.Equal(t, 3*time.Second+2*500*time.Millisecond, clock.now)
}

type recordingHandler struct {
	location int
	battery  int
}

func (h *recordingHandler) LocationRequested() error { h.location++; return nil }
func (h *recordingHandler) BatteryRequested() error  { h.battery++; return nil }

func TestHandleInbound(t *testing.T) {
	s, modem, _, ctx := newTestSession(t)
	s.ringLocates = false
	h := &recordingHandler{}

	require.NoError(t, s.HandleInbound(protocol.ClassifyInbound("RING\r"), h))
	assert.Equal(t, []string{"ATA"}, modem.lines())
	assert.True(t, ctx.CallActive())
	assert.Zero(t, h.location)

	require.NoError(t, s.HandleInbound(protocol.ClassifyInbound("NO CARRIER\r"), h))
	assert.Equal(t, []string{"ATA", "ATH"}, modem.lines())
	assert.False(t, ctx.CallActive())

	require.NoError(t, s.HandleInbound(protocol.ClassifyInbound("SEND LOCATION\r"), h))
	require.NoError(t, s.HandleInbound(protocol.ClassifyInbound("send location\r"), h))
	require.NoError(t, s.HandleInbound(protocol.ClassifyInbound("BATTERY?\r"), h))
	require.NoError(t, s.HandleInbound(protocol.ClassifyInbound("+CMGS: 12\r"), h))

	assert.Equal(t, 2, h.location)
	assert.Equal(t, 1, h.battery)
	assert.Len(t, modem.writes, 2, "location and battery are left to the handler")
}

func TestRingSendsLocationByDefault(t *testing.T) {
	s, modem, _, ctx := newTestSession(t)
	h := &recordingHandler{}

	require.NoError(t, s.HandleInbound(protocol.InboundEvent{Kind: protocol.InboundRing}, h))
	assert.Equal(t, []string{"ATA"}, modem.lines())
	assert.True(t, ctx.CallActive())
	assert.Equal(t, 1, h.location)
}

func TestBatteryStatus(t *testing.T) {
	s, modem, _, _ := newTestSession(t)
	raw := "AT+CBC?\r\n\r\n+CBC: 1,87\r\n\r\nOK\r\n"
	attempts := 0
	modem.respond = func(line string) (string, time.Duration) {
		attempts++
		if attempts == 1 {
			return "", 0
		}
		return raw, 50 * time.Millisecond
	}

	level, err := s.BatteryStatus()
	require.NoError(t, err)
	assert.Equal(t, protocol.ParseBattery(raw), level)
	assert.Equal(t, "87", level)
	assert.Equal(t, []string{"AT+CBC?", "AT+CBC?"}, modem.lines())
}

func TestBatteryStatusBounded(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	s.SetRetryPolicy(RetryPolicy{MaxAttempts: 2})

	_, err := s.BatteryStatus()
	assert.ErrorIs(t, err, ErrBatteryUnavailable)
}
