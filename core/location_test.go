package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sphere/protocol"
)

func newTestResolver(t *testing.T, fallback bool) (*LocationResolver, *fakeModem, *fakeClock, *fakePower) {
	t.Helper()
	clock := &fakeClock{}
	modem := newFakeModem(clock)
	power := &fakePower{}
	cfg := testConfig(t)
	cfg.NetworkFallback = fallback
	return NewLocationResolver(NewModemTransport(modem, clock, 0), power, cfg), modem, clock, power
}

func TestResolveFix(t *testing.T) {
	r, modem, clock, power := newTestResolver(t, false)
	modem.respond = func(line string) (string, time.Duration) {
		return locationReply(", 12.9716,77.5946\r\n\r\nOK\r\n"), 200 * time.Millisecond
	}

	fix := r.Resolve()

	assert.Equal(t, protocol.LocationFix{Available: true, Latitude: "12.9716", Longitude: "77.5946"}, fix)
	assert.Equal(t, []string{"wake"}, power.calls)
	assert.Equal(t, []write{{at: time.Second, line: "AT+LOCATION=2"}}, modem.writes, "command follows the wake settle")
	assert.Equal(t, 2*time.Second, clock.now)
}

func TestResolveNoFix(t *testing.T) {
	r, modem, _, _ := newTestResolver(t, false)
	modem.respond = func(line string) (string, time.Duration) {
		return locationReply("GPS NOT FIXED NOW\r\n"), 0
	}

	assert.Equal(t, protocol.Unavailable, r.Resolve())
	assert.Equal(t, []string{"AT+LOCATION=2"}, modem.lines())
}

func TestResolveNetworkFallback(t *testing.T) {
	r, modem, _, _ := newTestResolver(t, true)
	modem.respond = func(line string) (string, time.Duration) {
		if line == protocol.CmdLocateNetwork {
			return locationReply(", 28.6139,77.2090\r\n\r\nOK\r\n"), 0
		}
		return locationReply("GPS NOT FIXED NOW\r\n"), 0
	}

	fix := r.Resolve()

	assert.True(t, fix.Available)
	assert.Equal(t, "28.6139", fix.Latitude)
	assert.Equal(t, "77.2090", fix.Longitude)
	assert.Equal(t, []string{"AT+LOCATION=2", "AT+LOCATION=1"}, modem.lines())
}

func TestResolveSilentModem(t *testing.T) {
	r, _, _, _ := newTestResolver(t, false)
	assert.Equal(t, protocol.Unavailable, r.Resolve())
}
