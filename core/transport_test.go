package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactCollectsForWholeWindow(t *testing.T) {
	clock := &fakeClock{}
	modem := newFakeModem(clock)
	modem.respond = func(line string) (string, time.Duration) {
		return "OK\r\n", 10 * time.Millisecond
	}
	tr := NewModemTransport(modem, clock, 0)

	modem.schedule(500*time.Millisecond, "+CREG: 1\r\n")
	modem.schedule(1500*time.Millisecond, "late\r\n")

	reply, err := tr.Transact("AT", time.Second)
	require.NoError(t, err)

	assert.Equal(t, "OK\r\n+CREG: 1\r\n", reply)
	assert.GreaterOrEqual(t, clock.now, time.Second, "window is fixed, not an idle timeout")
	assert.Less(t, clock.now, time.Second+2*DefaultPollInterval)
	assert.Equal(t, []string{"AT"}, modem.lines())
	assert.Len(t, modem.pending, 1, "late bytes stay in the port")
}

func TestTransactWriteError(t *testing.T) {
	clock := &fakeClock{}
	modem := newFakeModem(clock)
	modem.writeErr = errors.New("uart down")
	tr := NewModemTransport(modem, clock, 0)

	_, err := tr.Transact("AT", time.Second)
	assert.EqualError(t, err, "uart down")
	assert.Equal(t, time.Duration(0), clock.now)
}

func TestCollectWithoutSending(t *testing.T) {
	clock := &fakeClock{}
	modem := newFakeModem(clock)
	tr := NewModemTransport(modem, clock, 5*time.Millisecond)

	modem.inject("+LOCATION: x\r\n")
	assert.Equal(t, "+LOCATION: x\r\n", tr.Collect(100*time.Millisecond))
	assert.Empty(t, modem.writes)
	assert.Equal(t, 100*time.Millisecond, clock.now)
}

func TestReadAvailable(t *testing.T) {
	clock := &fakeClock{}
	modem := newFakeModem(clock)
	tr := NewModemTransport(modem, clock, 0)

	modem.inject("RING\r\n")
	buf := make([]byte, 4)
	assert.Equal(t, 4, tr.ReadAvailable(buf))
	assert.Equal(t, "RING", string(buf))
	assert.Equal(t, 2, tr.ReadAvailable(buf))
	assert.Equal(t, "\r\n", string(buf[:2]))
	assert.Equal(t, 0, tr.ReadAvailable(buf))
	assert.Equal(t, time.Duration(0), clock.now, "intake never waits")
}
