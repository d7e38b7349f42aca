package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sphere/protocol"
)

var testFix = protocol.LocationFix{Available: true, Latitude: "12.9716", Longitude: "77.5946"}

type workflowHarness struct {
	w      *EmergencyWorkflow
	clock  *fakeClock
	ctx    *Context
	loc    *fixedLocator
	notify *recordingNotifier
	power  *fakePower
}

func newTestWorkflow(t *testing.T) *workflowHarness {
	t.Helper()
	h := &workflowHarness{
		clock:  &fakeClock{},
		ctx:    NewContext("+917906605631"),
		loc:    &fixedLocator{fix: testFix},
		notify: &recordingNotifier{},
		power:  &fakePower{},
	}
	h.w = NewEmergencyWorkflow(h.clock, h.ctx, h.loc, h.notify, h.power, testConfig(t))
	return h
}

// hold presses the button and keeps it held for d, ticking every 100ms
func (h *workflowHarness) hold(t *testing.T, d time.Duration) {
	t.Helper()
	require.NoError(t, h.w.Tick(true))
	for end := h.clock.now + d; h.clock.now < end; {
		h.clock.now += 100 * time.Millisecond
		require.NoError(t, h.w.Tick(true))
	}
}

func TestShortHoldCancels(t *testing.T) {
	h := newTestWorkflow(t)

	h.hold(t, 4900*time.Millisecond)
	assert.Equal(t, StateConfirming, h.w.State())
	s, ok := h.w.Session()
	require.True(t, ok)
	assert.Equal(t, 1, s.Remaining)

	require.NoError(t, h.w.Tick(false))

	assert.Equal(t, StateIdle, h.w.State())
	_, ok = h.w.Session()
	assert.False(t, ok, "session discarded on return to idle")
	assert.Empty(t, h.notify.texts)
	assert.Empty(t, h.notify.calls)
	assert.Zero(t, h.loc.calls)
}

func TestFullHoldNotifiesOnce(t *testing.T) {
	h := newTestWorkflow(t)

	h.hold(t, 5*time.Second)

	assert.Equal(t, StateIdle, h.w.State())
	require.Len(t, h.notify.texts, 1)
	assert.Equal(t, text{"+917906605631", "Help: http://maps.google.com/maps?q=12.9716+77.5946"}, h.notify.texts[0])
	assert.Equal(t, []string{"+917906605631"}, h.notify.calls)
	assert.NotContains(t, h.power.calls, "sleep", "modem stays awake for the call")

	// still holding: the button must be released before it re-arms
	h.hold(t, 10*time.Second)
	assert.Len(t, h.notify.texts, 1)
	assert.Equal(t, StateIdle, h.w.State())

	require.NoError(t, h.w.Tick(false))
	h.hold(t, 5*time.Second)
	assert.Len(t, h.notify.texts, 2)
}

func TestCountdownFollowsUnits(t *testing.T) {
	h := newTestWorkflow(t)

	require.NoError(t, h.w.Tick(true))
	for want := 5; want > 0; want-- {
		s, ok := h.w.Session()
		require.True(t, ok)
		assert.Equal(t, want, s.Remaining)
		assert.Equal(t, SourceButton, s.Source)
		h.clock.now += time.Second
		require.NoError(t, h.w.Tick(true))
	}
	assert.Len(t, h.notify.texts, 1)
}

func TestUnavailableLocationFallback(t *testing.T) {
	h := newTestWorkflow(t)
	h.loc.fix = protocol.Unavailable

	require.NoError(t, h.w.TriggerRemote(SourceWireless, true))

	require.Len(t, h.notify.texts, 1)
	assert.Equal(t, protocol.LocationUnavailable, h.notify.texts[0].body)
	assert.Len(t, h.notify.calls, 1)
}

func TestRemoteLocationRequestDoesNotCall(t *testing.T) {
	h := newTestWorkflow(t)

	require.NoError(t, h.w.TriggerRemote(SourceModem, false))

	assert.Len(t, h.notify.texts, 1)
	assert.Empty(t, h.notify.calls)
	assert.Equal(t, []string{"sleep"}, h.power.calls)
	assert.Equal(t, StateIdle, h.w.State())
}

func TestRemoteTriggerSupersedesCountdown(t *testing.T) {
	h := newTestWorkflow(t)

	h.hold(t, 2*time.Second)
	require.Equal(t, StateConfirming, h.w.State())

	require.NoError(t, h.w.TriggerRemote(SourceWireless, true))
	assert.Equal(t, StateIdle, h.w.State())
	assert.Len(t, h.notify.texts, 1)

	// the same hold does not fire a second time
	h.hold(t, 5*time.Second)
	assert.Len(t, h.notify.texts, 1)
}

func TestRecipientReadAtNotification(t *testing.T) {
	h := newTestWorkflow(t)
	h.ctx.SetRecipient("9998887776")

	require.NoError(t, h.w.TriggerRemote(SourceWireless, true))
	assert.Equal(t, "9998887776", h.notify.texts[0].recipient)
	assert.Equal(t, []string{"9998887776"}, h.notify.calls)
}

func TestDisarmRequiresRelease(t *testing.T) {
	h := newTestWorkflow(t)
	h.w.Disarm()

	require.NoError(t, h.w.Tick(true))
	assert.Equal(t, StateIdle, h.w.State())

	require.NoError(t, h.w.Tick(false))
	require.NoError(t, h.w.Tick(true))
	assert.Equal(t, StateConfirming, h.w.State())
}

func TestSourceAndStateStrings(t *testing.T) {
	assert.Equal(t, "button", SourceButton.String())
	assert.Equal(t, "wireless", SourceWireless.String())
	assert.Equal(t, "modem", SourceModem.String())
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "confirming", StateConfirming.String())
	assert.Equal(t, "notifying", StateNotifying.String())
}
