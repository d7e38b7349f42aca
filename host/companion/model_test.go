package companion

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sphere/host/threat"
)

type recordingSender struct {
	sent []string
	err  error
}

func (s *recordingSender) Send(cmd string) error {
	s.sent = append(s.sent, cmd)
	return s.err
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes a command and feeds its message back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func TestSOSKeySendsCommand(t *testing.T) {
	sender := &recordingSender{}
	m := New("SafetyBand", sender)

	m, cmd := update(t, m, runes("s"))
	m = run(t, m, cmd)

	assert.Equal(t, []string{"SOS"}, sender.sent)
	assert.Equal(t, "sent SOS", m.status)
	assert.NoError(t, m.err)
}

func TestNumberEntry(t *testing.T) {
	sender := &recordingSender{}
	m := New("SafetyBand", sender)

	m, _ = update(t, m, runes("n"))
	assert.Equal(t, modeNumber, m.mode)

	m, _ = update(t, m, runes("+91x79"))
	m, _ = update(t, m, runes("+")) // '+' only leads
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = update(t, m, runes("906605631"))
	assert.Equal(t, "+917906605631", m.number)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeNormal, m.mode)
	run(t, m, cmd)
	assert.Equal(t, []string{"NUMBER:+917906605631"}, sender.sent)
}

func TestNumberEntryRejectsEmpty(t *testing.T) {
	sender := &recordingSender{}
	m := New("SafetyBand", sender)

	m, _ = update(t, m, runes("n"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, modeNumber, m.mode)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeNormal, m.mode)
	assert.Empty(t, sender.sent)
}

func TestSendFailureShown(t *testing.T) {
	sender := &recordingSender{err: errors.New("not connected")}
	m := New("SafetyBand", sender)

	m, cmd := update(t, m, runes("s"))
	m = run(t, m, cmd)
	assert.EqualError(t, m.err, "not connected")
	assert.Equal(t, "sending SOS failed", m.status)
}

func TestNotificationsKeepRecentHistory(t *testing.T) {
	m := New("SafetyBand", &recordingSender{})
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	for i := 0; i < historySize+3; i++ {
		m, _ = update(t, m, NotifyMsg("BPM: 70"))
	}
	m, _ = update(t, m, NotifyMsg("No wrist detected"))

	assert.Len(t, m.history, historySize)
	assert.Equal(t, "No wrist detected", m.latest)
	assert.Equal(t, now, m.received)
}

func TestViewRenders(t *testing.T) {
	m := New("SafetyBand", &recordingSender{})
	assert.Contains(t, m.View(), "Connecting to SafetyBand")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	m, _ = update(t, m, NotifyMsg("BPM: 72"))
	view := m.View()
	assert.Contains(t, view, "BPM: 72")
	assert.Contains(t, view, "SafetyBand")
}

func TestHeartRateIsGraded(t *testing.T) {
	m := New("SafetyBand", &recordingSender{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	m, _ = update(t, m, NotifyMsg("BPM: 72"))
	assert.Equal(t, threat.Low, m.level)

	m, _ = update(t, m, NotifyMsg("BPM: 145"))
	assert.Equal(t, threat.High, m.level)
	assert.Contains(t, m.View(), "high")

	m, _ = update(t, m, NotifyMsg("No wrist detected"))
	assert.Equal(t, threat.Unknown, m.level)
	assert.NotContains(t, m.View(), "threat")
}

func TestCustomClassifier(t *testing.T) {
	c, err := threat.New([]threat.Example{
		{Reading: threat.Reading{HeartRate: 60}, Level: threat.Low},
		{Reading: threat.Reading{HeartRate: 70}, Level: threat.High},
	})
	require.NoError(t, err)

	m := New("SafetyBand", &recordingSender{}).WithClassifier(c)
	m, _ = update(t, m, NotifyMsg("BPM: 72"))
	assert.Equal(t, threat.High, m.level)

	m = m.WithClassifier(nil)
	assert.Same(t, c, m.grader)
}
