// Package companion is the caregiver's terminal view of a band: the live
// heart-rate notification, an SOS key and recipient updates.
package companion

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sphere/host/threat"
	"sphere/protocol"
)

// historySize is how many notifications the view keeps
const historySize = 8

// staleAfter marks the reading old when no notification arrives for this long
const staleAfter = 10 * time.Second

// Sender writes a command to the band
type Sender interface {
	Send(cmd string) error
}

type mode uint8

const (
	modeNormal mode = iota
	modeNumber
)

// Model is the root Bubble Tea model of the companion view
type Model struct {
	width  int
	height int

	band   string
	sender Sender

	latest   string
	received time.Time
	history  []string

	grader *threat.Classifier
	level  threat.Level

	mode   mode
	number string
	status string
	err    error
	now    func() time.Time
}

// New creates a model for the band called name
func New(name string, sender Sender) Model {
	return Model{
		band:   name,
		sender: sender,
		grader: threat.Default(),
		status: "waiting for the first reading",
		now:    time.Now,
	}
}

// WithClassifier grades readings with c instead of the stock model
func (m Model) WithClassifier(c *threat.Classifier) Model {
	if c != nil {
		m.grader = c
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeNumber {
			return m.handleNumberKey(msg)
		}
		return m.handleKey(msg)

	case NotifyMsg:
		m.latest = string(msg)
		m.received = m.now()
		m.history = append(m.history, string(msg))
		if len(m.history) > historySize {
			m.history = m.history[len(m.history)-historySize:]
		}
		if bpm, ok := threat.HeartRate(string(msg)); ok {
			m.level = m.grader.Classify(threat.Reading{HeartRate: bpm})
		} else {
			m.level = threat.Unknown
		}
		return m, nil

	case SentMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.status = "sending " + msg.Command + " failed"
		} else {
			m.err = nil
			m.status = "sent " + msg.Command
		}
		return m, nil

	case TickMsg:
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "s", "S":
		m.status = "sending SOS"
		return m, m.send(protocol.CommandPayloadSOS)

	case "n", "N":
		m.mode = modeNumber
		m.number = ""
		m.status = "enter the new SOS number"
	}
	return m, nil
}

func (m Model) handleNumberKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeNormal
		m.status = "number unchanged"
		return m, nil

	case tea.KeyBackspace:
		if len(m.number) > 0 {
			m.number = m.number[:len(m.number)-1]
		}
		return m, nil

	case tea.KeyEnter:
		if !protocol.ValidNumber(m.number) {
			m.status = "not a phone number: " + m.number
			return m, nil
		}
		m.mode = modeNormal
		m.status = "sending number"
		return m, m.send(protocol.NumberPrefix + m.number)

	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r >= '0' && r <= '9') || (r == '+' && m.number == "") {
				m.number += string(r)
			}
		}
	}
	return m, nil
}

func (m Model) send(cmd string) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		return SentMsg{Command: cmd, Err: sender.Send(cmd)}
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Connecting to " + m.band + "..."
	}

	title := StyleTitle.Width(m.width).Render("Sphere companion - " + m.band)

	reading := StyleHistory.Render("no reading yet")
	switch {
	case m.latest == "":
	case strings.HasPrefix(m.latest, "BPM"):
		reading = StyleRate.Render(m.latest)
	default:
		reading = StyleNoContact.Render(m.latest)
	}
	if !m.received.IsZero() && m.now().Sub(m.received) > staleAfter {
		reading += StyleHistory.Render("  (stale)")
	}
	if m.level != threat.Unknown {
		reading += "  " + StyleLabel.Render("threat ") + threatStyle(m.level).Render(m.level.String())
	}

	var history strings.Builder
	for i := len(m.history) - 1; i >= 0; i-- {
		history.WriteString(StyleHistory.Render(m.history[i]))
		history.WriteString("\n")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		reading,
		"",
		strings.TrimRight(history.String(), "\n"),
	)
	panel := StylePanel.Width(m.width - 2).Render(body)

	var prompt string
	if m.mode == modeNumber {
		prompt = StyleLabel.Render("New number: ") + StyleKey.Render(m.number+"_")
	} else {
		prompt = StyleKey.Render("s") + StyleLabel.Render(" SOS  ") +
			StyleKey.Render("n") + StyleLabel.Render(" set number  ") +
			StyleKey.Render("q") + StyleLabel.Render(" quit")
	}

	status := StyleStatusBar.Width(m.width).Render(m.status)
	if m.err != nil {
		status = StyleStatusBar.Width(m.width).Render(StyleError.Render(m.status + ": " + m.err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, panel, prompt, status)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
