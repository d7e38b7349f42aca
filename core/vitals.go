package core

import (
	"time"

	"sphere/config"
)

// DetectionKind is the outcome of one intensity sample
type DetectionKind uint8

const (
	NoBeat       DetectionKind = iota // contact, no edge on this sample
	NoContact                         // sample at or below the adaptive threshold
	BeatDetected                      // edge with an admissible rate
)

func (k DetectionKind) String() string {
	switch k {
	case NoContact:
		return "no-contact"
	case BeatDetected:
		return "beat"
	default:
		return "no-beat"
	}
}

// Detection reports what a sample meant
type Detection struct {
	Kind DetectionKind

	// Transition is set on the first sample of a below-threshold run only
	Transition bool

	// BPM is the instantaneous rate of the last edge, zero without contact
	BPM float64

	// Average is the mean of the admitted rates, zero without contact
	Average int
}

// VitalMonitor turns raw infrared intensity into contact state and heart
// rate. The contact threshold adapts to the wearer: it is a fixed fraction
// of the mean of the last window of samples.
type VitalMonitor struct {
	clock Clock
	beats BeatDetector

	ratio    float64
	baseline int32
	minBPM   float64
	maxBPM   float64

	samples []int32
	next    int
	sum     int64

	rates    []int
	rateSpot int
	filled   int

	lastBeat    time.Duration
	bpm         float64
	average     int
	contactLost bool
}

// NewVitalMonitor creates a monitor with its window pre-filled with the
// configured baseline
func NewVitalMonitor(clock Clock, beats BeatDetector, cfg *config.Config) *VitalMonitor {
	m := &VitalMonitor{
		clock:    clock,
		beats:    beats,
		ratio:    cfg.ThresholdRatio,
		baseline: cfg.InitialBaseline,
		minBPM:   cfg.MinBPM,
		maxBPM:   cfg.MaxBPM,
		samples:  make([]int32, cfg.SampleWindow),
		rates:    make([]int, cfg.RateSlots),
	}
	m.Reset()
	return m
}

// Reset refills the window with the baseline and forgets every rate
func (m *VitalMonitor) Reset() {
	m.sum = 0
	for i := range m.samples {
		m.samples[i] = m.baseline
		m.sum += int64(m.baseline)
	}
	m.next = 0
	for i := range m.rates {
		m.rates[i] = 0
	}
	m.rateSpot = 0
	m.filled = 0
	m.lastBeat = 0
	m.bpm = 0
	m.average = 0
	m.contactLost = false
}

// Threshold returns the current contact threshold
func (m *VitalMonitor) Threshold() float64 {
	return m.ratio * (float64(m.sum) / float64(len(m.samples)))
}

// Average returns the reported average rate
func (m *VitalMonitor) Average() int {
	return m.average
}

// BPM returns the instantaneous rate of the last admitted or rejected edge
func (m *VitalMonitor) BPM() float64 {
	return m.bpm
}

// Ingest records one sample and classifies it
func (m *VitalMonitor) Ingest(sample int32) Detection {
	m.sum += int64(sample) - int64(m.samples[m.next])
	m.samples[m.next] = sample
	m.next = (m.next + 1) % len(m.samples)

	if float64(sample) <= m.Threshold() {
		d := Detection{Kind: NoContact, Transition: !m.contactLost}
		if d.Transition {
			RecordEvent(EvtNoContact, Millis(m.clock.Now()), sample)
		}
		m.contactLost = true
		m.bpm = 0
		m.average = 0
		return d
	}
	m.contactLost = false

	if !m.beats.CheckForBeat(sample) {
		return Detection{Kind: NoBeat, BPM: m.bpm, Average: m.average}
	}

	now := m.clock.Now()
	delta := now - m.lastBeat
	m.lastBeat = now
	m.bpm = 60 / delta.Seconds()

	if !(m.bpm > m.minBPM && m.bpm < m.maxBPM) {
		return Detection{Kind: NoBeat, BPM: m.bpm, Average: m.average}
	}

	m.rates[m.rateSpot] = int(m.bpm)
	m.rateSpot = (m.rateSpot + 1) % len(m.rates)
	if m.filled < len(m.rates) {
		m.filled++
	}
	total := 0
	for _, r := range m.rates {
		total += r
	}
	m.average = total / m.filled
	RecordEvent(EvtBeat, Millis(now), int32(m.bpm))

	return Detection{Kind: BeatDetected, BPM: m.bpm, Average: m.average}
}
