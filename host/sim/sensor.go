// Package sim provides stand-in wrist hardware for running the controller
// on a workstation against a real modem.
package sim

import (
	"errors"
	"math"
	"sync/atomic"
	"time"

	"sphere/core"
)

// ErrNotFitted is returned by Probe on a sensor configured as missing
var ErrNotFitted = errors.New("sim: optical sensor not fitted")

const (
	// DefaultBaseline is a typical on-wrist IR reading for the MAX30102
	// at the firmware's LED current
	DefaultBaseline = 30000

	// DefaultAmplitude is the pulsatile component riding on the baseline
	DefaultAmplitude = 300

	// offWrist is the ambient reading with nothing over the sensor
	offWrist = 1200
)

// PulseSensor synthesises an IR waveform at a chosen heart rate
type PulseSensor struct {
	clock     core.Clock
	Baseline  int32
	Amplitude int32

	period  atomic.Int64 // nanoseconds per beat
	removed atomic.Bool
	missing bool
}

// NewPulseSensor returns a worn sensor beating at bpm
func NewPulseSensor(clock core.Clock, bpm int) *PulseSensor {
	s := &PulseSensor{
		clock:     clock,
		Baseline:  DefaultBaseline,
		Amplitude: DefaultAmplitude,
	}
	s.SetBPM(bpm)
	return s
}

// NewMissingSensor returns a sensor that fails its probe
func NewMissingSensor() *PulseSensor {
	return &PulseSensor{missing: true}
}

// SetBPM changes the simulated heart rate. Non-positive rates are ignored.
func (s *PulseSensor) SetBPM(bpm int) {
	if bpm <= 0 {
		return
	}
	s.period.Store(int64(time.Minute) / int64(bpm))
}

// SetWorn places the band on or takes it off the wrist
func (s *PulseSensor) SetWorn(worn bool) {
	s.removed.Store(!worn)
}

// Worn reports whether the band is on the wrist
func (s *PulseSensor) Worn() bool {
	return !s.removed.Load()
}

func (s *PulseSensor) Probe() error {
	if s.missing {
		return ErrNotFitted
	}
	return nil
}

// ReadIR samples the waveform at the clock's current time
func (s *PulseSensor) ReadIR() (int32, error) {
	if s.missing {
		return 0, ErrNotFitted
	}
	if s.removed.Load() {
		return offWrist, nil
	}
	period := s.period.Load()
	phase := 2 * math.Pi * float64(int64(s.clock.Now())%period) / float64(period)
	return s.Baseline + int32(float64(s.Amplitude)*math.Sin(phase)), nil
}
