// Package config holds the controller configuration. The firmware embeds a
// JSON override; the host tools read YAML files. Both go through the same
// defaults.
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config is the complete controller configuration. Durations are stored in
// milliseconds so the same struct round-trips through JSON and YAML.
type Config struct {
	// Recipient is the compiled-in emergency contact, replaced at runtime
	// by a NUMBER: wireless command
	Recipient string `json:"recipient" yaml:"recipient"`

	// Emergency button hold: ConfirmUnits units of ConfirmUnitMs each
	ConfirmUnits  int `json:"confirm_units" yaml:"confirm_units"`
	ConfirmUnitMs int `json:"confirm_unit_ms" yaml:"confirm_unit_ms"`

	// Modem windows and settle delays
	ReadyWindowMs    int `json:"ready_window_ms" yaml:"ready_window_ms"`
	ConfigWindowMs   int `json:"config_window_ms" yaml:"config_window_ms"`
	LocationWindowMs int `json:"location_window_ms" yaml:"location_window_ms"`
	BatteryWindowMs  int `json:"battery_window_ms" yaml:"battery_window_ms"`
	WakeSettleMs     int `json:"wake_settle_ms" yaml:"wake_settle_ms"`
	SettleMs         int `json:"settle_ms" yaml:"settle_ms"`
	DeleteSettleMs   int `json:"delete_settle_ms" yaml:"delete_settle_ms"`
	PollIntervalMs   int `json:"poll_interval_ms" yaml:"poll_interval_ms"`

	// Startup readiness probe. Zero attempts means retry forever.
	ReadyMaxAttempts int `json:"ready_max_attempts" yaml:"ready_max_attempts"`
	ReadyBackoffMs   int `json:"ready_backoff_ms" yaml:"ready_backoff_ms"`

	// Vital monitor
	SampleWindow    int     `json:"sample_window" yaml:"sample_window"`
	ThresholdRatio  float64 `json:"threshold_ratio" yaml:"threshold_ratio"`
	InitialBaseline int32   `json:"initial_baseline" yaml:"initial_baseline"`
	RateSlots       int     `json:"rate_slots" yaml:"rate_slots"`
	MinBPM          float64 `json:"min_bpm" yaml:"min_bpm"`
	MaxBPM          float64 `json:"max_bpm" yaml:"max_bpm"`

	// Behaviour switches
	ReadyMessage        string `json:"ready_message" yaml:"ready_message"`
	SendReadyMessage    bool   `json:"send_ready_message" yaml:"send_ready_message"`
	NetworkFallback     bool   `json:"network_fallback" yaml:"network_fallback"`
	RingSendsLocation   bool   `json:"ring_sends_location" yaml:"ring_sends_location"`
	SampleWithoutClient bool   `json:"sample_without_client" yaml:"sample_without_client"`

	// Wireless channel
	DeviceName string `json:"device_name" yaml:"device_name"`

	// Host only: serial device of a USB-attached modem
	SerialDevice string `json:"serial_device,omitempty" yaml:"serial_device,omitempty"`
	SerialBaud   int    `json:"serial_baud,omitempty" yaml:"serial_baud,omitempty"`
}

// Default returns the configuration the band ships with
func Default() *Config {
	return &Config{
		Recipient:        "+917906605631",
		ConfirmUnits:     5,
		ConfirmUnitMs:    1000,
		ReadyWindowMs:    1000,
		ConfigWindowMs:   2000,
		LocationWindowMs: 1000,
		BatteryWindowMs:  2000,
		WakeSettleMs:     1000,
		SettleMs:         1000,
		DeleteSettleMs:   3000,
		PollIntervalMs:   1,
		SampleWindow:     100,
		ThresholdRatio:   0.8,
		InitialBaseline:  7000,
		RateSlots:        4,
		MinBPM:           20,
		MaxBPM:           255,
		ReadyMessage:     "SPHERE READY!!",
		SendReadyMessage:  true,
		RingSendsLocation: true,
		DeviceName:        "SafetyBand",
		SerialBaud:        115200,
	}
}

// LoadConfig parses a JSON configuration and fills in defaults
func LoadConfig(jsonData []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, cfg.Validate()
}

// applyDefaults repairs zero values an override may have written
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.ConfirmUnits <= 0 {
		cfg.ConfirmUnits = def.ConfirmUnits
	}
	if cfg.ConfirmUnitMs <= 0 {
		cfg.ConfirmUnitMs = def.ConfirmUnitMs
	}
	if cfg.ReadyWindowMs <= 0 {
		cfg.ReadyWindowMs = def.ReadyWindowMs
	}
	if cfg.ConfigWindowMs <= 0 {
		cfg.ConfigWindowMs = def.ConfigWindowMs
	}
	if cfg.LocationWindowMs <= 0 {
		cfg.LocationWindowMs = def.LocationWindowMs
	}
	if cfg.BatteryWindowMs <= 0 {
		cfg.BatteryWindowMs = def.BatteryWindowMs
	}
	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = def.PollIntervalMs
	}
	if cfg.SampleWindow <= 0 {
		cfg.SampleWindow = def.SampleWindow
	}
	if cfg.ThresholdRatio <= 0 {
		cfg.ThresholdRatio = def.ThresholdRatio
	}
	if cfg.RateSlots <= 0 {
		cfg.RateSlots = def.RateSlots
	}
	if cfg.MaxBPM <= 0 {
		cfg.MaxBPM = def.MaxBPM
	}
	if cfg.DeviceName == "" {
		cfg.DeviceName = def.DeviceName
	}
	if cfg.SerialBaud <= 0 {
		cfg.SerialBaud = def.SerialBaud
	}
}

// Validate rejects configurations the controller cannot run with
func (c *Config) Validate() error {
	if c.Recipient == "" {
		return fmt.Errorf("config: recipient is required")
	}
	if c.MinBPM >= c.MaxBPM {
		return fmt.Errorf("config: min_bpm %.0f must be below max_bpm %.0f", c.MinBPM, c.MaxBPM)
	}
	if c.ThresholdRatio >= 1 {
		return fmt.Errorf("config: threshold_ratio %.2f must be below 1", c.ThresholdRatio)
	}
	if c.ReadyMaxAttempts < 0 {
		return fmt.Errorf("config: ready_max_attempts cannot be negative")
	}
	return nil
}

// Ms converts a millisecond field to a time.Duration
func Ms(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
