package core

// ModemPort is the byte stream to the cellular modem. machine.UART on the
// firmware and host/modem.Port on a workstation both satisfy it.
type ModemPort interface {
	Write(p []byte) (n int, err error)

	// Buffered returns how many received bytes can be read without blocking
	Buffered() int

	ReadByte() (byte, error)
}

// ModemPower drives the modem power-key and low-power pins. It is optional:
// a USB-attached modem on the host is always on.
type ModemPower interface {
	// PowerOn pulses the power key and waits for the modem to boot
	PowerOn()

	// Wake takes the modem out of low-power mode
	Wake()

	// Sleep returns the modem to low-power mode
	Sleep()
}

// Button is an active-low push button sampled once per tick
type Button interface {
	Pressed() bool
}

// OpticalSensor is the reflective pulse sensor on the wrist
type OpticalSensor interface {
	// Probe checks the sensor identity and applies its configuration
	Probe() error

	// ReadIR returns the latest infrared intensity sample
	ReadIR() (int32, error)
}

// BeatDetector reports whether a sample completes a rising beat edge
type BeatDetector interface {
	CheckForBeat(sample int32) bool
}

// WirelessLink is the short-range control channel to the companion app
type WirelessLink interface {
	// Start registers the service and begins advertising
	Start() error

	// SetAdvertising starts or stops advertising without dropping the service
	SetAdvertising(on bool) error

	// Poll performs work deferred from radio callbacks
	Poll() error

	// Connected reports whether a client is currently connected
	Connected() bool

	// NextCommand returns the oldest pending command payload
	NextCommand() ([]byte, bool)

	// Publish notifies the heart-rate characteristic
	Publish(msg string) error
}

// Hardware bundles the collaborators a Controller is built from.
// Modem, SOS and Sensor are mandatory.
type Hardware struct {
	Modem       ModemPort
	Power       ModemPower
	SOS         Button
	WirelessKey Button
	Sensor      OpticalSensor
	Beats       BeatDetector
	Link        WirelessLink
	Clock       Clock
}

// mustHave panics on a missing mandatory collaborator
func (h *Hardware) mustHave() {
	if h.SOS == nil {
		panic("SOS button not configured")
	}
	if h.Sensor == nil {
		panic("optical sensor not configured")
	}
	if h.Beats == nil {
		panic("beat detector not configured")
	}
}
