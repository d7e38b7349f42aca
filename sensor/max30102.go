// Package sensor drives the MAX30102 reflective pulse sensor and turns its
// infrared channel into beat edges.
package sensor

import (
	"errors"
	"strconv"
	"time"

	"tinygo.org/x/drivers"
)

// ErrResetTimeout is returned when the soft reset bit never clears
var ErrResetTimeout = errors.New("max30102: reset timeout")

// PartIDError reports a device that answered with the wrong identity
type PartIDError struct {
	Got uint8
}

func (e PartIDError) Error() string {
	return "max30102: unexpected part id 0x" + strconv.FormatUint(uint64(e.Got), 16)
}

// Config holds the sensor acquisition settings
type Config struct {
	SampleAverage uint8
	ADCRange      uint8
	SampleRate    uint8
	PulseWidth    uint8
	RedAmplitude  uint8
	IRAmplitude   uint8
}

// DefaultConfig matches the band's wrist setup: a dim red LED and a bright
// infrared LED, 400 samples per second averaged by four.
func DefaultConfig() Config {
	return Config{
		SampleAverage: SampleAverage4,
		ADCRange:      ADCRange4096,
		SampleRate:    SampleRate400,
		PulseWidth:    PulseWidth411,
		RedAmplitude:  0x0A,
		IRAmplitude:   0x1F,
	}
}

// Device wraps an I2C connection to a MAX30102
type Device struct {
	bus     drivers.I2C
	Address uint16
	cfg     Config

	buf [6]byte
	red int32
	ir  int32
}

// New creates a new MAX30102 connection. The I2C bus must already be
// configured.
//
// This function only creates the Device object, it does not touch the device.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:     bus,
		Address: Address,
		cfg:     DefaultConfig(),
	}
}

// Connected returns whether a MAX30102 has been found
func (d *Device) Connected() bool {
	id, err := d.readReg(regPartID)
	return err == nil && id == PartID
}

// Probe checks the part id, resets the device and applies the current
// configuration
func (d *Device) Probe() error {
	id, err := d.readReg(regPartID)
	if err != nil {
		return err
	}
	if id != PartID {
		return PartIDError{Got: id}
	}
	return d.Configure(d.cfg)
}

// Configure resets the device and programs the acquisition settings
func (d *Device) Configure(cfg Config) error {
	d.cfg = cfg
	if err := d.reset(); err != nil && err != ErrResetTimeout {
		return err
	}

	writes := []struct {
		reg, val uint8
	}{
		{regFIFOConfig, cfg.SampleAverage | fifoRollover},
		{regModeConfig, modeRedIR},
		{regParticleCfg, cfg.ADCRange | cfg.SampleRate | cfg.PulseWidth},
		{regLED1Amp, cfg.RedAmplitude},
		{regLED2Amp, cfg.IRAmplitude},
		{regProxAmp, cfg.IRAmplitude},
	}
	for _, w := range writes {
		if err := d.writeReg(w.reg, w.val); err != nil {
			return err
		}
	}
	return d.ClearFIFO()
}

// reset requests a soft reset and waits for the bit to self-clear
func (d *Device) reset() error {
	if err := d.writeReg(regModeConfig, modeReset); err != nil {
		return err
	}
	for i := 0; i < 100; i++ {
		mode, err := d.readReg(regModeConfig)
		if err != nil {
			return err
		}
		if mode&modeReset == 0 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return ErrResetTimeout
}

// ClearFIFO resets the FIFO pointers
func (d *Device) ClearFIFO() error {
	for _, reg := range []uint8{regFIFOWritePtr, regFIFOOverflow, regFIFOReadPtr} {
		if err := d.writeReg(reg, 0); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown puts the device in its power-save state
func (d *Device) Shutdown() error {
	return d.writeReg(regModeConfig, modeShutdown|modeRedIR)
}

// Update drains the FIFO and returns how many new samples were read
func (d *Device) Update() (int, error) {
	readPtr, err := d.readReg(regFIFOReadPtr)
	if err != nil {
		return 0, err
	}
	writePtr, err := d.readReg(regFIFOWritePtr)
	if err != nil {
		return 0, err
	}
	n := int(writePtr-readPtr) & (fifoDepth - 1)
	for i := 0; i < n; i++ {
		if err := d.bus.Tx(d.Address, []byte{regFIFOData}, d.buf[:]); err != nil {
			return i, err
		}
		d.red = word(d.buf[0:3])
		d.ir = word(d.buf[3:6])
	}
	return n, nil
}

// ReadIR returns the newest infrared sample, draining the FIFO first
func (d *Device) ReadIR() (int32, error) {
	if _, err := d.Update(); err != nil {
		return 0, err
	}
	return d.ir, nil
}

// Red returns the newest red sample read by Update
func (d *Device) Red() int32 {
	return d.red
}

func word(b []byte) int32 {
	return int32(uint32(b[0])<<16|uint32(b[1])<<8|uint32(b[2])) & sampleMask
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	var data [1]byte
	err := d.bus.Tx(d.Address, []byte{reg}, data[:])
	return data[0], err
}

func (d *Device) writeReg(reg, val uint8) error {
	return d.bus.Tx(d.Address, []byte{reg, val}, nil)
}
