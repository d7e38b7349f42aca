package sensor

// Address is the fixed 7-bit I2C address of the MAX30102
const Address = 0x57

// Registers
const (
	regIntStatus1   = 0x00
	regIntStatus2   = 0x01
	regIntEnable1   = 0x02
	regIntEnable2   = 0x03
	regFIFOWritePtr = 0x04
	regFIFOOverflow = 0x05
	regFIFOReadPtr  = 0x06
	regFIFOData     = 0x07
	regFIFOConfig   = 0x08
	regModeConfig   = 0x09
	regParticleCfg  = 0x0A
	regLED1Amp      = 0x0C // red
	regLED2Amp      = 0x0D // infrared
	regProxAmp      = 0x10
	regMultiLED1    = 0x11
	regMultiLED2    = 0x12
	regRevisionID   = 0xFE
	regPartID       = 0xFF
)

// PartID is the identity register value of a MAX30102/MAX30105
const PartID = 0x15

// Mode configuration bits
const (
	modeReset    = 0x40
	modeShutdown = 0x80
	modeRedOnly  = 0x02
	modeRedIR    = 0x03
	modeMultiLED = 0x07
)

// FIFO configuration bits
const (
	fifoRollover = 0x10
)

// Sample averaging
const (
	SampleAverage1  = 0x00
	SampleAverage2  = 0x20
	SampleAverage4  = 0x40
	SampleAverage8  = 0x60
	SampleAverage16 = 0x80
	SampleAverage32 = 0xA0
)

// ADC full-scale range
const (
	ADCRange2048  = 0x00
	ADCRange4096  = 0x20
	ADCRange8192  = 0x40
	ADCRange16384 = 0x60
)

// Samples per second
const (
	SampleRate50   = 0x00
	SampleRate100  = 0x04
	SampleRate200  = 0x08
	SampleRate400  = 0x0C
	SampleRate800  = 0x10
	SampleRate1000 = 0x14
	SampleRate1600 = 0x18
	SampleRate3200 = 0x1C
)

// LED pulse width, which also sets ADC resolution
const (
	PulseWidth69  = 0x00 // 15 bit
	PulseWidth118 = 0x01 // 16 bit
	PulseWidth215 = 0x02 // 17 bit
	PulseWidth411 = 0x03 // 18 bit
)

// sampleMask keeps the 18 data bits of a FIFO word
const sampleMask = 0x3FFFF

// fifoDepth is the number of sample slots in the FIFO
const fifoDepth = 32
