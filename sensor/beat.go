package sensor

// firCoeffs are the symmetric half of the 23-tap low-pass filter applied to
// the AC component of the signal, centre tap last
var firCoeffs = [12]int32{172, 321, 579, 927, 1360, 1858, 2390, 2916, 3391, 3768, 4012, 4096}

// BeatDetector finds heart beats in a stream of infrared samples. It
// removes the DC level with a running estimator, low-pass filters the
// remainder and reports a beat on each rising zero crossing whose previous
// swing was of plausible size.
//
// A BeatDetector is not safe for concurrent use.
type BeatDetector struct {
	acMax    int16
	acMin    int16
	current  int16
	previous int16
	swingMin int16
	swingMax int16
	rising   bool
	falling  bool
	avgReg   int32
	window   [32]int16
	offset   uint8
	minSwing int32
	maxSwing int32
}

// NewBeatDetector returns a detector accepting swings between 20 and 1000
func NewBeatDetector() *BeatDetector {
	return &BeatDetector{
		acMax:    20,
		acMin:    -20,
		minSwing: 20,
		maxSwing: 1000,
	}
}

// Reset forgets the signal history
func (d *BeatDetector) Reset() {
	*d = *NewBeatDetector()
}

// CheckForBeat feeds one sample and reports whether it completes a beat
func (d *BeatDetector) CheckForBeat(sample int32) bool {
	beat := false

	d.previous = d.current
	estimated := d.averageDC(uint16(sample))
	d.current = d.lowPass(int16(sample - int32(estimated)))

	if d.previous < 0 && d.current >= 0 {
		d.acMax = d.swingMax
		d.acMin = d.swingMin
		d.rising = true
		d.falling = false
		d.swingMax = 0
		swing := int32(d.acMax) - int32(d.acMin)
		if swing > d.minSwing && swing < d.maxSwing {
			beat = true
		}
	}

	if d.previous > 0 && d.current <= 0 {
		d.rising = false
		d.falling = true
		d.swingMin = 0
	}

	if d.rising && d.current > d.previous {
		d.swingMax = d.current
	}
	if d.falling && d.current < d.previous {
		d.swingMin = d.current
	}

	return beat
}

// averageDC tracks the DC level with a 1/16 exponential average in Q15
func (d *BeatDetector) averageDC(x uint16) int16 {
	d.avgReg += (int32(x)<<15 - d.avgReg) >> 4
	return int16(d.avgReg >> 15)
}

func (d *BeatDetector) lowPass(din int16) int16 {
	d.window[d.offset] = din
	z := firCoeffs[11] * int32(d.window[(d.offset-11)&0x1F])
	for i := uint8(0); i < 11; i++ {
		z += firCoeffs[i] * int32(d.window[(d.offset-i)&0x1F])
		z += firCoeffs[i] * int32(d.window[(d.offset-22+i)&0x1F])
	}
	d.offset = (d.offset + 1) % 32
	return int16(z >> 15)
}
