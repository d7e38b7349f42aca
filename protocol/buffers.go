package protocol

import "strings"

// FifoBuffer is a circular buffer for serial I/O
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity.
// One slot is kept free to tell full from empty.
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer and returns how many bytes fit
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			// Buffer full
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// PushByte appends a single byte. It reports false when the buffer is full.
func (f *FifoBuffer) PushByte(b byte) bool {
	return f.Write([]byte{b}) == 1
}

// Read reads up to len(data) bytes from the FIFO buffer
func (f *FifoBuffer) Read(data []byte) int {
	read := 0
	for i := range data {
		if f.read == f.write {
			// Buffer empty
			break
		}
		data[i] = f.buf[f.read]
		f.read = (f.read + 1) % f.size
		read++
	}
	return read
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// Data returns available data as a slice.
// When wrapped, this copies data into a contiguous slice.
func (f *FifoBuffer) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	avail := f.Available()
	result := make([]byte, avail)

	firstLen := f.size - f.read
	copy(result, f.buf[f.read:])
	copy(result[firstLen:], f.buf[:f.write])

	return result
}

// Pop removes n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	for i := 0; i < n && f.read != f.write; i++ {
		f.read = (f.read + 1) % f.size
	}
}

// IsEmpty returns true if the buffer is empty
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}

// LineBuffer accumulates modem bytes and hands back complete lines.
//
// A line ends at '\n'; a trailing '\r' is stripped. When the buffer fills up
// without seeing a terminator the pending bytes are released as one line so
// that a noisy link cannot wedge intake.
type LineBuffer struct {
	fifo *FifoBuffer
}

// NewLineBuffer creates a LineBuffer holding at most capacity-1 pending bytes
func NewLineBuffer(capacity int) *LineBuffer {
	return &LineBuffer{fifo: NewFifoBuffer(capacity)}
}

// Feed appends raw bytes and returns how many did not fit
func (l *LineBuffer) Feed(data []byte) (dropped int) {
	n := l.fifo.Write(data)
	return len(data) - n
}

// Next pops the next complete line. ok is false when no full line is buffered.
func (l *LineBuffer) Next() (line string, ok bool) {
	data := l.fifo.Data()
	idx := -1
	for i, b := range data {
		if b == '\n' {
			idx = i
			break
		}
	}
	if idx < 0 {
		if l.fifo.Free() == 0 {
			line = string(data)
			l.fifo.Reset()
			return strings.TrimRight(line, "\r"), true
		}
		return "", false
	}
	line = string(data[:idx])
	l.fifo.Pop(idx + 1)
	return strings.TrimRight(line, "\r"), true
}

// Pending returns the number of buffered bytes not yet returned as lines
func (l *LineBuffer) Pending() int {
	return l.fifo.Available()
}

// Reset discards everything buffered
func (l *LineBuffer) Reset() {
	l.fifo.Reset()
}
