package protocol

import "testing"

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if !fifo.IsEmpty() {
		t.Error("New FIFO should be empty")
	}

	if fifo.Available() != 0 {
		t.Errorf("Empty FIFO should have 0 available, got %d", fifo.Available())
	}

	// Write some data
	data := []byte{1, 2, 3, 4, 5}
	written := fifo.Write(data)

	if written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}

	if fifo.Available() != 5 {
		t.Errorf("Expected 5 bytes available, got %d", fifo.Available())
	}

	// Read some data
	readBuf := make([]byte, 3)
	read := fifo.Read(readBuf)

	if read != 3 {
		t.Errorf("Expected to read 3 bytes, read %d", read)
	}

	if readBuf[0] != 1 || readBuf[1] != 2 || readBuf[2] != 3 {
		t.Errorf("Read data mismatch: got %v", readBuf)
	}

	if fifo.Available() != 2 {
		t.Errorf("After reading 3, expected 2 available, got %d", fifo.Available())
	}

	// Test Pop
	fifo.Pop(1)
	if fifo.Available() != 1 {
		t.Errorf("After popping 1, expected 1 available, got %d", fifo.Available())
	}

	// Test wrap-around
	fifo.Reset()
	bigData := make([]byte, 12)
	for i := range bigData {
		bigData[i] = byte(i)
	}
	written = fifo.Write(bigData)
	if written != 9 { // Buffer size is 10, can only store 9 (one slot reserved)
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	// Fill buffer
	fifo.Write([]byte{1, 2, 3, 4})

	// Read some
	readBuf := make([]byte, 2)
	fifo.Read(readBuf)

	// Write more (will wrap around)
	written := fifo.Write([]byte{5, 6})
	if written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}

	// Verify order
	allData := make([]byte, 4)
	read := fifo.Read(allData)
	if read != 4 {
		t.Errorf("Expected to read 4 bytes, read %d", read)
	}
	if allData[0] != 3 || allData[1] != 4 || allData[2] != 5 || allData[3] != 6 {
		t.Errorf("Wrap-around data mismatch: got %v", allData)
	}
}

func TestFifoBufferPushByteWhenFull(t *testing.T) {
	fifo := NewFifoBuffer(3)
	if !fifo.PushByte('a') || !fifo.PushByte('b') {
		t.Fatal("PushByte failed before the buffer was full")
	}
	if fifo.PushByte('c') {
		t.Error("PushByte should report false on a full buffer")
	}
	if string(fifo.Data()) != "ab" {
		t.Errorf("Expected data %q, got %q", "ab", fifo.Data())
	}
}

func TestLineBufferSplitsLines(t *testing.T) {
	lines := NewLineBuffer(64)
	lines.Feed([]byte("RI"))

	if _, ok := lines.Next(); ok {
		t.Fatal("Partial line should not be returned")
	}

	lines.Feed([]byte("NG\r\nNO CARRIER\r\n+CMGS: 4"))

	tests := []string{"RING", "NO CARRIER"}
	for _, want := range tests {
		got, ok := lines.Next()
		if !ok {
			t.Fatalf("Expected line %q, got none", want)
		}
		if got != want {
			t.Errorf("Expected line %q, got %q", want, got)
		}
	}

	if _, ok := lines.Next(); ok {
		t.Error("Unterminated tail should stay buffered")
	}
	if lines.Pending() != len("+CMGS: 4") {
		t.Errorf("Expected %d pending bytes, got %d", len("+CMGS: 4"), lines.Pending())
	}
}

func TestLineBufferFlushesWhenFull(t *testing.T) {
	lines := NewLineBuffer(5)
	dropped := lines.Feed([]byte("ABCDEF"))
	if dropped != 2 {
		t.Errorf("Expected 2 dropped bytes, got %d", dropped)
	}

	got, ok := lines.Next()
	if !ok || got != "ABCD" {
		t.Errorf("Expected overflow flush %q, got %q (ok=%v)", "ABCD", got, ok)
	}
	if lines.Pending() != 0 {
		t.Errorf("Expected empty buffer after flush, got %d", lines.Pending())
	}
}
