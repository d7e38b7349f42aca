//go:build tinygo && nrf52840

package main

import (
	"machine"

	"sphere/core"
)

var debugEnabled bool

// InitDebug routes controller debug output to the USB CDC serial port
func InitDebug() {
	debugEnabled = true
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)

	// Send a startup message
	DebugPrintln("=== Sphere safety band ===")
}

// DebugPrintln writes a string to USB serial with newline
func DebugPrintln(s string) {
	if !debugEnabled {
		return
	}
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}
