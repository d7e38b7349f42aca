// Package ble is the band's short-range wireless control channel: a GATT
// service with a writable command characteristic and a heart-rate
// characteristic the companion app subscribes to.
package ble

import "tinygo.org/x/bluetooth"

var (
	// ServiceUUID identifies the band's control service
	ServiceUUID = mustParseUUID("12345678-1234-1234-1234-123456789012")

	// CommandUUID is the characteristic the companion writes commands to
	CommandUUID = mustParseUUID("abcd1234-ab12-cd34-ef56-abcdef123456")

	// HeartRateUUID carries "BPM: n" and contact notifications
	HeartRateUUID = bluetooth.CharacteristicUUIDHeartRateMeasurement
)

func mustParseUUID(s string) bluetooth.UUID {
	uuid, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic("ble: bad uuid " + s)
	}
	return uuid
}
