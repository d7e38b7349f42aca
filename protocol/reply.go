package protocol

import "strings"

// Fixed reply windows of the A9G firmware. A reply to the location command
// is the echoed command line followed by the coordinate line, so the
// coordinates start at byte 17; the battery reply carries the charge level
// at bytes 19-24. These offsets are a wire contract with that modem and are
// not derived from the reply content.
const (
	LocationWindowStart = 17
	LocationWindowEnd   = 38
	LocationPrefixLen   = 2
	BatteryWindowStart  = 19
	BatteryWindowEnd    = 24
)

// Message bodies built from a location fix
const (
	MapLinkPrefix       = "Help: http://maps.google.com/maps?q="
	LocationUnavailable = "Unable to fetch location. Please try again"
	BatteryPrefix       = "Battery Status: "
)

// LocationFix is a parsed position or an explicit unavailable marker
type LocationFix struct {
	Available bool
	Latitude  string
	Longitude string
}

// Unavailable is the LocationFix returned when the modem has no position
var Unavailable = LocationFix{}

// Window returns raw[start:end] clamped to the bounds of raw
func Window(raw string, start, end int) string {
	if start > len(raw) {
		return ""
	}
	if end > len(raw) {
		end = len(raw)
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		return ""
	}
	return raw[start:end]
}

// ParseLocation extracts the coordinates from a raw location reply.
//
// Grammar of the window at [17,38):
//
//	window  = prefix lat "," lon [terminators]
//	prefix  = 2 bytes, skipped
//
// A window containing "GPS NOT" is the modem's no-fix report. A window with
// no comma after the prefix is treated as unavailable too.
func ParseLocation(raw string) LocationFix {
	window := Window(raw, LocationWindowStart, LocationWindowEnd)
	if window == "" || strings.Contains(window, TokenNoFix) {
		return Unavailable
	}
	body := Window(window, LocationPrefixLen, len(window))
	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		return Unavailable
	}
	lat := strings.TrimSpace(body[:comma])
	lon := strings.TrimSpace(body[comma+1:])
	if lat == "" || lon == "" {
		return Unavailable
	}
	return LocationFix{Available: true, Latitude: lat, Longitude: lon}
}

// MapLink renders a fix as the text sent to the recipient
func MapLink(fix LocationFix) string {
	if !fix.Available {
		return LocationUnavailable
	}
	return MapLinkPrefix + fix.Latitude + "+" + fix.Longitude
}

// ParseBattery returns the charge window of a battery reply with line
// terminators trimmed, so it can be embedded in a message body
func ParseBattery(raw string) string {
	return strings.TrimSpace(Window(raw, BatteryWindowStart, BatteryWindowEnd))
}

// Acknowledged reports whether a raw reply contains the OK result code
// anywhere. The modem echoes and interleaves unsolicited lines, so the token
// is searched rather than matched per line.
func Acknowledged(raw string) bool {
	return strings.Contains(raw, TokenOK)
}

// SplitLines tokenizes a raw reply into its non-empty lines
func SplitLines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
