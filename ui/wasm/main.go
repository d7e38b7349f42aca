//go:build js && wasm

// Command wasm exposes the band's text grammar to the web companion, so the
// browser parses modem replies and validates commands exactly as the
// firmware does.
package main

import (
	"syscall/js"

	"sphere/core"
	"sphere/protocol"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("sphereWasm", js.ValueOf(map[string]interface{}{
		"parseLocation": js.FuncOf(parseLocationWrapper),
		"parseBattery":  js.FuncOf(parseBatteryWrapper),
		"classifyLine":  js.FuncOf(classifyLineWrapper),
		"parseCommand":  js.FuncOf(parseCommandWrapper),
		"validNumber":   js.FuncOf(validNumberWrapper),
		"sanitizeText":  js.FuncOf(sanitizeTextWrapper),
		"numberCommand": js.FuncOf(numberCommandWrapper),
		"sosCommand":    protocol.CommandPayloadSOS,
		"version":       protocol.Version,
	}))

	// Keep the program running
	select {}
}

// parseLocationWrapper parses a raw location reply
// Args: raw (string)
// Returns: {available, latitude, longitude, link}
func parseLocationWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: missing reply argument")
	}
	fix := protocol.ParseLocation(args[0].String())
	return js.ValueOf(map[string]interface{}{
		"available": fix.Available,
		"latitude":  fix.Latitude,
		"longitude": fix.Longitude,
		"link":      protocol.MapLink(fix),
	})
}

// parseBatteryWrapper extracts the charge window of a battery reply
// Args: raw (string)
// Returns: string
func parseBatteryWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: missing reply argument")
	}
	return js.ValueOf(protocol.ParseBattery(args[0].String()))
}

// classifyLineWrapper classifies one unsolicited modem line
// Args: line (string)
// Returns: event name
func classifyLineWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: missing line argument")
	}
	return js.ValueOf(protocol.ClassifyInbound(args[0].String()).Kind.String())
}

// parseCommandWrapper classifies a wireless payload
// Args: payload (string)
// Returns: {kind, number}
func parseCommandWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: missing payload argument")
	}
	cmd := protocol.ParseCommand([]byte(args[0].String()))
	return js.ValueOf(map[string]interface{}{
		"kind":   cmd.Kind.String(),
		"number": cmd.Number,
	})
}

// validNumberWrapper reports whether a recipient number is acceptable
// Args: number (string)
// Returns: bool
func validNumberWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(protocol.ValidNumber(args[0].String()))
}

// sanitizeTextWrapper restricts a message body to the modem's alphabet
// Args: body (string)
// Returns: string
func sanitizeTextWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("")
	}
	return js.ValueOf(core.SanitizeText(args[0].String()))
}

// numberCommandWrapper builds the recipient update payload
// Args: number (string)
// Returns: payload, or an error string for a malformed number
func numberCommandWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || !protocol.ValidNumber(args[0].String()) {
		return js.ValueOf("error: invalid number")
	}
	return js.ValueOf(protocol.NumberPrefix + args[0].String())
}
