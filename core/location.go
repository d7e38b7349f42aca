package core

import (
	"time"

	"sphere/config"
	"sphere/protocol"
)

// Locator produces the wearer's position
type Locator interface {
	Resolve() protocol.LocationFix
}

// LocationResolver asks the modem for a satellite fix. With the network
// fallback enabled, a missing fix is retried against cell-tower positioning.
type LocationResolver struct {
	t     *ModemTransport
	power ModemPower

	settle   time.Duration
	window   time.Duration
	fallback bool
}

// NewLocationResolver creates a resolver. power may be nil.
func NewLocationResolver(t *ModemTransport, power ModemPower, cfg *config.Config) *LocationResolver {
	return &LocationResolver{
		t:        t,
		power:    power,
		settle:   config.Ms(cfg.WakeSettleMs),
		window:   config.Ms(cfg.LocationWindowMs),
		fallback: cfg.NetworkFallback,
	}
}

// Resolve wakes the modem, lets it settle and returns the parsed fix
func (r *LocationResolver) Resolve() protocol.LocationFix {
	if r.power != nil {
		r.power.Wake()
	}
	r.t.clock.Sleep(r.settle)

	fix := r.locate(protocol.CmdLocateGPS)
	if !fix.Available && r.fallback {
		DebugPrintln("[LOCATE] no satellite fix, trying network")
		fix = r.locate(protocol.CmdLocateNetwork)
	}
	return fix
}

func (r *LocationResolver) locate(cmd string) protocol.LocationFix {
	if err := r.t.Send(cmd); err != nil {
		DebugPrintln("[LOCATE] send failed: " + err.Error())
		return protocol.Unavailable
	}
	fix := protocol.ParseLocation(r.t.Collect(r.window))
	if !fix.Available {
		DebugPrintln("[LOCATE] no location data")
	}
	return fix
}
