package ble

import (
	"sync/atomic"

	"tinygo.org/x/bluetooth"
)

// Link is the peripheral side of the control channel
type Link struct {
	adapter *bluetooth.Adapter
	name    string
	adv     *bluetooth.Advertisement

	command   bluetooth.Characteristic
	heartRate bluetooth.Characteristic
	queue     CommandQueue

	connected   atomic.Bool
	reconnect   atomic.Bool // a client left; advertising must resume
	advertising bool
}

// NewLink creates a link advertising under name. Nothing touches the radio
// until Start.
func NewLink(adapter *bluetooth.Adapter, name string) *Link {
	return &Link{adapter: adapter, name: name}
}

// Start enables the adapter, registers the service and starts advertising
func (l *Link) Start() error {
	if err := l.adapter.Enable(); err != nil {
		return err
	}
	l.adapter.SetConnectHandler(l.onConnect)

	err := l.adapter.AddService(&bluetooth.Service{
		UUID: ServiceUUID,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &l.command,
				UUID:   CommandUUID,
				Flags: bluetooth.CharacteristicReadPermission |
					bluetooth.CharacteristicWritePermission |
					bluetooth.CharacteristicWriteWithoutResponsePermission,
				WriteEvent: l.onWrite,
			},
			{
				Handle: &l.heartRate,
				UUID:   HeartRateUUID,
				Value:  []byte("BPM: 0"),
				Flags: bluetooth.CharacteristicReadPermission |
					bluetooth.CharacteristicNotifyPermission,
			},
		},
	})
	if err != nil {
		return err
	}

	l.adv = l.adapter.DefaultAdvertisement()
	err = l.adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    l.name,
		ServiceUUIDs: []bluetooth.UUID{ServiceUUID},
	})
	if err != nil {
		return err
	}
	return l.SetAdvertising(true)
}

// SetAdvertising starts or stops advertising
func (l *Link) SetAdvertising(on bool) error {
	if l.adv == nil || on == l.advertising {
		l.advertising = on
		return nil
	}
	var err error
	if on {
		err = l.adv.Start()
	} else {
		err = l.adv.Stop()
	}
	if err != nil {
		return err
	}
	l.advertising = on
	return nil
}

// Poll resumes advertising after a client disconnects, unless advertising
// was switched off in the meantime
func (l *Link) Poll() error {
	if !l.reconnect.Swap(false) || !l.advertising {
		return nil
	}
	return l.adv.Start()
}

// Connected reports whether a client is connected
func (l *Link) Connected() bool {
	return l.connected.Load()
}

// NextCommand returns the oldest command written by a client
func (l *Link) NextCommand() ([]byte, bool) {
	return l.queue.Pop()
}

// Dropped returns how many command writes were discarded
func (l *Link) Dropped() uint32 {
	return l.queue.Dropped()
}

// Publish notifies subscribers of the heart-rate characteristic
func (l *Link) Publish(msg string) error {
	if !l.connected.Load() {
		return nil
	}
	_, err := l.heartRate.Write([]byte(msg))
	return err
}

// onConnect runs in the radio event context
func (l *Link) onConnect(device bluetooth.Device, connected bool) {
	l.connected.Store(connected)
	if !connected {
		l.reconnect.Store(true)
	}
}

// onWrite runs in the radio event context
func (l *Link) onWrite(client bluetooth.Connection, offset int, value []byte) {
	if offset != 0 {
		return
	}
	l.queue.Push(value)
}
