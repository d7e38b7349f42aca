//go:build tinygo && nrf52840

package main

import (
	_ "embed"
	"machine"
	"time"

	"tinygo.org/x/bluetooth"

	"sphere/ble"
	"sphere/config"
	"sphere/core"
	"sphere/sensor"
)

// Board wiring of the Seeed XIAO nRF52840 carrier
const (
	pinModemTX    = machine.D0
	pinModemRX    = machine.D1
	pinModemSleep = machine.D2 // LOW_POWER, high puts the A9G to sleep
	pinSOS        = machine.D3
	pinWireless   = machine.D4
	pinModemPower = machine.D10 // PWR_KEY
	pinSensorSDA  = machine.D6  // the default SDA pin D4 carries the wireless key
	pinSensorSCL  = machine.D7
	modemBaud     = 115200
)

// tickPeriod is the pause between control loop passes
const tickPeriod = 10 * time.Millisecond

//go:embed config.json
var configJSON []byte

var (
	// Panics recovered by the main loop
	loopErrors uint32
)

func main() {
	InitDebug()

	cfg, err := config.LoadConfig(configJSON)
	if err != nil {
		DebugPrintln("[BOOT] bad embedded config: " + err.Error())
		cfg = config.Default()
	}

	hw := core.Hardware{
		Modem:       initModemUART(),
		Power:       newModemPower(pinModemPower, pinModemSleep),
		SOS:         newButton(pinSOS),
		WirelessKey: newButton(pinWireless),
		Sensor:      initSensor(),
		Beats:       sensor.NewBeatDetector(),
		Link:        ble.NewLink(bluetooth.DefaultAdapter, cfg.DeviceName),
		Clock:       core.NewSystemClock(),
	}

	ctrl, err := core.NewController(cfg, hw)
	if err != nil {
		halt("[BOOT] " + err.Error())
	}
	if err := ctrl.Boot(); err != nil {
		halt("[BOOT] " + err.Error())
	}
	DebugPrintln("[BOOT] ready")

	// Main loop
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrors++
					DebugPrintln("[LOOP] recovered from panic")
					core.DumpEventRing()
				}
			}()

			if err := ctrl.Tick(); err != nil {
				DebugPrintln("[LOOP] " + err.Error())
			}
		}()

		time.Sleep(tickPeriod)
	}
}

// initModemUART brings up the UART wired to the A9G
func initModemUART() *machine.UART {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: modemBaud,
		TX:       pinModemTX,
		RX:       pinModemRX,
	})
	return uart
}

// initSensor configures the I2C bus the optical sensor sits on
func initSensor() *sensor.Device {
	bus := machine.I2C0
	bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       pinSensorSDA,
		SCL:       pinSensorSCL,
	})
	return sensor.New(bus)
}

// halt reports a fatal boot error and stops. The event ring is repeated so a
// late-attached serial monitor still sees it.
func halt(msg string) {
	for {
		DebugPrintln(msg)
		core.DumpEventRing()
		time.Sleep(5 * time.Second)
	}
}
