package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sphere/core"
	"sphere/host/sim"
	"sphere/sensor"
)

var (
	flagBPM       int
	flagConnected bool
	flagTick      time.Duration
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the band controller against the attached modem",
		Long: `Run boots the controller on the attached modem and drives it with a
simulated wrist. Type on stdin to act on the band:

  press / release   hold or let go of the SOS button
  key               tap the wireless toggle key
  wear / remove     put the band on or take it off the wrist
  bpm <n>           change the simulated heart rate
  connect           simulate a companion connecting
  disconnect        simulate the companion leaving
  events            dump the event ring
  anything else     delivered as a wireless command (SOS, NUMBER:+...)`,
		RunE: runController,
	}
	cmd.Flags().IntVar(&flagBPM, "bpm", 72, "Simulated heart rate")
	cmd.Flags().BoolVar(&flagConnected, "connected", false, "Start with a companion connected")
	cmd.Flags().DurationVar(&flagTick, "tick", 10*time.Millisecond, "Control loop period")
	return cmd
}

// wrist is the simulated hardware around the controller
type wrist struct {
	pulse *sim.PulseSensor
	sos   *sim.Button
	key   *sim.Button
	link  *sim.Link
}

func runController(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	clock := core.NewSystemClock()
	w := &wrist{
		pulse: sim.NewPulseSensor(clock, flagBPM),
		sos:   &sim.Button{},
		key:   &sim.Button{},
		link:  sim.NewLink(s.logger.Named("ble")),
	}
	if flagConnected {
		w.link.Connect()
	}

	ctrl, err := core.NewController(s.cfg, core.Hardware{
		Modem:       s.board.Port(),
		SOS:         w.sos,
		WirelessKey: w.key,
		Sensor:      w.pulse,
		Beats:       sensor.NewBeatDetector(),
		Link:        w.link,
		Clock:       clock,
	})
	if err != nil {
		return err
	}

	s.logger.Info("booting controller", zap.String("recipient", s.cfg.Recipient))
	if err := ctrl.Boot(); err != nil {
		core.DumpEventRing()
		return err
	}
	s.logger.Info("controller ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines := make(chan string)
	go readConsole(lines)

	ticker := time.NewTicker(flagTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down")
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			w.handle(line, s.logger)

		case <-ticker.C:
			if err := ctrl.Tick(); err != nil {
				s.logger.Error("tick failed", zap.Error(err))
			}
		}
	}
}

func readConsole(out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out <- line
		}
	}
}

// handle applies one console line to the simulated wrist
func (w *wrist) handle(line string, logger *zap.Logger) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "press":
		w.sos.Press()
	case "release":
		w.sos.Release()
	case "key":
		w.key.Tap()
	case "wear":
		w.pulse.SetWorn(true)
	case "remove":
		w.pulse.SetWorn(false)
	case "bpm":
		if len(fields) != 2 {
			logger.Warn("usage: bpm <n>")
			return
		}
		bpm, err := strconv.Atoi(fields[1])
		if err != nil || bpm <= 0 {
			logger.Warn("invalid heart rate", zap.String("value", fields[1]))
			return
		}
		w.pulse.SetBPM(bpm)
	case "connect":
		w.link.Connect()
	case "disconnect":
		w.link.Disconnect()
	case "events":
		core.DumpEventRing()
	default:
		if !w.link.Deliver(line) {
			logger.Warn("wireless command dropped", zap.String("payload", line))
		}
	}
}
