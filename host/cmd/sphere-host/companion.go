package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"tinygo.org/x/bluetooth"

	"sphere/ble"
	"sphere/host/companion"
	"sphere/host/threat"
)

var (
	flagBand        string
	flagScanTimeout time.Duration
	flagTraining    string
)

func newCompanionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companion",
		Short: "Connect to a band over Bluetooth LE as the caregiver app",
		Long: `Companion scans for a band, subscribes to its heart-rate notifications
and shows them live, graded low, medium or high threat. Keys send SOS or
update the emergency number.

Requires sudo or CAP_NET_ADMIN capability for Bluetooth access on Linux.`,
		RunE: runCompanion,
	}
	cmd.Flags().StringVar(&flagBand, "band", "", "Advertised band name (default from config)")
	cmd.Flags().DurationVar(&flagScanTimeout, "scan-timeout", 15*time.Second, "How long to scan for the band")
	cmd.Flags().StringVar(&flagTraining, "training", "", "Threat training CSV (heart_rate,voice_data,threat_level)")
	return cmd
}

func runCompanion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name := cfg.DeviceName
	if flagBand != "" {
		name = flagBand
	}
	grader := threat.Default()
	if flagTraining != "" {
		if grader, err = threat.LoadFile(flagTraining); err != nil {
			return err
		}
	}

	fmt.Printf("Scanning for %s...\n", name)
	link, err := ble.Dial(bluetooth.DefaultAdapter, name, flagScanTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		fmt.Fprintln(os.Stderr, "Bluetooth access requires elevated permissions.")
		fmt.Fprintln(os.Stderr, "Try one of:")
		fmt.Fprintln(os.Stderr, "  sudo sphere-host companion")
		fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./sphere-host")
		return err
	}
	defer link.Close()

	p := tea.NewProgram(companion.New(name, link).WithClassifier(grader), tea.WithAltScreen())

	// Notifications arrive on the Bluetooth stack's goroutine
	if err := link.Subscribe(func(msg string) {
		p.Send(companion.NotifyMsg(msg))
	}); err != nil {
		return err
	}

	_, err = p.Run()
	return err
}
