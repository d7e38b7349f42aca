package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sphere/config"
	"sphere/host/logging"
	"sphere/host/modem"
	"sphere/host/serial"
	"sphere/protocol"
)

const defaultDevice = "/dev/ttyUSB0"

var (
	flagConfig    string
	flagDevice    string
	flagBaud      int
	flagLogLevel  string
	flagLogFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sphere-host",
		Short: "Sphere host tools - drive the safety band controller from a workstation",
		Long: `Sphere host tools talk to an A9G modem board over USB serial and to a
safety band over Bluetooth LE.

"run" executes the band controller against the attached modem with a
simulated wrist sensor and console buttons. The remaining commands poke the
modem directly or act as the caregiver companion.`,
		Version:      protocol.Version,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML configuration file")
	pf.StringVar(&flagDevice, "device", "", "Modem serial device (default "+defaultDevice+")")
	pf.IntVar(&flagBaud, "baud", 0, "Modem baud rate (default 115200)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "console", "Log format: console or json")

	rootCmd.AddCommand(
		newRunCmd(),
		newATCmd(),
		newLocateCmd(),
		newSMSCmd(),
		newBatteryCmd(),
		newCompanionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config and applies the command-line overrides
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.LoadFile(flagConfig); err != nil {
			return nil, err
		}
	}
	if flagDevice != "" {
		cfg.SerialDevice = flagDevice
	}
	if cfg.SerialDevice == "" {
		cfg.SerialDevice = defaultDevice
	}
	if flagBaud != 0 {
		cfg.SerialBaud = flagBaud
	}
	return cfg, nil
}

// session bundles what every modem command needs
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	board  *modem.Board
}

// openSession loads configuration, builds the logger and connects the modem
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(flagLogLevel, flagLogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	logging.Attach(logger)

	serialCfg := serial.DefaultConfig(cfg.SerialDevice)
	if cfg.SerialBaud != 0 {
		serialCfg.Baud = cfg.SerialBaud
	}

	board := modem.NewBoard(nil)
	logger.Info("connecting to modem",
		zap.String("device", serialCfg.Device),
		zap.Int("baud", serialCfg.Baud))
	if err := board.ConnectWithConfig(serialCfg); err != nil {
		logger.Sync()
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, board: board}, nil
}

func (s *session) Close() {
	if err := s.board.Close(); err != nil {
		s.logger.Warn("closing modem", zap.Error(err))
	}
	s.logger.Sync()
}
