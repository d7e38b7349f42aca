package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sphere/core"
	"sphere/protocol"
)

var (
	flagRecipient string
	flagNetwork   bool
)

func newLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Ask the modem for a position fix",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if flagNetwork {
				s.cfg.NetworkFallback = true
			}
			fix := core.NewLocationResolver(s.board.Transport(), nil, s.cfg).Resolve()
			if !fix.Available {
				s.logger.Warn("no position fix")
			} else {
				s.logger.Info("position fix",
					zap.String("latitude", fix.Latitude),
					zap.String("longitude", fix.Longitude))
			}
			fmt.Println(protocol.MapLink(fix))
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagNetwork, "network", false, "Fall back to cell-tower positioning")
	return cmd
}

func newSMSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms <body>...",
		Short: "Send a text message through the modem",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			recipient := s.cfg.Recipient
			if flagRecipient != "" {
				if !protocol.ValidNumber(flagRecipient) {
					return fmt.Errorf("invalid recipient %q", flagRecipient)
				}
				recipient = flagRecipient
			}
			body := strings.Join(args, " ")

			sink := core.NewNotificationSink(s.board.Transport(), core.NewContext(recipient), s.cfg)
			if err := sink.SendText(recipient, body); err != nil {
				return err
			}
			s.logger.Info("text sent",
				zap.String("recipient", recipient),
				zap.String("body", core.SanitizeText(body)))
			return nil
		},
	}
	cmd.Flags().StringVar(&flagRecipient, "to", "", "Recipient number (default from config)")
	return cmd
}

func newBatteryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "battery",
		Short: "Read the modem's battery level",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := core.NewContext(s.cfg.Recipient)
			cs := core.NewCommandSession(s.board.Transport(), ctx, s.cfg)
			cs.SetRetryPolicy(core.RetryPolicy{MaxAttempts: 5})
			level, err := cs.BatteryStatus()
			if err != nil {
				return err
			}
			fmt.Println(protocol.BatteryPrefix + level)
			return nil
		},
	}
}
