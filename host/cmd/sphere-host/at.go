package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sphere/config"
	"sphere/protocol"
)

var flagWindow time.Duration

func newATCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "at",
		Short: "Interactive AT command console",
		Long: `Every line typed is sent to the modem as an AT command and the reply
collected for --window is printed with control characters made visible.`,
		RunE: runATConsole,
	}
	cmd.Flags().DurationVar(&flagWindow, "window", time.Second, "Reply collection window")
	return cmd
}

func runATConsole(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println("Sphere AT console")
	fmt.Println("=================")
	fmt.Println()

	reply, err := s.board.Transact(protocol.CmdAttention, config.Ms(s.cfg.ReadyWindowMs))
	if err != nil {
		return err
	}
	if protocol.Acknowledged(reply) {
		fmt.Println("Modem ready.")
	} else {
		fmt.Println("Modem did not acknowledge AT; it may be asleep or still booting.")
	}

	fmt.Println("Enter commands (type 'help' for console commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		switch strings.ToLower(parts[0]) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return nil

		case "help", "?":
			printATHelp()

		case "listen":
			window := 5 * time.Second
			if len(parts) > 1 {
				secs, err := strconv.Atoi(parts[1])
				if err != nil || secs <= 0 {
					fmt.Fprintf(os.Stderr, "Error: invalid duration %q\n", parts[1])
					continue
				}
				window = time.Duration(secs) * time.Second
			}
			printReply(s.board.Transport().Collect(window))

		case "setup":
			for _, c := range protocol.ConfigSequence {
				reply, err := s.board.Transact(c, config.Ms(s.cfg.ConfigWindowMs))
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", c)
				printReply(reply)
			}

		default:
			reply, err := s.board.Transact(line, flagWindow)
			if err != nil {
				return err
			}
			printReply(reply)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func printATHelp() {
	fmt.Println("\nConsole commands:")
	fmt.Println("  help           - Show this help message")
	fmt.Println("  listen [secs]  - Print unsolicited modem output (default 5s)")
	fmt.Println("  setup          - Send the controller's one-shot configuration")
	fmt.Println("  quit/exit/q    - Exit the console")
	fmt.Println("Any other line is sent to the modem verbatim.")
	fmt.Println()
}

// printReply prints a raw reply one line per modem line
func printReply(raw string) {
	lines := protocol.SplitLines(raw)
	if len(lines) == 0 {
		fmt.Println("  (no reply)")
		return
	}
	for _, l := range lines {
		fmt.Printf("  %s\n", strconv.Quote(l))
	}
}
