// Command simavr-go loads a firmware image for a supported AVR variant and
// runs it to completion (or to a cycle limit), the thin external harness
// spec.md §1 leaves outside the core: it resolves CLI configuration, reads
// the flash/EEPROM files, assembles the variant's peripheral set, and prints
// the result. It does not implement a VCD file writer or GDB server —
// spec.md §1 keeps those external collaborators, so `trace` only lists the
// signal nodes an external writer would subscribe to.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/buserror/simavr-go/avr"
	"github.com/buserror/simavr-go/logger"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "simavr-go",
		Short: "A cycle-aware simulator for 8-bit AVR microcontrollers",
	}

	rootCmd.AddCommand(newRunCmd(), newTraceCmd(), newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		variantName string
		flashPath   string
		eepromPath  string
		maxCycles   uint64
		logTail     int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a firmware image until it halts or the cycle limit is reached",
		RunE: func(cmd *cobra.Command, args []string) error {
			flash, err := os.ReadFile(flashPath)
			if err != nil {
				return fmt.Errorf("reading flash image: %w", err)
			}

			var eepromImage []byte
			if eepromPath != "" {
				eepromImage, err = os.ReadFile(eepromPath)
				if err != nil {
					return fmt.Errorf("reading EEPROM image: %w", err)
				}
			}

			sim, err := buildBoard(variantName, flash, eepromImage, os.Stdout)
			if err != nil {
				return err
			}

			result := sim.Run(maxCycles)

			if logTail > 0 {
				logger.Tail(os.Stderr, logTail)
			}

			fmt.Printf("halted at cycle %d (PC=%#04x)\n", sim.CPU.Cycle, sim.CPU.PC.Value())

			if exit, ok := sim.CPU.Fault().(exitRequest); ok {
				os.Exit(exit.code)
			}
			if result.Fault != nil {
				fmt.Fprintf(os.Stderr, "fault: %s\n", result.Fault)
			}
			os.Exit(sim.ExitCode())
			return nil
		},
	}

	cmd.Flags().StringVar(&variantName, "variant", "atmega328p", "AVR variant to simulate (atmega328p, attiny85)")
	cmd.Flags().StringVar(&flashPath, "flash", "", "path to the firmware flash image (required)")
	cmd.Flags().StringVar(&eepromPath, "eeprom", "", "path to an initial EEPROM image")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "stop after this many cycles (0 = run until halted)")
	cmd.Flags().IntVar(&logTail, "log-tail", 0, "print the last N peripheral-warning log entries on exit")
	cmd.MarkFlagRequired("flash")

	return cmd
}

func newTraceCmd() *cobra.Command {
	var variantName string

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "List the VCD-traceable signal nodes a variant exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := buildBoard(variantName, nil, nil, os.Stdout)
			if err != nil {
				return err
			}
			for _, sig := range sim.VCDSignals() {
				fmt.Printf("%-20s %d-bit\n", sig.Name, sig.Width)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variantName, "variant", "atmega328p", "AVR variant to list signals for (atmega328p, attiny85)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the simavr-go version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}
}

// buildBoard dispatches to the named variant's board-assembly function.
func buildBoard(variantName string, flash, eepromImage []byte, consoleSink io.Writer) (*avr.Simulator, error) {
	switch variantName {
	case "atmega328p":
		sim, _, err := newATmega328pBoard(flash, eepromImage, consoleSink)
		return sim, err
	case "attiny85":
		return newATtiny85Board(flash, eepromImage, consoleSink)
	default:
		return nil, fmt.Errorf("unknown variant %q (expected atmega328p or attiny85)", variantName)
	}
}
