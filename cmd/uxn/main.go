package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kestrel-systems/uxnvm/internal/diag"
	"github.com/kestrel-systems/uxnvm/internal/host"
	"github.com/kestrel-systems/uxnvm/vm"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "uxn",
		Short: "Uxn-class stack VM: run, inspect, and disassemble ROMs",
	}

	var traceFile string
	var lenient bool
	var interactive bool

	runCmd := &cobra.Command{
		Use:   "run <rom> [args...]",
		Short: "Load a ROM, run the reset vector, stream argv, exit with the System code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runROM(args[0], args[1:], lenient, interactive, traceFile)
		},
	}
	runCmd.Flags().StringVar(&traceFile, "trace", "", "write a per-instruction trace log to this file")
	runCmd.Flags().BoolVar(&lenient, "lenient-underflow", false, "substitute zero on stack underflow instead of faulting")
	runCmd.Flags().BoolVar(&interactive, "interactive", false, "put stdin in raw mode and feed keystrokes to the Console device")

	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "Print the device-page port table and what this host wires",
		RunE: func(cmd *cobra.Command, args []string) error {
			printDevices()
			return nil
		},
	}

	disasmCmd := &cobra.Command{
		Use:   "disasm <rom>",
		Short: "Best-effort one-opcode-per-line disassembly (diagnostic only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disasmROM(args[0])
		},
	}

	rootCmd.AddCommand(runCmd, devicesCmd, disasmCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runROM(path string, args []string, lenient, interactive bool, traceFile string) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}

	opts := []vm.Option{}
	if lenient {
		opts = append(opts, vm.WithLenientUnderflow())
	}
	if traceFile != "" {
		f, err := os.OpenFile(traceFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("opening trace file: %w", err)
		}
		defer f.Close()
		opts = append(opts, vm.WithTracer(diag.New(log.New(f, "", 0))))
	}

	cpu := vm.New(opts...)
	if err := cpu.LoadROM(rom); err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	adapter := host.New(cpu, os.Stdout)

	var term *host.Terminal
	if interactive {
		term = host.NewTerminal()
		if err := term.Start(); err != nil {
			return err
		}
		defer term.Stop()
	}

	adapter.SetArgc(len(args))
	exitErr := cpu.RunVector(vm.ResetVector)
	if exitErr == nil && len(args) > 0 {
		if err := adapter.DeliverArgs(args); err != nil {
			exitErr = err
		}
	}

	if term != nil {
		for exitErr == nil {
			b := <-term.Bytes()
			exitErr = adapter.DeliverStdin(b)
		}
	}

	var halt *vm.HaltError
	if exitErr != nil {
		if asHalt(exitErr, &halt) {
			os.Exit(int(halt.Code))
		}
		return exitErr
	}
	return nil
}

func asHalt(err error, halt **vm.HaltError) bool {
	h, ok := err.(*vm.HaltError)
	if !ok {
		return false
	}
	*halt = h
	return true
}

func printDevices() {
	rows := []struct {
		port, meaning string
	}{
		{"0x0F", "System state (W): nonzero halts, exit code = value & 0x7F"},
		{"0x02-0x03", "System expansion pointer (stored, inert)"},
		{"0x10-0x11", "Console vector (R, big-endian)"},
		{"0x12", "Console read buffer (W, host-delivered)"},
		{"0x17", "Console type: 0 no-queue, 1 stdin, 2 arg, 3 arg-spacer, 4 arg-end"},
		{"0x18", "Console write (W): emit byte to stdout"},
	}
	for _, r := range rows {
		fmt.Printf("%-10s %s\n", r.port, r.meaning)
	}
}

func disasmROM(path string) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}
	return vm.Disassemble(os.Stdout, rom)
}
