package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/leandrodaf/midiutil/internal/logger"
	"github.com/leandrodaf/midiutil/internal/transport"
	"github.com/leandrodaf/midiutil/sdk/contracts"
	"github.com/leandrodaf/midiutil/sdk/midi"
	"github.com/spf13/cobra"
)

type options struct {
	list      bool
	device    string
	write     bool
	read      bool
	hex       bool
	sysexFile string

	backend    string
	clientName string
	pacing     time.Duration
	buffer     int
	logFile    string
	verbose    bool
}

func newRootCmd(out io.Writer, extra ...contracts.Option) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "midiutil [flags] [DATA...]",
		Short: "MIDI tool",
		Long: `midiutil talks to MIDI ports.

It lists the connected devices, writes raw messages or SysEx dump files to an
output port, and prints every message received on an input port until
interrupted. Devices are selected by index or by (partial) name.`,
		Example: `  midiutil --list
  midiutil --device usb --write 144 60 127
  midiutil --device 1 --hex --write 90 3C 7F
  midiutil --device "Loop" --read --hex
  midiutil --device 0 --sysex-file patch.syx`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && !o.write {
				return fmt.Errorf("unexpected arguments %s (DATA is only accepted with --write)", strings.Join(args, " "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := o.mode()
			if mode == nil {
				return cmd.Help()
			}
			client, err := midi.NewMIDIClient(append(o.clientOptions(), extra...)...)
			if err != nil {
				return err
			}
			defer client.Close()
			return mode(cmd.Context(), cmd.OutOrStdout(), client, args)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&o.list, "list", "l", false, "List connected devices")
	flags.StringVarP(&o.device, "device", "d", "", "Select device by `ID` or name")
	flags.BoolVarP(&o.write, "write", "w", false, "Write DATA bytes as one message")
	flags.BoolVarP(&o.read, "read", "r", false, "Read data until interrupted")
	flags.BoolVarP(&o.hex, "hex", "x", false, "Show/interpret data as hex")
	flags.StringVarP(&o.sysexFile, "sysex-file", "s", "", "Send the SysEx messages of `FILE`")
	flags.StringVar(&o.backend, "backend", midi.DefaultBackend, "MIDI backend: "+strings.Join(midi.Backends(), ", "))
	flags.StringVar(&o.clientName, "client-name", "midiutil", "Client name registered with CoreMIDI")
	flags.DurationVar(&o.pacing, "pacing", transport.DefaultPacing, "Pause after each SysEx message")
	flags.IntVar(&o.buffer, "buffer", transport.DefaultReceiveBuffer, "Incoming messages buffered while printing")
	flags.StringVar(&o.logFile, "log-file", "", "Write logs to `FILE` instead of stderr")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Log debug output")
	cmd.MarkFlagsMutuallyExclusive("list", "write", "read", "sysex-file")

	return cmd
}

type modeFunc func(ctx context.Context, out io.Writer, client contracts.ClientMIDI, args []string) error

func (o *options) mode() modeFunc {
	switch {
	case o.list:
		return runList
	case o.write:
		return o.runWrite
	case o.read:
		return o.runRead
	case o.sysexFile != "":
		return o.runSysEx
	default:
		return nil
	}
}

func (o *options) clientOptions() []contracts.Option {
	level := contracts.WarnLevel
	if o.verbose {
		level = contracts.DebugLevel
	}
	return []contracts.Option{
		contracts.WithLogger(logger.NewConsoleLogger()),
		contracts.WithLogLevel(level),
		contracts.WithLogFilePath(o.logFile),
		contracts.WithBackend(o.backend),
		contracts.WithCoreMIDIConfig(contracts.CoreMIDIConfig{ClientName: o.clientName}),
		contracts.WithPacing(o.pacing),
		contracts.WithReceiveBuffer(o.buffer),
	}
}
